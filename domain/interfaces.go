package domain

import (
	"context"
	"net/url"
	"time"
)

// Empty is the payload of upstream calls whose body carries nothing we use
type Empty struct{}

// AuthPayload is what the upstream returns from login and register
type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// StorefrontAPI is the upstream Laravel REST API as seen by the gateway.
// Every method performs one logical call (retries included) and returns a
// normalised result; err is non-nil only when no usable response arrived.
type StorefrontAPI interface {
	Login(ctx context.Context, creds Credentials) (APIResult[AuthPayload], error)
	Register(ctx context.Context, reg Registration) (APIResult[AuthPayload], error)
	Logout(ctx context.Context, token string) (APIResult[Empty], error)
	CurrentUser(ctx context.Context, token string) (APIResult[*User], error)

	ListProducts(ctx context.Context, token string, query url.Values) (APIResult[[]Product], error)
	GetProduct(ctx context.Context, token string, id uint) (APIResult[*Product], error)
	CreateProduct(ctx context.Context, token string, in ProductInput) (APIResult[*Product], error)
	UpdateProduct(ctx context.Context, token string, id uint, in ProductInput) (APIResult[*Product], error)
	DeleteProduct(ctx context.Context, token string, id uint) (APIResult[Empty], error)

	GetCart(ctx context.Context, token string) (APIResult[*Cart], error)
	AddToCart(ctx context.Context, token string, in CartItemInput) (APIResult[Empty], error)
	UpdateCartItem(ctx context.Context, token string, itemID uint, in CartItemInput) (APIResult[Empty], error)
	RemoveCartItem(ctx context.Context, token string, itemID uint) (APIResult[Empty], error)
	ClearCart(ctx context.Context, token string) (APIResult[Empty], error)

	ListOrders(ctx context.Context, token string) (APIResult[[]Order], error)
	CreateOrder(ctx context.Context, token string, in OrderInput) (APIResult[*Order], error)
	UpdateOrderStatus(ctx context.Context, token string, id uint, in StatusUpdate) (APIResult[*Order], error)
	UpdateOrderPayment(ctx context.Context, token string, id uint, in StatusUpdate) (APIResult[*Order], error)

	Dashboard(ctx context.Context, token string, role Role) (APIResult[*Dashboard], error)

	ListRequestOrders(ctx context.Context, token string) (APIResult[[]RequestOrder], error)
	AdminApproveRequestOrder(ctx context.Context, token string, id uint, in Approval) (APIResult[*RequestOrder], error)
	WarehouseApproveRequestOrder(ctx context.Context, token string, id uint, in Approval) (APIResult[*RequestOrder], error)
}

// SessionRepository stores gateway sessions and their upstream tokens
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// CartCache keeps the last known cart summary per session
type CartCache interface {
	Get(ctx context.Context, sessionID string) (*CartSummary, error)
	Put(ctx context.Context, sessionID string, summary CartSummary) error
	Delete(ctx context.Context, sessionID string) error
}

// TokenClaims represents the claims of a gateway session token
type TokenClaims struct {
	SessionID string `json:"session_id"`
	UserID    uint   `json:"user_id"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService issues and validates gateway session tokens
type TokenService interface {
	GenerateSessionToken(sessionID string, userID uint, role Role) (string, error)
	ValidateSessionToken(token string) (*TokenClaims, error)
	TTL() time.Duration
}

// SessionState is the outcome of resolving a session
type SessionState int

const (
	StateAnonymous SessionState = iota
	StateAuthenticated
	StateUnavailable
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnavailable:
		return "unavailable"
	default:
		return "anonymous"
	}
}

// Resolution is the resolved {user, role} pair for a request. User is nil
// unless State is StateAuthenticated.
type Resolution struct {
	State   SessionState
	Session *Session
	User    *User
}

// Authenticated reports whether a user was resolved
func (r *Resolution) Authenticated() bool {
	return r != nil && r.State == StateAuthenticated && r.User != nil
}

// Role returns the resolved role, empty when unauthenticated
func (r *Resolution) Role() Role {
	if !r.Authenticated() {
		return ""
	}
	return r.User.Role
}

// SessionResolver turns a session id into a Resolution
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*Resolution, error)
}

// AuthService defines the login flow against the upstream API
type AuthService interface {
	SessionResolver
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	Register(ctx context.Context, reg Registration) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Revoke(ctx context.Context, sessionID, reason string) error
	Refresh(ctx context.Context, sessionID string) (*LoginResult, error)
}

// PolicyService defines route allow-list operations
type PolicyService interface {
	AllowedRoles(route, method string) ([]Role, error)
	AddPolicy(role Role, route, method string) error
	RemovePolicy(role Role, route, method string) error
	CheckPermission(role Role, route, method string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	GetFilteredPolicy(fieldIndex int, fieldValues ...string) ([][]string, error)
	SavePolicy() error
}
