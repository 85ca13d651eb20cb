package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/sovannvath/storefront-gateway/domain"
)

func listOf[T any](keys ...string) func(json.RawMessage) ([]T, error) {
	return func(raw json.RawMessage) ([]T, error) { return NormalizeList[T](raw, keys...) }
}

func itemOf[T any](keys ...string) func(json.RawMessage) (*T, error) {
	return func(raw json.RawMessage) (*T, error) { return NormalizeItem[T](raw, keys...) }
}

func ignore(json.RawMessage) (domain.Empty, error) { return domain.Empty{}, nil }

// authBody covers the token field names seen on login and register
type authBody struct {
	Token       string              `json:"token"`
	AccessToken string              `json:"access_token"`
	User        *domain.UserPayload `json:"user"`
}

func decodeAuth(raw json.RawMessage) (domain.AuthPayload, error) {
	body, err := NormalizeItem[authBody](raw)
	if err != nil {
		return domain.AuthPayload{}, err
	}
	out := domain.AuthPayload{Token: body.Token}
	if out.Token == "" {
		out.Token = body.AccessToken
	}
	if body.User != nil {
		out.User = body.User.User()
	}
	return out, nil
}

func decodeUser(raw json.RawMessage) (*domain.User, error) {
	p, err := NormalizeItem[domain.UserPayload](raw, "user")
	if err != nil {
		return nil, err
	}
	return p.User(), nil
}

// Login implements domain.StorefrontAPI
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.APIResult[domain.AuthPayload], error) {
	return do(ctx, c, request{op: "login", method: http.MethodPost, path: "/login", body: creds}, decodeAuth)
}

// Register implements domain.StorefrontAPI
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.APIResult[domain.AuthPayload], error) {
	return do(ctx, c, request{op: "register", method: http.MethodPost, path: "/register", body: reg}, decodeAuth)
}

// Logout implements domain.StorefrontAPI
func (c *Client) Logout(ctx context.Context, token string) (domain.APIResult[domain.Empty], error) {
	return do(ctx, c, request{op: "logout", method: http.MethodPost, path: "/logout", token: token}, ignore)
}

// CurrentUser implements domain.StorefrontAPI
func (c *Client) CurrentUser(ctx context.Context, token string) (domain.APIResult[*domain.User], error) {
	return do(ctx, c, request{op: "current_user", method: http.MethodGet, path: "/user", token: token}, decodeUser)
}

// ListProducts implements domain.StorefrontAPI
func (c *Client) ListProducts(ctx context.Context, token string, query url.Values) (domain.APIResult[[]domain.Product], error) {
	return do(ctx, c, request{op: "list_products", method: http.MethodGet, path: "/products", token: token, query: query},
		listOf[domain.Product]("products"))
}

// GetProduct implements domain.StorefrontAPI
func (c *Client) GetProduct(ctx context.Context, token string, id uint) (domain.APIResult[*domain.Product], error) {
	return do(ctx, c, request{op: "get_product", method: http.MethodGet, path: fmt.Sprintf("/products/%d", id), token: token},
		itemOf[domain.Product]("product"))
}

// CreateProduct implements domain.StorefrontAPI
func (c *Client) CreateProduct(ctx context.Context, token string, in domain.ProductInput) (domain.APIResult[*domain.Product], error) {
	return do(ctx, c, request{op: "create_product", method: http.MethodPost, path: "/products", token: token, body: in},
		itemOf[domain.Product]("product"))
}

// UpdateProduct implements domain.StorefrontAPI
func (c *Client) UpdateProduct(ctx context.Context, token string, id uint, in domain.ProductInput) (domain.APIResult[*domain.Product], error) {
	return do(ctx, c, request{op: "update_product", method: http.MethodPut, path: fmt.Sprintf("/products/%d", id), token: token, body: in},
		itemOf[domain.Product]("product"))
}

// DeleteProduct implements domain.StorefrontAPI
func (c *Client) DeleteProduct(ctx context.Context, token string, id uint) (domain.APIResult[domain.Empty], error) {
	return do(ctx, c, request{op: "delete_product", method: http.MethodDelete, path: fmt.Sprintf("/products/%d", id), token: token}, ignore)
}

// GetCart implements domain.StorefrontAPI
func (c *Client) GetCart(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
	return do(ctx, c, request{op: "get_cart", method: http.MethodGet, path: "/cart", token: token}, itemOf[domain.Cart]("cart"))
}

// AddToCart implements domain.StorefrontAPI
func (c *Client) AddToCart(ctx context.Context, token string, in domain.CartItemInput) (domain.APIResult[domain.Empty], error) {
	return do(ctx, c, request{op: "add_to_cart", method: http.MethodPost, path: "/cart/add", token: token, body: in}, ignore)
}

// UpdateCartItem implements domain.StorefrontAPI
func (c *Client) UpdateCartItem(ctx context.Context, token string, itemID uint, in domain.CartItemInput) (domain.APIResult[domain.Empty], error) {
	return do(ctx, c, request{op: "update_cart_item", method: http.MethodPut, path: fmt.Sprintf("/cart/items/%d", itemID), token: token, body: in}, ignore)
}

// RemoveCartItem implements domain.StorefrontAPI
func (c *Client) RemoveCartItem(ctx context.Context, token string, itemID uint) (domain.APIResult[domain.Empty], error) {
	return do(ctx, c, request{op: "remove_cart_item", method: http.MethodDelete, path: fmt.Sprintf("/cart/items/%d", itemID), token: token}, ignore)
}

// ClearCart implements domain.StorefrontAPI
func (c *Client) ClearCart(ctx context.Context, token string) (domain.APIResult[domain.Empty], error) {
	return do(ctx, c, request{op: "clear_cart", method: http.MethodDelete, path: "/cart/clear", token: token}, ignore)
}

// ListOrders implements domain.StorefrontAPI
func (c *Client) ListOrders(ctx context.Context, token string) (domain.APIResult[[]domain.Order], error) {
	return do(ctx, c, request{op: "list_orders", method: http.MethodGet, path: "/orders", token: token}, listOf[domain.Order]("orders"))
}

// CreateOrder implements domain.StorefrontAPI
func (c *Client) CreateOrder(ctx context.Context, token string, in domain.OrderInput) (domain.APIResult[*domain.Order], error) {
	return do(ctx, c, request{op: "create_order", method: http.MethodPost, path: "/orders", token: token, body: in}, itemOf[domain.Order]("order"))
}

// UpdateOrderStatus implements domain.StorefrontAPI
func (c *Client) UpdateOrderStatus(ctx context.Context, token string, id uint, in domain.StatusUpdate) (domain.APIResult[*domain.Order], error) {
	return do(ctx, c, request{op: "update_order_status", method: http.MethodPut, path: fmt.Sprintf("/orders/%d/status", id), token: token, body: in},
		itemOf[domain.Order]("order"))
}

// UpdateOrderPayment implements domain.StorefrontAPI
func (c *Client) UpdateOrderPayment(ctx context.Context, token string, id uint, in domain.StatusUpdate) (domain.APIResult[*domain.Order], error) {
	return do(ctx, c, request{op: "update_order_payment", method: http.MethodPut, path: fmt.Sprintf("/orders/%d/payment", id), token: token, body: in},
		itemOf[domain.Order]("order"))
}

// Dashboard implements domain.StorefrontAPI. The upstream segment is the
// last element of the role's dashboard path, so both sides agree on names.
func (c *Client) Dashboard(ctx context.Context, token string, role domain.Role) (domain.APIResult[*domain.Dashboard], error) {
	segment := path.Base(domain.DashboardPath(role))
	return do(ctx, c, request{op: "dashboard", method: http.MethodGet, path: "/dashboard/" + segment, token: token},
		func(raw json.RawMessage) (*domain.Dashboard, error) {
			data, err := NormalizeItem[map[string]any](raw, "dashboard")
			if err != nil {
				return nil, err
			}
			return &domain.Dashboard{Role: role, Data: *data}, nil
		})
}

// ListRequestOrders implements domain.StorefrontAPI
func (c *Client) ListRequestOrders(ctx context.Context, token string) (domain.APIResult[[]domain.RequestOrder], error) {
	return do(ctx, c, request{op: "list_request_orders", method: http.MethodGet, path: "/request-orders", token: token},
		listOf[domain.RequestOrder]("request_orders"))
}

// AdminApproveRequestOrder implements domain.StorefrontAPI
func (c *Client) AdminApproveRequestOrder(ctx context.Context, token string, id uint, in domain.Approval) (domain.APIResult[*domain.RequestOrder], error) {
	return do(ctx, c, request{op: "admin_approval", method: http.MethodPut, path: fmt.Sprintf("/request-orders/%d/admin-approval", id), token: token, body: in},
		itemOf[domain.RequestOrder]("request_order"))
}

// WarehouseApproveRequestOrder implements domain.StorefrontAPI
func (c *Client) WarehouseApproveRequestOrder(ctx context.Context, token string, id uint, in domain.Approval) (domain.APIResult[*domain.RequestOrder], error) {
	return do(ctx, c, request{op: "warehouse_approval", method: http.MethodPut, path: fmt.Sprintf("/request-orders/%d/warehouse-approval", id), token: token, body: in},
		itemOf[domain.RequestOrder]("request_order"))
}
