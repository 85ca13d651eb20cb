package services

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/sovannvath/storefront-gateway/domain"
)

// RolePrefix namespaces role subjects in casbin policies
const RolePrefix = "role_"

// RoutePolicy names the roles allowed on one gateway route
type RoutePolicy struct {
	Method string
	Route  string
	Roles  []domain.Role
}

// DefaultPolicies is seeded into an empty policy store. Routes that only
// require a signed-in user have no entry.
var DefaultPolicies = []RoutePolicy{
	{"POST", "/api/products", []domain.Role{domain.RoleAdmin}},
	{"PUT", "/api/products/:id", []domain.Role{domain.RoleAdmin}},
	{"DELETE", "/api/products/:id", []domain.Role{domain.RoleAdmin}},

	{"GET", "/api/cart", []domain.Role{domain.RoleCustomer}},
	{"GET", "/api/cart/summary", []domain.Role{domain.RoleCustomer}},
	{"POST", "/api/cart/add", []domain.Role{domain.RoleCustomer}},
	{"PUT", "/api/cart/items/:id", []domain.Role{domain.RoleCustomer}},
	{"DELETE", "/api/cart/items/:id", []domain.Role{domain.RoleCustomer}},
	{"DELETE", "/api/cart/clear", []domain.Role{domain.RoleCustomer}},

	{"POST", "/api/orders", []domain.Role{domain.RoleCustomer}},
	{"PUT", "/api/orders/:id/status", []domain.Role{domain.RoleAdmin, domain.RoleStaff}},
	{"PUT", "/api/orders/:id/payment", []domain.Role{domain.RoleAdmin, domain.RoleStaff}},
	{"GET", "/api/orders/export", []domain.Role{domain.RoleAdmin, domain.RoleStaff}},

	{"GET", "/api/request-orders", []domain.Role{domain.RoleAdmin, domain.RoleWarehouseManager}},
	{"PUT", "/api/request-orders/:id/admin-approval", []domain.Role{domain.RoleAdmin}},
	{"PUT", "/api/request-orders/:id/warehouse-approval", []domain.Role{domain.RoleWarehouseManager}},

	{"GET", "/dashboard/admin", []domain.Role{domain.RoleAdmin}},
	{"GET", "/dashboard/staff", []domain.Role{domain.RoleStaff}},
	{"GET", "/dashboard/warehouse", []domain.Role{domain.RoleWarehouseManager}},
	{"GET", "/dashboard/customer", []domain.Role{domain.RoleCustomer}},

	{"GET", "/api/admin/policies", []domain.Role{domain.RoleAdmin}},
	{"POST", "/api/admin/policies", []domain.Role{domain.RoleAdmin}},
	{"DELETE", "/api/admin/policies", []domain.Role{domain.RoleAdmin}},
	{"GET", "/api/admin/audit", []domain.Role{domain.RoleAdmin}},
}

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) GetFilteredPolicy(fieldIndex int, fieldValues ...string) ([][]string, error) {
	return w.enforcer.GetFilteredPolicy(fieldIndex, fieldValues...)
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// AllowedRoles implements domain.PolicyService. An empty result means the
// route only needs a signed-in user.
func (p *PolicyServiceImpl) AllowedRoles(route, method string) ([]domain.Role, error) {
	rules, err := p.enforcer.GetFilteredPolicy(1, route, method)
	if err != nil {
		return nil, fmt.Errorf("lookup policies for %s %s: %w", method, route, err)
	}

	roles := make([]domain.Role, 0, len(rules))
	for _, rule := range rules {
		if len(rule) == 0 || !strings.HasPrefix(rule[0], RolePrefix) {
			continue
		}
		role, ok := domain.ParseRole(strings.TrimPrefix(rule[0], RolePrefix))
		if !ok {
			continue
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role domain.Role, route, method string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInsufficientRole, role)
	}
	_, err := p.enforcer.AddPolicy(RolePrefix+string(role), route, method)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role domain.Role, route, method string) error {
	_, err := p.enforcer.RemovePolicy(RolePrefix+string(role), route, method)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role domain.Role, route, method string) (bool, error) {
	return p.enforcer.Enforce(RolePrefix+string(role), route, method)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

// SeedDefaults writes policies into an empty store and reports how many
// rules were added. A store that already holds rules is left alone.
func SeedDefaults(ps domain.PolicyService, policies []RoutePolicy) (int, error) {
	if len(ps.GetPolicies()) > 0 {
		return 0, nil
	}
	added := 0
	for _, rp := range policies {
		for _, role := range rp.Roles {
			if err := ps.AddPolicy(role, rp.Route, rp.Method); err != nil {
				return added, fmt.Errorf("seed %s %s for %s: %w", rp.Method, rp.Route, role, err)
			}
			added++
		}
	}
	return added, nil
}
