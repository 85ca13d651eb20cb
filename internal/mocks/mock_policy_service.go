package mocks

import "github.com/sovannvath/storefront-gateway/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AllowedRolesFunc    func(route, method string) ([]domain.Role, error)
	AddPolicyFunc       func(role domain.Role, route, method string) error
	RemovePolicyFunc    func(role domain.Role, route, method string) error
	CheckPermissionFunc func(role domain.Role, route, method string) (bool, error)
	GetPoliciesFunc     func() [][]string

	// Routes maps "METHOD route" to its allowed roles for the default
	// AllowedRoles behavior
	Routes map[string][]domain.Role
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{Routes: make(map[string][]domain.Role)}
}

// Allow registers allowed roles for a route (test helper)
func (m *MockPolicyService) Allow(method, route string, roles ...domain.Role) *MockPolicyService {
	m.Routes[method+" "+route] = roles
	return m
}

// AllowedRoles returns the roles allowed on a route
func (m *MockPolicyService) AllowedRoles(route, method string) ([]domain.Role, error) {
	if m.AllowedRolesFunc != nil {
		return m.AllowedRolesFunc(route, method)
	}
	return m.Routes[method+" "+route], nil
}

// AddPolicy adds a new authorization policy
func (m *MockPolicyService) AddPolicy(role domain.Role, route, method string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, route, method)
	}
	key := method + " " + route
	m.Routes[key] = append(m.Routes[key], role)
	return nil
}

// RemovePolicy removes an authorization policy
func (m *MockPolicyService) RemovePolicy(role domain.Role, route, method string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, route, method)
	}
	key := method + " " + route
	kept := m.Routes[key][:0]
	for _, r := range m.Routes[key] {
		if r != role {
			kept = append(kept, r)
		}
	}
	m.Routes[key] = kept
	return nil
}

// CheckPermission checks if a role may use a route
func (m *MockPolicyService) CheckPermission(role domain.Role, route, method string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, route, method)
	}
	for _, r := range m.Routes[method+" "+route] {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

// GetPolicies returns all policies
func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{}
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
