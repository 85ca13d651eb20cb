package mocks

import "github.com/sovannvath/storefront-gateway/domain"

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing
type MockCasbinEnforcer struct {
	AddPolicyFunc         func(params ...interface{}) (bool, error)
	RemovePolicyFunc      func(params ...interface{}) (bool, error)
	EnforceFunc           func(rvals ...interface{}) (bool, error)
	GetPolicyFunc         func() ([][]string, error)
	GetFilteredPolicyFunc func(fieldIndex int, fieldValues ...string) ([][]string, error)
	SavePolicyFunc        func() error
	policies              [][]string
	SaveCalls             int
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with default behaviors
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		policies: [][]string{
			{"role_admin", "/api/products", "POST"},
			{"role_customer", "/api/cart", "GET"},
			{"role_admin", "/api/orders/:id/status", "PUT"},
			{"role_staff", "/api/orders/:id/status", "PUT"},
		},
	}
}

func toStrings(params []interface{}) []string {
	out := make([]string, len(params))
	for i, param := range params {
		if str, ok := param.(string); ok {
			out[i] = str
		}
	}
	return out
}

func equalRule(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AddPolicy adds a new policy rule
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	if len(params) < 3 {
		return false, nil
	}
	rule := toStrings(params)
	for _, p := range m.policies {
		if equalRule(p, rule) {
			return false, nil
		}
	}
	m.policies = append(m.policies, rule)
	return true, nil
}

// RemovePolicy removes a policy rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	rule := toStrings(params)
	for i, p := range m.policies {
		if equalRule(p, rule) {
			m.policies = append(m.policies[:i], m.policies[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Enforce matches subject, route and method exactly
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	req := toStrings(rvals)
	for _, p := range m.policies {
		if equalRule(p, req) {
			return true, nil
		}
	}
	return false, nil
}

// GetPolicy returns all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	return m.copyOf(m.policies), nil
}

// GetFilteredPolicy returns the policies whose fields starting at
// fieldIndex equal fieldValues; an empty value matches anything
func (m *MockCasbinEnforcer) GetFilteredPolicy(fieldIndex int, fieldValues ...string) ([][]string, error) {
	if m.GetFilteredPolicyFunc != nil {
		return m.GetFilteredPolicyFunc(fieldIndex, fieldValues...)
	}
	var out [][]string
	for _, p := range m.policies {
		match := true
		for i, v := range fieldValues {
			idx := fieldIndex + i
			if v == "" {
				continue
			}
			if idx >= len(p) || p[idx] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return m.copyOf(out), nil
}

// SavePolicy saves all policies
func (m *MockCasbinEnforcer) SavePolicy() error {
	m.SaveCalls++
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	return nil
}

// SetPolicies sets the internal policies (test helper)
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.policies = m.copyOf(policies)
}

func (m *MockCasbinEnforcer) copyOf(policies [][]string) [][]string {
	result := make([][]string, len(policies))
	for i, policy := range policies {
		result[i] = make([]string, len(policy))
		copy(result[i], policy)
	}
	return result
}
