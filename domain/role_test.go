package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRole_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected Role
	}{
		{
			name:     "explicit role wins over everything",
			payload:  `{"id":1,"role":"staff","role_id":1,"user_type":"admin","type":"admin"}`,
			expected: RoleStaff,
		},
		{
			name:     "role_id when role is missing",
			payload:  `{"id":1,"name":"A","role_id":2}`,
			expected: RoleWarehouseManager,
		},
		{
			name:     "role_id given as string",
			payload:  `{"id":1,"role_id":"4"}`,
			expected: RoleStaff,
		},
		{
			name:     "role_id wins over user_type",
			payload:  `{"id":1,"role_id":3,"user_type":"admin"}`,
			expected: RoleCustomer,
		},
		{
			name:     "user_type when role and role_id are missing",
			payload:  `{"id":1,"user_type":"admin"}`,
			expected: RoleAdmin,
		},
		{
			name:     "user_type wins over type",
			payload:  `{"id":1,"user_type":"staff","type":"admin"}`,
			expected: RoleStaff,
		},
		{
			name:     "type as last explicit field",
			payload:  `{"id":1,"type":"warehouse_manager"}`,
			expected: RoleWarehouseManager,
		},
		{
			name:     "default customer when nothing is present",
			payload:  `{"id":1,"name":"A"}`,
			expected: RoleCustomer,
		},
		{
			name:     "empty role falls through to role_id",
			payload:  `{"id":1,"role":"","role_id":1}`,
			expected: RoleAdmin,
		},
		{
			name:     "null role falls through to user_type",
			payload:  `{"id":1,"role":null,"user_type":"staff"}`,
			expected: RoleStaff,
		},
		{
			name:     "unknown role label falls through",
			payload:  `{"id":1,"role":"superuser","type":"staff"}`,
			expected: RoleStaff,
		},
		{
			name:     "unknown role_id falls through to default",
			payload:  `{"id":1,"role_id":99}`,
			expected: RoleCustomer,
		},
		{
			name:     "role relation object with name",
			payload:  `{"id":1,"role":{"id":2,"name":"Warehouse Manager"}}`,
			expected: RoleWarehouseManager,
		},
		{
			name:     "role relation object with slug",
			payload:  `{"id":1,"role":{"id":1,"name":"Administrator","slug":"admin"}}`,
			expected: RoleAdmin,
		},
		{
			name:     "mixed case and hyphens are normalised",
			payload:  `{"id":1,"role":"Warehouse-Manager"}`,
			expected: RoleWarehouseManager,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p UserPayload
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &p))

			assert.Equal(t, tt.expected, p.User().Role)
		})
	}
}

func TestUserPayload_User(t *testing.T) {
	var p UserPayload
	require.NoError(t, json.Unmarshal([]byte(`{"id":"7","name":"Dara","email":"dara@example.com","role_id":1}`), &p))

	u := p.User()
	assert.Equal(t, uint(7), u.ID)
	assert.Equal(t, "Dara", u.Name)
	assert.Equal(t, "dara@example.com", u.Email)
	assert.Equal(t, RoleAdmin, u.Role)
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in    string
		role  Role
		valid bool
	}{
		{"admin", RoleAdmin, true},
		{" ADMIN ", RoleAdmin, true},
		{"customer", RoleCustomer, true},
		{"staff", RoleStaff, true},
		{"warehouse_manager", RoleWarehouseManager, true},
		{"warehouse manager", RoleWarehouseManager, true},
		{"warehouse", RoleWarehouseManager, true},
		{"", "", false},
		{"root", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, ok := ParseRole(tt.in)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.role, r)
			}
		})
	}
}

func TestDashboardPath(t *testing.T) {
	tests := []struct {
		role     Role
		expected string
	}{
		{RoleAdmin, "/dashboard/admin"},
		{RoleStaff, "/dashboard/staff"},
		{RoleWarehouseManager, "/dashboard/warehouse"},
		{RoleCustomer, "/dashboard/customer"},
		{"", "/dashboard/customer"},
		{"unknown", "/dashboard/customer"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.expected, DashboardPath(tt.role))
		})
	}
}

func TestRoleFromID(t *testing.T) {
	expected := map[int64]Role{1: RoleAdmin, 2: RoleWarehouseManager, 3: RoleCustomer, 4: RoleStaff}
	for id, role := range expected {
		r, ok := RoleFromID(id)
		assert.True(t, ok)
		assert.Equal(t, role, r)
	}

	_, ok := RoleFromID(0)
	assert.False(t, ok)
}
