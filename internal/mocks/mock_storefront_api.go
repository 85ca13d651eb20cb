package mocks

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/sovannvath/storefront-gateway/domain"
)

// MockStorefrontAPI implements domain.StorefrontAPI for testing. Unset
// functions answer 200 with an empty payload; every call is recorded.
type MockStorefrontAPI struct {
	LoginFunc                        func(ctx context.Context, creds domain.Credentials) (domain.APIResult[domain.AuthPayload], error)
	RegisterFunc                     func(ctx context.Context, reg domain.Registration) (domain.APIResult[domain.AuthPayload], error)
	LogoutFunc                       func(ctx context.Context, token string) (domain.APIResult[domain.Empty], error)
	CurrentUserFunc                  func(ctx context.Context, token string) (domain.APIResult[*domain.User], error)
	ListProductsFunc                 func(ctx context.Context, token string, query url.Values) (domain.APIResult[[]domain.Product], error)
	GetProductFunc                   func(ctx context.Context, token string, id uint) (domain.APIResult[*domain.Product], error)
	CreateProductFunc                func(ctx context.Context, token string, in domain.ProductInput) (domain.APIResult[*domain.Product], error)
	UpdateProductFunc                func(ctx context.Context, token string, id uint, in domain.ProductInput) (domain.APIResult[*domain.Product], error)
	DeleteProductFunc                func(ctx context.Context, token string, id uint) (domain.APIResult[domain.Empty], error)
	GetCartFunc                      func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error)
	AddToCartFunc                    func(ctx context.Context, token string, in domain.CartItemInput) (domain.APIResult[domain.Empty], error)
	UpdateCartItemFunc               func(ctx context.Context, token string, itemID uint, in domain.CartItemInput) (domain.APIResult[domain.Empty], error)
	RemoveCartItemFunc               func(ctx context.Context, token string, itemID uint) (domain.APIResult[domain.Empty], error)
	ClearCartFunc                    func(ctx context.Context, token string) (domain.APIResult[domain.Empty], error)
	ListOrdersFunc                   func(ctx context.Context, token string) (domain.APIResult[[]domain.Order], error)
	CreateOrderFunc                  func(ctx context.Context, token string, in domain.OrderInput) (domain.APIResult[*domain.Order], error)
	UpdateOrderStatusFunc            func(ctx context.Context, token string, id uint, in domain.StatusUpdate) (domain.APIResult[*domain.Order], error)
	UpdateOrderPaymentFunc           func(ctx context.Context, token string, id uint, in domain.StatusUpdate) (domain.APIResult[*domain.Order], error)
	DashboardFunc                    func(ctx context.Context, token string, role domain.Role) (domain.APIResult[*domain.Dashboard], error)
	ListRequestOrdersFunc            func(ctx context.Context, token string) (domain.APIResult[[]domain.RequestOrder], error)
	AdminApproveRequestOrderFunc     func(ctx context.Context, token string, id uint, in domain.Approval) (domain.APIResult[*domain.RequestOrder], error)
	WarehouseApproveRequestOrderFunc func(ctx context.Context, token string, id uint, in domain.Approval) (domain.APIResult[*domain.RequestOrder], error)

	mu    sync.Mutex
	calls []string
}

// Compile-time interface compliance verification
var _ domain.StorefrontAPI = (*MockStorefrontAPI)(nil)

// NewMockStorefrontAPI creates a new MockStorefrontAPI with default behaviors
func NewMockStorefrontAPI() *MockStorefrontAPI {
	return &MockStorefrontAPI{}
}

// Calls returns the names of the operations invoked so far, in order
func (m *MockStorefrontAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times op was invoked
func (m *MockStorefrontAPI) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *MockStorefrontAPI) record(op string) {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	m.mu.Unlock()
}

func ok[T any](data T) (domain.APIResult[T], error) {
	return domain.APIResult[T]{Status: http.StatusOK, Data: data}, nil
}

func (m *MockStorefrontAPI) Login(ctx context.Context, creds domain.Credentials) (domain.APIResult[domain.AuthPayload], error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return ok(domain.AuthPayload{
		Token: "upstream-token",
		User:  &domain.User{ID: 1, Email: creds.Email, Role: domain.RoleCustomer},
	})
}

func (m *MockStorefrontAPI) Register(ctx context.Context, reg domain.Registration) (domain.APIResult[domain.AuthPayload], error) {
	m.record("Register")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	return ok(domain.AuthPayload{
		Token: "upstream-token",
		User:  &domain.User{ID: 1, Name: reg.Name, Email: reg.Email, Role: domain.RoleCustomer},
	})
}

func (m *MockStorefrontAPI) Logout(ctx context.Context, token string) (domain.APIResult[domain.Empty], error) {
	m.record("Logout")
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return ok(domain.Empty{})
}

func (m *MockStorefrontAPI) CurrentUser(ctx context.Context, token string) (domain.APIResult[*domain.User], error) {
	m.record("CurrentUser")
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, token)
	}
	return ok(&domain.User{ID: 1, Role: domain.RoleCustomer})
}

func (m *MockStorefrontAPI) ListProducts(ctx context.Context, token string, query url.Values) (domain.APIResult[[]domain.Product], error) {
	m.record("ListProducts")
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, token, query)
	}
	return ok([]domain.Product{})
}

func (m *MockStorefrontAPI) GetProduct(ctx context.Context, token string, id uint) (domain.APIResult[*domain.Product], error) {
	m.record("GetProduct")
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, token, id)
	}
	return ok(&domain.Product{ID: domain.Int(id)})
}

func (m *MockStorefrontAPI) CreateProduct(ctx context.Context, token string, in domain.ProductInput) (domain.APIResult[*domain.Product], error) {
	m.record("CreateProduct")
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, token, in)
	}
	return ok(&domain.Product{ID: 1, Name: in.Name, Price: domain.Float(in.Price)})
}

func (m *MockStorefrontAPI) UpdateProduct(ctx context.Context, token string, id uint, in domain.ProductInput) (domain.APIResult[*domain.Product], error) {
	m.record("UpdateProduct")
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, token, id, in)
	}
	return ok(&domain.Product{ID: domain.Int(id), Name: in.Name, Price: domain.Float(in.Price)})
}

func (m *MockStorefrontAPI) DeleteProduct(ctx context.Context, token string, id uint) (domain.APIResult[domain.Empty], error) {
	m.record("DeleteProduct")
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, token, id)
	}
	return ok(domain.Empty{})
}

func (m *MockStorefrontAPI) GetCart(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
	m.record("GetCart")
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, token)
	}
	return ok(&domain.Cart{Items: []domain.CartItem{}})
}

func (m *MockStorefrontAPI) AddToCart(ctx context.Context, token string, in domain.CartItemInput) (domain.APIResult[domain.Empty], error) {
	m.record("AddToCart")
	if m.AddToCartFunc != nil {
		return m.AddToCartFunc(ctx, token, in)
	}
	return ok(domain.Empty{})
}

func (m *MockStorefrontAPI) UpdateCartItem(ctx context.Context, token string, itemID uint, in domain.CartItemInput) (domain.APIResult[domain.Empty], error) {
	m.record("UpdateCartItem")
	if m.UpdateCartItemFunc != nil {
		return m.UpdateCartItemFunc(ctx, token, itemID, in)
	}
	return ok(domain.Empty{})
}

func (m *MockStorefrontAPI) RemoveCartItem(ctx context.Context, token string, itemID uint) (domain.APIResult[domain.Empty], error) {
	m.record("RemoveCartItem")
	if m.RemoveCartItemFunc != nil {
		return m.RemoveCartItemFunc(ctx, token, itemID)
	}
	return ok(domain.Empty{})
}

func (m *MockStorefrontAPI) ClearCart(ctx context.Context, token string) (domain.APIResult[domain.Empty], error) {
	m.record("ClearCart")
	if m.ClearCartFunc != nil {
		return m.ClearCartFunc(ctx, token)
	}
	return ok(domain.Empty{})
}

func (m *MockStorefrontAPI) ListOrders(ctx context.Context, token string) (domain.APIResult[[]domain.Order], error) {
	m.record("ListOrders")
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, token)
	}
	return ok([]domain.Order{})
}

func (m *MockStorefrontAPI) CreateOrder(ctx context.Context, token string, in domain.OrderInput) (domain.APIResult[*domain.Order], error) {
	m.record("CreateOrder")
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, token, in)
	}
	return ok(&domain.Order{ID: 1, Status: "pending"})
}

func (m *MockStorefrontAPI) UpdateOrderStatus(ctx context.Context, token string, id uint, in domain.StatusUpdate) (domain.APIResult[*domain.Order], error) {
	m.record("UpdateOrderStatus")
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(ctx, token, id, in)
	}
	return ok(&domain.Order{ID: domain.Int(id), Status: in.Status})
}

func (m *MockStorefrontAPI) UpdateOrderPayment(ctx context.Context, token string, id uint, in domain.StatusUpdate) (domain.APIResult[*domain.Order], error) {
	m.record("UpdateOrderPayment")
	if m.UpdateOrderPaymentFunc != nil {
		return m.UpdateOrderPaymentFunc(ctx, token, id, in)
	}
	return ok(&domain.Order{ID: domain.Int(id), PaymentStatus: in.Status})
}

func (m *MockStorefrontAPI) Dashboard(ctx context.Context, token string, role domain.Role) (domain.APIResult[*domain.Dashboard], error) {
	m.record("Dashboard")
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, token, role)
	}
	return ok(&domain.Dashboard{Role: role, Data: map[string]any{}})
}

func (m *MockStorefrontAPI) ListRequestOrders(ctx context.Context, token string) (domain.APIResult[[]domain.RequestOrder], error) {
	m.record("ListRequestOrders")
	if m.ListRequestOrdersFunc != nil {
		return m.ListRequestOrdersFunc(ctx, token)
	}
	return ok([]domain.RequestOrder{})
}

func (m *MockStorefrontAPI) AdminApproveRequestOrder(ctx context.Context, token string, id uint, in domain.Approval) (domain.APIResult[*domain.RequestOrder], error) {
	m.record("AdminApproveRequestOrder")
	if m.AdminApproveRequestOrderFunc != nil {
		return m.AdminApproveRequestOrderFunc(ctx, token, id, in)
	}
	return ok(&domain.RequestOrder{ID: domain.Int(id), AdminApproved: domain.Bool(in.Approved)})
}

func (m *MockStorefrontAPI) WarehouseApproveRequestOrder(ctx context.Context, token string, id uint, in domain.Approval) (domain.APIResult[*domain.RequestOrder], error) {
	m.record("WarehouseApproveRequestOrder")
	if m.WarehouseApproveRequestOrderFunc != nil {
		return m.WarehouseApproveRequestOrderFunc(ctx, token, id, in)
	}
	return ok(&domain.RequestOrder{ID: domain.Int(id), WarehouseApproved: domain.Bool(in.Approved)})
}
