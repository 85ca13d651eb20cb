package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ordersSheet = "Orders"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// OrderHandlers proxies orders and restocking request orders
type OrderHandlers struct {
	api domain.StorefrontAPI
	up  *Upstream
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(api domain.StorefrontAPI, up *Upstream) *OrderHandlers {
	return &OrderHandlers{api: api, up: up}
}

// CreateOrderRequest represents a checkout request
type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
}

// StatusRequest represents an order status or payment transition
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ApprovalRequest represents a request order decision
type ApprovalRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Notes    string `json:"notes"`
}

// List returns the orders visible to the caller
func (h *OrderHandlers) List(c *gin.Context) {
	res, err := h.api.ListOrders(c.Request.Context(), middleware.UpstreamToken(c))
	relay(c, h.up, res, err)
}

// Create places an order from the cart
func (h *OrderHandlers) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.api.CreateOrder(c.Request.Context(), middleware.UpstreamToken(c), domain.OrderInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	relay(c, h.up, res, err)
}

// UpdateStatus moves an order through fulfilment
func (h *OrderHandlers) UpdateStatus(c *gin.Context) {
	id, req, ok := bindStatus(c)
	if !ok {
		return
	}
	res, err := h.api.UpdateOrderStatus(c.Request.Context(), middleware.UpstreamToken(c), id, req)
	relay(c, h.up, res, err)
}

// UpdatePayment records a payment status change
func (h *OrderHandlers) UpdatePayment(c *gin.Context) {
	id, req, ok := bindStatus(c)
	if !ok {
		return
	}
	res, err := h.api.UpdateOrderPayment(c.Request.Context(), middleware.UpstreamToken(c), id, req)
	relay(c, h.up, res, err)
}

func bindStatus(c *gin.Context) (uint, domain.StatusUpdate, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return 0, domain.StatusUpdate{}, false
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, domain.StatusUpdate{}, false
	}
	return id, domain.StatusUpdate{Status: req.Status, Note: req.Note}, true
}

// Export streams the caller's orders as an XLSX workbook
func (h *OrderHandlers) Export(c *gin.Context) {
	res, err := h.api.ListOrders(c.Request.Context(), middleware.UpstreamToken(c))
	if err == nil {
		err = res.Err()
	}
	if err != nil {
		h.up.Fail(c, err)
		return
	}

	f, err := OrdersWorkbook(res.Data)
	if err != nil {
		h.up.logger.Error("failed to build orders workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxMIME)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.up.logger.Warn("failed to stream orders workbook", zap.Error(err))
	}
}

// OrdersWorkbook renders orders as a single-sheet workbook with a bold
// header row
func OrdersWorkbook(orders []domain.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := []interface{}{"Order ID", "User ID", "Status", "Payment Status", "Items", "Total", "Created At"}
	if err := f.SetSheetRow(ordersSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(ordersSheet, "A1", "G1", bold); err != nil {
		f.Close()
		return nil, err
	}

	for i, o := range orders {
		var items int64
		for _, item := range o.Items {
			items += int64(item.Quantity)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{int64(o.ID), int64(o.UserID), o.Status, o.PaymentStatus, items, float64(o.Total), o.CreatedAt}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// ListRequests returns restocking request orders
func (h *OrderHandlers) ListRequests(c *gin.Context) {
	res, err := h.api.ListRequestOrders(c.Request.Context(), middleware.UpstreamToken(c))
	relay(c, h.up, res, err)
}

// AdminApproval records the admin decision on a request order
func (h *OrderHandlers) AdminApproval(c *gin.Context) {
	id, approval, ok := bindApproval(c)
	if !ok {
		return
	}
	res, err := h.api.AdminApproveRequestOrder(c.Request.Context(), middleware.UpstreamToken(c), id, approval)
	relay(c, h.up, res, err)
}

// WarehouseApproval records the warehouse decision on a request order
func (h *OrderHandlers) WarehouseApproval(c *gin.Context) {
	id, approval, ok := bindApproval(c)
	if !ok {
		return
	}
	res, err := h.api.WarehouseApproveRequestOrder(c.Request.Context(), middleware.UpstreamToken(c), id, approval)
	relay(c, h.up, res, err)
}

func bindApproval(c *gin.Context) (uint, domain.Approval, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return 0, domain.Approval{}, false
	}
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, domain.Approval{}, false
	}
	return id, domain.Approval{Approved: *req.Approved, Notes: req.Notes}, true
}
