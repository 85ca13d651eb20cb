package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
	"github.com/sovannvath/storefront-gateway/internal/services"
)

// CartHandlers proxies the signed-in customer's cart
type CartHandlers struct {
	carts *services.CartService
	up    *Upstream
}

// NewCartHandlers creates new cart handlers
func NewCartHandlers(carts *services.CartService, up *Upstream) *CartHandlers {
	return &CartHandlers{carts: carts, up: up}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a quantity change
type UpdateItemRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// Get returns the cart
func (h *CartHandlers) Get(c *gin.Context) {
	res, err := h.carts.Get(c.Request.Context(), middleware.SessionID(c), middleware.UpstreamToken(c))
	relay(c, h.up, res, err)
}

// Add puts a product in the cart
func (h *CartHandlers) Add(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.carts.Add(c.Request.Context(), middleware.SessionID(c), middleware.UpstreamToken(c),
		domain.CartItemInput{ProductID: req.ProductID, Quantity: req.Quantity})
	relay(c, h.up, res, err)
}

// Update changes a line's quantity
func (h *CartHandlers) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.carts.Update(c.Request.Context(), middleware.SessionID(c), middleware.UpstreamToken(c), id,
		domain.CartItemInput{Quantity: req.Quantity})
	relay(c, h.up, res, err)
}

// Remove deletes a line
func (h *CartHandlers) Remove(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.carts.Remove(c.Request.Context(), middleware.SessionID(c), middleware.UpstreamToken(c), id)
	relay(c, h.up, res, err)
}

// Clear empties the cart; clearing an empty cart succeeds
func (h *CartHandlers) Clear(c *gin.Context) {
	res, err := h.carts.Clear(c.Request.Context(), middleware.SessionID(c), middleware.UpstreamToken(c))
	relay(c, h.up, res, err)
}

// Summary returns item count and total, served from cache while the
// backend is down
func (h *CartHandlers) Summary(c *gin.Context) {
	result, err := h.carts.Summary(c.Request.Context(), middleware.SessionID(c), middleware.UpstreamToken(c))
	if err != nil {
		h.up.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
