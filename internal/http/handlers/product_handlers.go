package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
)

// ProductHandlers proxies the product catalogue
type ProductHandlers struct {
	api domain.StorefrontAPI
	up  *Upstream
}

// NewProductHandlers creates new product handlers
func NewProductHandlers(api domain.StorefrontAPI, up *Upstream) *ProductHandlers {
	return &ProductHandlers{api: api, up: up}
}

// ProductRequest represents a product create or update request
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Stock       int64   `json:"stock" binding:"gte=0"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

func (r ProductRequest) input() domain.ProductInput {
	return domain.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		IsActive:    r.IsActive,
	}
}

// List returns the catalogue; query parameters are passed through
func (h *ProductHandlers) List(c *gin.Context) {
	res, err := h.api.ListProducts(c.Request.Context(), middleware.UpstreamToken(c), c.Request.URL.Query())
	relay(c, h.up, res, err)
}

// Get returns one product
func (h *ProductHandlers) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.api.GetProduct(c.Request.Context(), middleware.UpstreamToken(c), id)
	relay(c, h.up, res, err)
}

// Create adds a product
func (h *ProductHandlers) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.api.CreateProduct(c.Request.Context(), middleware.UpstreamToken(c), req.input())
	relay(c, h.up, res, err)
}

// Update replaces a product
func (h *ProductHandlers) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.api.UpdateProduct(c.Request.Context(), middleware.UpstreamToken(c), id, req.input())
	relay(c, h.up, res, err)
}

// Delete removes a product
func (h *ProductHandlers) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.api.DeleteProduct(c.Request.Context(), middleware.UpstreamToken(c), id)
	relay(c, h.up, res, err)
}
