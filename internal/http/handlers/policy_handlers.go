package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/services"
)

// PolicyHandlers lets admins edit route policies and read the audit trail
type PolicyHandlers struct {
	policies domain.PolicyService
	audit    domain.AuditLogger
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policies domain.PolicyService, audit domain.AuditLogger) *PolicyHandlers {
	return &PolicyHandlers{policies: policies, audit: audit}
}

type policyReq struct {
	Role   string `json:"role" binding:"required"`
	Route  string `json:"route" binding:"required"`
	Method string `json:"method" binding:"required"`
}

type policyView struct {
	Role   string `json:"role"`
	Route  string `json:"route"`
	Method string `json:"method"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	rules := h.policies.GetPolicies()
	out := make([]policyView, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		role := strings.TrimPrefix(rule[0], services.RolePrefix)
		out = append(out, policyView{Role: role, Route: rule[1], Method: rule[2]})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	role, r, ok := bindPolicy(c)
	if !ok {
		return
	}
	if err := h.policies.AddPolicy(role, r.Route, r.Method); err != nil {
		if errors.Is(err, domain.ErrInsufficientRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "not added"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	role, r, ok := bindPolicy(c)
	if !ok {
		return
	}
	if err := h.policies.RemovePolicy(role, r.Route, r.Method); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "not removed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Audit lists the most recent audit events, newest first
func (h *PolicyHandlers) Audit(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}
	events, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audit events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func bindPolicy(c *gin.Context) (domain.Role, policyReq, bool) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", r, false
	}
	r.Method = strings.ToUpper(r.Method)
	role, ok := domain.ParseRole(r.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role " + strconv.Quote(r.Role)})
		return "", r, false
	}
	return role, r, true
}
