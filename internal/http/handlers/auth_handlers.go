package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
)

// AuthHandlers handles sign-in and session HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	up      *Upstream
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, up *Upstream) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, up: up}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.up.Fail(c, err)
		return
	}

	h.signedIn(c, http.StatusOK, result)
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), domain.Registration{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		h.up.Fail(c, err)
		return
	}

	if result.SessionToken == "" {
		c.JSON(http.StatusCreated, gin.H{
			"data": gin.H{
				"message":  "Registration successful. Please sign in.",
				"user":     result.User,
				"redirect": result.Redirect,
			},
		})
		return
	}
	h.signedIn(c, http.StatusCreated, result)
}

// Logout ends the current session
func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":  "Logged out successfully",
			"redirect": domain.LoginPath,
		},
	})
}

// Refresh extends the current session and re-issues its token
func (h *AuthHandlers) Refresh(c *gin.Context) {
	result, err := h.authSvc.Refresh(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.up.Fail(c, err)
		return
	}
	h.signedIn(c, http.StatusOK, result)
}

// Me returns the resolved user and their dashboard
func (h *AuthHandlers) Me(c *gin.Context) {
	res := middleware.ResolutionFrom(c)
	if !res.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "redirect": domain.LoginPath})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user":      res.User,
			"role":      res.User.Role,
			"dashboard": domain.DashboardPath(res.User.Role),
		},
	})
}

func (h *AuthHandlers) signedIn(c *gin.Context, status int, result *domain.LoginResult) {
	setSessionCookie(c, result.SessionToken, int(result.ExpiresIn))

	c.JSON(status, gin.H{
		"data": gin.H{
			"session_token": result.SessionToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"redirect":      result.Redirect,
			"user":          result.User,
		},
	})
}
