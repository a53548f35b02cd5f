package domains

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

// Handler handles domain registration requests
type Handler struct {
	registry *Registry
}

// NewHandler creates a new domains handler
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// ClaimRequest represents the request to register a custom domain
type ClaimRequest struct {
	Domain      string `json:"domain" binding:"required,min=1,max=253"`
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
}

// Claim registers a custom domain for a user
func (h *Handler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	claim, err := h.registry.Claim(c.Request.Context(), req.Domain, req.UserID, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrDomainTaken):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Domain \"" + req.Domain + "\" is already registered",
			})
		case errors.Is(err, store.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Store unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register domain"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "domain": claim})
}

// List returns registered domains, newest first
func (h *Handler) List(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	claims, err := h.registry.ListAll(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch domains"})
		return
	}

	c.JSON(http.StatusOK, claims)
}

// RegisterRoutes registers domain routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/domains", h.Claim)
	rg.GET("/domains", h.List)
}
