package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

// Handler handles admin requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new admin handler
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

func limitQuery(c *gin.Context, def, max int) int {
	limit := def
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= max {
			limit = parsed
		}
	}
	return limit
}

// Stats returns system-wide totals
func (h *Handler) Stats(c *gin.Context) {
	totals, err := h.store.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// RecentLinks returns the newest active links across all creators
func (h *Handler) RecentLinks(c *gin.Context) {
	links, err := h.store.RecentLinks(c.Request.Context(), limitQuery(c, 10, 100))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}
	c.JSON(http.StatusOK, links)
}

// ActiveUsers returns per-creator aggregates ordered by link count
func (h *Handler) ActiveUsers(c *gin.Context) {
	users, err := h.store.ActiveCreators(c.Request.Context(), limitQuery(c, 10, 100))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// RegisterRoutes registers admin routes. The caller is expected to
// guard the group with Policy.Middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
	rg.GET("/links", h.RecentLinks)
	rg.GET("/users", h.ActiveUsers)
}
