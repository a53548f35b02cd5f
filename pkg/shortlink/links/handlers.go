package links

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jhopan/shortlink/pkg/shortlink/models"
	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

// Handler handles link API requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new links handler
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// CreateLinkRequest represents the request to create a short link.
// The URL is required but deliberately not validated as well-formed:
// the service stores and redirects to whatever it was given.
type CreateLinkRequest struct {
	URL    string `json:"url" binding:"required"`
	Alias  string `json:"alias" binding:"omitempty,min=1,max=50"`
	Domain string `json:"domain"`
	UserID string `json:"user_id"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID          int64  `json:"id"`
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
	Domain      string `json:"domain"`
	Clicks      int64  `json:"clicks"`
	CreatedAt   string `json:"created_at"`
}

func linkToResponse(link models.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		CustomAlias: link.CustomAlias,
		Domain:      link.Domain,
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create creates a new short link
func (h *Handler) Create(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "URL required"})
		return
	}

	link, err := h.store.CreateLink(c.Request.Context(), req.URL, req.Alias, req.Domain, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAliasTaken):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Alias \"" + req.Alias + "\" is already taken for this domain",
			})
		case errors.Is(err, store.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Store unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create link"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"id":           link.ID,
		"short_code":   link.ShortCode,
		"original_url": link.OriginalURL,
		"custom_alias": link.CustomAlias,
		"domain":       link.Domain,
	})
}

// Get returns link details by short code or alias
func (h *Handler) Get(c *gin.Context) {
	code := c.Param("code")
	domain := c.DefaultQuery("domain", h.store.DefaultDomain())

	link, err := h.store.Lookup(c.Request.Context(), code, domain)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}

	c.JSON(http.StatusOK, linkToResponse(*link))
}

// List returns a creator's active links, newest first
func (h *Handler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}

	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	links, err := h.store.ListByCreator(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}

	responses := make([]LinkResponse, len(links))
	for i, link := range links {
		responses[i] = linkToResponse(link)
	}
	c.JSON(http.StatusOK, responses)
}

// Delete deactivates a link. Ownership is enforced here and only here:
// the store refuses the update unless the requester created the link.
func (h *Handler) Delete(c *gin.Context) {
	code := c.Param("code")
	domain := c.DefaultQuery("domain", h.store.DefaultDomain())
	requesterID := c.GetHeader("X-User-ID")
	if requesterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header required"})
		return
	}

	// Distinguish "not yours" from "not there" for the response.
	if _, err := h.store.Lookup(c.Request.Context(), code, domain); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}

	ok, err := h.store.Deactivate(c.Request.Context(), code, domain, requesterID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deactivated"})
}

// RegisterRoutes registers link routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create", h.Create)
	rg.GET("/link/:code", h.Get)
	rg.DELETE("/link/:code", h.Delete)
	rg.GET("/links", h.List)
}
