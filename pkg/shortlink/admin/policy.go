package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Policy decides who may call admin endpoints. The admin identity is
// configuration, injected at startup, never a literal in handler code.
type Policy struct {
	adminID string
}

// NewPolicy creates a policy for the configured admin identifier.
func NewPolicy(adminID string) *Policy {
	return &Policy{adminID: adminID}
}

// IsAdmin reports whether the given identifier is the configured admin.
// An empty configured ID disables admin access entirely.
func (p *Policy) IsAdmin(userID string) bool {
	return p.adminID != "" && userID == p.adminID
}

// Middleware rejects requests whose X-User-ID header is not the
// configured admin.
func (p *Policy) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.IsAdmin(c.GetHeader("X-User-ID")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
