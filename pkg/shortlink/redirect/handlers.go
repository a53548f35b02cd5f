package redirect

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jhopan/shortlink/pkg/shortlink/clicks"
	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

const notFoundPage = `<!DOCTYPE html>
<html>
<head>
    <title>404 - Link Not Found</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
        }
        .container {
            text-align: center;
            padding: 40px;
            background: rgba(255, 255, 255, 0.1);
            border-radius: 10px;
        }
        h1 { font-size: 72px; margin: 0; }
        p { font-size: 24px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>404</h1>
        <p>Link not found</p>
        <p style="font-size: 16px; margin-top: 20px;">
            The link you are looking for does not exist or is no longer active.
        </p>
    </div>
</body>
</html>`

// Handler handles short link resolution
type Handler struct {
	store    *store.Store
	recorder *clicks.Recorder
	log      *zap.Logger
}

// NewHandler creates a new redirect handler
func NewHandler(s *store.Store, recorder *clicks.Recorder, log *zap.Logger) *Handler {
	return &Handler{store: s, recorder: recorder, log: log}
}

// domainFromHost strips the port from an inbound Host header.
func domainFromHost(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}

// Resolve redirects a short code or alias to its destination. The link
// is looked up under the domain derived from the Host header first, then
// unconditionally under the default domain: not every inbound host is a
// registered scope, and links created without one must still resolve.
// The click is recorded before the redirect is written, in the same
// request cycle. A storage fault renders 503, never a confident 404.
func (h *Handler) Resolve(c *gin.Context) {
	code := c.Param("code")
	domain := domainFromHost(c.Request.Host)
	ctx := c.Request.Context()

	link, err := h.store.Lookup(ctx, code, domain)
	if errors.Is(err, store.ErrNotFound) && domain != h.store.DefaultDomain() {
		link, err = h.store.Lookup(ctx, code, h.store.DefaultDomain())
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundPage))
			return
		}
		h.log.Error("lookup failed", zap.String("code", code), zap.String("domain", domain), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}

	recErr := h.recorder.Record(ctx, code, link.Domain,
		c.ClientIP(), c.Request.UserAgent(), c.Request.Referer())
	if recErr != nil {
		// The destination is known; losing one analytics row is better
		// than failing the redirect.
		h.log.Warn("click not recorded", zap.String("code", code), zap.Error(recErr))
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}

// RegisterRoutes registers the catch-all redirect route. Must be called
// after all other routes to avoid conflicts.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/:code", h.Resolve)
}
