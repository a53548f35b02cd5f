package stats

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>ShortLink Service</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            display: flex;
            justify-content: center;
            align-items: center;
            padding: 20px;
        }
        .container {
            max-width: 600px;
            width: 100%;
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 40px;
        }
        h1 { color: #667eea; margin-bottom: 10px; }
        .stats { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; }
        .stat-box {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 20px;
            border-radius: 10px;
            text-align: center;
        }
        .stat-number { font-size: 36px; font-weight: bold; }
        .stat-label { font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>ShortLink Service</h1>
        <div class="stats">
            <div class="stat-box">
                <div class="stat-number">{{ .TotalLinks }}</div>
                <div class="stat-label">Total Links</div>
            </div>
            <div class="stat-box">
                <div class="stat-number">{{ .TotalClicks }}</div>
                <div class="stat-label">Total Clicks</div>
            </div>
        </div>
    </div>
</body>
</html>`))

// Handler handles the stats endpoints and the homepage
type Handler struct {
	store *store.Store
}

// NewHandler creates a new stats handler
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// Global returns system-wide link and click totals
func (h *Handler) Global(c *gin.Context) {
	stats, err := h.store.AggregateStats(c.Request.Context(), "")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Home renders the homepage with global stats
func (h *Handler) Home(c *gin.Context) {
	stats, err := h.store.AggregateStats(c.Request.Context(), "")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := homeTemplate.Execute(c.Writer, stats); err != nil {
		_ = c.Error(err)
	}
}

// RegisterRoutes registers the stats API route
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Global)
}
