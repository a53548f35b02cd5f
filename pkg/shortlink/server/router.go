package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jhopan/shortlink/pkg/shortlink/admin"
	"github.com/jhopan/shortlink/pkg/shortlink/clicks"
	"github.com/jhopan/shortlink/pkg/shortlink/domains"
	"github.com/jhopan/shortlink/pkg/shortlink/ids"
	"github.com/jhopan/shortlink/pkg/shortlink/links"
	"github.com/jhopan/shortlink/pkg/shortlink/redirect"
	"github.com/jhopan/shortlink/pkg/shortlink/stats"
	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

// Version is reported by the health endpoint.
const Version = "2.0.0"

// Deps holds the constructed dependencies the router wires together.
// Everything is injected; the router owns nothing.
type Deps struct {
	DB            *gorm.DB
	IDs           *ids.Generator
	Log           *zap.Logger
	CodeLength    int
	DefaultDomain string
	Policy        *admin.Policy
}

// New assembles the full HTTP router.
func New(d Deps) *gin.Engine {
	linkStore := store.New(d.DB, d.IDs, d.CodeLength, d.DefaultDomain)
	recorder := clicks.NewRecorder(d.DB, d.IDs)
	registry := domains.NewRegistry(d.DB, d.IDs)

	r := gin.New()
	r.Use(RequestLogger(d.Log), gin.Recovery())

	statsHandler := stats.NewHandler(linkStore)
	r.GET("/", statsHandler.Home)

	api := r.Group("/api")
	{
		// Liveness probe: the bot layer calls this before deciding
		// whether to use the primary store or the external fallback
		// chain, so it must reflect store reachability.
		api.GET("/health", func(c *gin.Context) {
			if err := linkStore.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "degraded",
					"service": "shortlink",
					"version": Version,
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "shortlink",
				"version": Version,
			})
		})

		statsHandler.RegisterRoutes(api)

		linksHandler := links.NewHandler(linkStore)
		linksHandler.RegisterRoutes(api)

		domainsHandler := domains.NewHandler(registry)
		domainsHandler.RegisterRoutes(api)

		adminHandler := admin.NewHandler(linkStore)
		adminGroup := api.Group("/admin")
		adminGroup.Use(d.Policy.Middleware())
		adminHandler.RegisterRoutes(adminGroup)
	}

	// Redirect routes are registered last to avoid conflicts.
	redirectHandler := redirect.NewHandler(linkStore, recorder, d.Log)
	redirectHandler.RegisterRoutes(r)

	return r
}
