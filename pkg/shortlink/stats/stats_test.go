package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jhopan/shortlink/pkg/shortlink/ids"
	"github.com/jhopan/shortlink/pkg/shortlink/models"
	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	gen, err := ids.New(1)
	if err != nil {
		t.Fatalf("Failed to create id generator: %v", err)
	}
	s := store.New(db, gen, 6, models.DefaultDomain)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(s)
	r.GET("/", handler.Home)
	handler.RegisterRoutes(r.Group("/api"))
	return r, s
}

func TestGlobalStats(t *testing.T) {
	router, s := setupTestRouter(t)
	ctx := context.Background()

	link, _ := s.CreateLink(ctx, "https://example.com", "", "default", "u1")
	s.IncrementClicks(ctx, link.ShortCode, "default")
	s.IncrementClicks(ctx, link.ShortCode, "default")

	req, _ := http.NewRequest("GET", "/api/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var stats store.Stats
	json.Unmarshal(resp.Body.Bytes(), &stats)
	if stats.TotalLinks != 1 || stats.TotalClicks != 2 {
		t.Errorf("Expected {1, 2}, got %+v", stats)
	}
}

func TestHomeRendersTotals(t *testing.T) {
	router, s := setupTestRouter(t)

	s.CreateLink(context.Background(), "https://example.com", "", "default", "u1")

	req, _ := http.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML homepage, got Content-Type %q", ct)
	}
	if !strings.Contains(resp.Body.String(), "Total Links") {
		t.Error("Expected homepage to render stats labels")
	}
}
