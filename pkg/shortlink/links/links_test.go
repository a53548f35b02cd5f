package links

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jhopan/shortlink/pkg/shortlink/ids"
	"github.com/jhopan/shortlink/pkg/shortlink/models"
	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func setupTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	gen, err := ids.New(1)
	if err != nil {
		t.Fatalf("Failed to create id generator: %v", err)
	}
	s := store.New(setupTestDB(t), gen, 6, models.DefaultDomain)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(s)
	handler.RegisterRoutes(r.Group("/api"))
	return r, s
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateLink(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := postJSON(router, "/api/create", CreateLinkRequest{
		URL:    "https://example.com/x",
		UserID: "12345",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["success"] != true {
		t.Errorf("Expected success=true, got %v", body["success"])
	}
	code, _ := body["short_code"].(string)
	if len(code) != 6 {
		t.Errorf("Expected 6-character code, got %q", code)
	}
	if body["domain"] != "default" {
		t.Errorf("Expected default domain, got %v", body["domain"])
	}
}

func TestCreateLinkMissingURL(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := postJSON(router, "/api/create", map[string]string{"alias": "promo"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["success"] != false {
		t.Errorf("Expected success=false, got %v", body["success"])
	}
}

func TestCreateLinkAliasConflict(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := postJSON(router, "/api/create", CreateLinkRequest{URL: "https://a.example", Alias: "promo"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.Code)
	}

	resp = postJSON(router, "/api/create", CreateLinkRequest{URL: "https://b.example", Alias: "promo"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	errMsg, _ := body["error"].(string)
	if !bytes.Contains([]byte(errMsg), []byte("promo")) {
		t.Errorf("Expected conflicting alias in error, got %q", errMsg)
	}

	// Same alias under another domain succeeds.
	resp = postJSON(router, "/api/create", CreateLinkRequest{URL: "https://c.example", Alias: "promo", Domain: "other"})
	if resp.Code != http.StatusCreated {
		t.Errorf("Expected status 201 for other domain, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetLink(t *testing.T) {
	router, s := setupTestRouter(t)

	created, err := s.CreateLink(context.Background(), "https://example.com", "", "default", "")
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}

	req, _ := http.NewRequest("GET", "/api/link/"+created.ShortCode, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var link LinkResponse
	json.Unmarshal(resp.Body.Bytes(), &link)
	if link.OriginalURL != "https://example.com" {
		t.Errorf("Expected original URL, got %q", link.OriginalURL)
	}
}

func TestGetLinkNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/link/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestGetLinkDomainQuery(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := postJSON(router, "/api/create", CreateLinkRequest{URL: "https://example.com", Alias: "promo", Domain: "s.example.id"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.Code)
	}

	req, _ := http.NewRequest("GET", "/api/link/promo?domain=s.example.id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 with domain query, got %d", rec.Code)
	}

	// Without the domain query the lookup falls on "default" and misses.
	req, _ = http.NewRequest("GET", "/api/link/promo", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without domain query, got %d", rec.Code)
	}
}

func TestListLinks(t *testing.T) {
	router, _ := setupTestRouter(t)

	postJSON(router, "/api/create", CreateLinkRequest{URL: "https://a.example", UserID: "u1"})
	postJSON(router, "/api/create", CreateLinkRequest{URL: "https://b.example", UserID: "u1"})
	postJSON(router, "/api/create", CreateLinkRequest{URL: "https://c.example", UserID: "u2"})

	req, _ := http.NewRequest("GET", "/api/links?user_id=u1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var links []LinkResponse
	json.Unmarshal(resp.Body.Bytes(), &links)
	if len(links) != 2 {
		t.Errorf("Expected 2 links for u1, got %d", len(links))
	}
}

func TestDeleteLinkOwnership(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := postJSON(router, "/api/create", CreateLinkRequest{URL: "https://example.com", Alias: "mine", UserID: "owner"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.Code)
	}

	// Wrong owner: refused, nothing changes.
	req, _ := http.NewRequest("DELETE", "/api/link/mine", nil)
	req.Header.Set("X-User-ID", "intruder")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}

	// Owner: succeeds.
	req, _ = http.NewRequest("DELETE", "/api/link/mine", nil)
	req.Header.Set("X-User-ID", "owner")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Deactivated links are gone from the API.
	req, _ = http.NewRequest("GET", "/api/link/mine", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after deactivation, got %d", rec.Code)
	}
}
