package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/outreach/api"
	dbfs "github.com/garnizeh/outreach/db"
	"github.com/garnizeh/outreach/internal/config"
	"github.com/garnizeh/outreach/internal/db"
	"github.com/garnizeh/outreach/pkg/models"
	"github.com/gorilla/mux"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:          "0",
		Env:           config.EnvDevelopment,
		ServiceName:   "Outreach",
		SecretKey:     "routes-secret",
		DatabaseURL:   "sqlite:///:memory:",
		UploadDir:     t.TempDir(),
		MaxUploadSize: 1 << 20,
		APITimeout:    5 * time.Second,
		TokenDuration: time.Hour,
		Auth:          config.AuthConfig{BcryptCost: 4},
	}
}

func newRouter(t *testing.T, cfg *config.Config) *mux.Router {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r, err := api.SetupRoutes(cfg, "1.0.0", "now", d)
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid json %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, out
}

func TestRoutes_SetupAndLoginScenario(t *testing.T) {
	r := newRouter(t, testConfig(t))

	w, body := do(t, r, http.MethodPost, "/api/admin/setup", `{"username":"admin","password":"pw123"}`, nil)
	if w.Code != http.StatusOK || body["message"] != "Admin user created" {
		t.Fatalf("setup: %d %#v", w.Code, body)
	}

	w, body = do(t, r, http.MethodPost, "/api/admin/setup", `{"username":"x","password":"y"}`, nil)
	if w.Code != http.StatusBadRequest || body["message"] != "Admin already exists" {
		t.Fatalf("second setup: %d %#v", w.Code, body)
	}

	w, body = do(t, r, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"pw123"}`, nil)
	if w.Code != http.StatusOK || body["status"] != "success" || body["username"] != "admin" {
		t.Fatalf("login: %d %#v", w.Code, body)
	}
	if tok, _ := body["token"].(string); strings.Count(tok, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", tok)
	}

	w, body = do(t, r, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized || body["message"] != "Invalid username or password" {
		t.Fatalf("bad login: %d %#v", w.Code, body)
	}

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID on routed responses")
	}
}

func TestRoutes_GalleryLifecycle(t *testing.T) {
	r := newRouter(t, testConfig(t))

	req := multipartRequest(t, []formFile{{"file", "Sunrise.JPG", []byte("jpeg-bytes")}}, map[string]string{"title": "Sunrise"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	var up struct {
		Data models.MediaItem `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &up); err != nil {
		t.Fatalf("decode upload: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))
	var list struct {
		Data  []models.MediaItem `json:"data"`
		Count int                `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if w.Code != http.StatusOK || list.Count != 1 || len(list.Data) != 1 {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	got, want := list.Data[0], up.Data
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("listed created_at %v differs from upload response %v", got.CreatedAt, want.CreatedAt)
	}
	got.CreatedAt, want.CreatedAt = time.Time{}, time.Time{}
	if got != want {
		t.Fatalf("listed item differs from upload response:\n got %#v\nwant %#v", got, want)
	}

	w, _ = do(t, r, http.MethodGet, up.Data.URL, "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "jpeg-bytes" {
		t.Fatalf("serve: %d %q", w.Code, w.Body.String())
	}

	id := strconv.FormatInt(up.Data.ID, 10)
	w, body := do(t, r, http.MethodDelete, "/api/gallery/"+id, "", nil)
	if w.Code != http.StatusOK || body["message"] != "Photo deleted" {
		t.Fatalf("delete: %d %#v", w.Code, body)
	}
	w, _ = do(t, r, http.MethodDelete, "/api/gallery/"+id, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
	w, _ = do(t, r, http.MethodGet, up.Data.URL, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("serve after delete: expected 404, got %d", w.Code)
	}
}

func TestRoutes_Inquiry(t *testing.T) {
	r := newRouter(t, testConfig(t))

	payload := `{"full_name":"Jane","email":"j@example.org","mobile":"555","subject":"Hi","message":"Hello"}`
	var ids []float64
	for range 2 {
		w, body := do(t, r, http.MethodPost, "/api/inquiry", payload, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("inquiry: %d %#v", w.Code, body)
		}
		ids = append(ids, body["inquiry_id"].(float64))
	}
	if ids[0] <= 0 || ids[1] == ids[0] {
		t.Fatalf("expected fresh positive ids, got %v", ids)
	}

	w, body := do(t, r, http.MethodPost, "/api/inquiry", `{"full_name":"Jane","email":"j@example.org","mobile":"","subject":"Hi","message":"Hello"}`, nil)
	if w.Code != http.StatusBadRequest || body["message"] != "Missing required field: mobile" {
		t.Fatalf("missing mobile: %d %#v", w.Code, body)
	}
}

func TestRoutes_FallbackHandlers(t *testing.T) {
	r := newRouter(t, testConfig(t))

	w, body := do(t, r, http.MethodGet, "/api/nope", "", nil)
	if w.Code != http.StatusNotFound || body["message"] != "Resource not found" || body["status"] != "error" {
		t.Fatalf("not found: %d %#v", w.Code, body)
	}

	w, body = do(t, r, http.MethodGet, "/api/admin/login", "", nil)
	if w.Code != http.StatusMethodNotAllowed || body["status"] != "error" {
		t.Fatalf("method not allowed: %d %#v", w.Code, body)
	}

	w, _ = do(t, r, http.MethodOptions, "/api/gallery/upload", "", nil)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight: %d %v", w.Code, w.Header())
	}

	w, body = do(t, r, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK || body["status"] != "online" {
		t.Fatalf("health: %d %#v", w.Code, body)
	}

	w, body = do(t, r, http.MethodGet, "/version", "", nil)
	if w.Code != http.StatusOK || body["version"] != "1.0.0" {
		t.Fatalf("version: %d %#v", w.Code, body)
	}
}

func TestRoutes_Metrics(t *testing.T) {
	r := newRouter(t, testConfig(t))

	do(t, r, http.MethodGet, "/api/gallery", "", nil)
	req := multipartRequest(t, []formFile{{"file", "a.png", []byte("png")}}, nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	w, _ := do(t, r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
	out := w.Body.String()
	for _, want := range []string{
		`outreach_http_requests_total{method="GET",path="/api/gallery",status="200"} 1`,
		`outreach_gallery_uploads_total{kind="image"} 1`,
		`outreach_gallery_upload_bytes_total 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestRoutes_ProtectedGallery(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.ProtectGallery = true
	r := newRouter(t, cfg)

	req := multipartRequest(t, []formFile{{"file", "a.png", []byte("png")}}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// reads stay open
	if w, _ := do(t, r, http.MethodGet, "/api/gallery", "", nil); w.Code != http.StatusOK {
		t.Fatalf("list should not require a token, got %d", w.Code)
	}

	do(t, r, http.MethodPost, "/api/admin/setup", `{"username":"admin","password":"pw123"}`, nil)
	_, body := do(t, r, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"pw123"}`, nil)
	token, _ := body["token"].(string)

	req = multipartRequest(t, []formFile{{"file", "a.png", []byte("png")}}, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d %s", w.Code, w.Body.String())
	}
}
