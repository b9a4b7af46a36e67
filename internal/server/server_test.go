package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kpidash/internal/config"
)

// TestServerRoutes 静态页面与 API 路由挂载
func TestServerRoutes(t *testing.T) {
	srv := NewServer(config.DefaultConfig())
	defer srv.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("index status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Dashboard de KPIs") {
		t.Error("index page missing title")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status endpoint = %d", w.Code)
	}

	// SPA fallback
	req = httptest.NewRequest(http.MethodGet, "/qualquer/rota", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("spa fallback status = %d", w.Code)
	}
}

// TestServerCORS 预检请求直接放行
func TestServerCORS(t *testing.T) {
	srv := NewServer(config.DefaultConfig())
	defer srv.Close()

	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != 204 {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
