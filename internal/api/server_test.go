// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edgeport/edgeport/internal/config"
	"github.com/edgeport/edgeport/internal/convert"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.CacheSize = 8
	cfg.Workers = 2
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	return srv
}

func postJSON(t *testing.T, srv *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz returned %d", rec.Code)
	}
}

func TestConvertEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv, "/api/convert", convertRequest{
		Name:   "ping",
		Source: "try {\n  const payload = { pong: true, source: \"edge\" }\n  return new Response(JSON.stringify(payload), { status: 200 })\n} catch (e) {\n}",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("convert returned %d: %s", rec.Code, rec.Body.String())
	}

	var result convert.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.FunctionName != "ping" {
		t.Fatalf("unexpected function name: %s", result.FunctionName)
	}
	if result.PreservedLogicPct != 100 {
		t.Fatalf("expected clean extraction, got %d", result.PreservedLogicPct)
	}
	if !strings.Contains(result.RouteSource, "router.post('/'") {
		t.Fatalf("route source missing handler:\n%s", result.RouteSource)
	}

	// Second submission of the same source must hit the cache and agree.
	again := postJSON(t, srv, "/api/convert", convertRequest{
		Name:   "ping",
		Source: "try {\n  const payload = { pong: true, source: \"edge\" }\n  return new Response(JSON.stringify(payload), { status: 200 })\n} catch (e) {\n}",
	})
	if again.Code != http.StatusOK || again.Body.String() != rec.Body.String() {
		t.Fatalf("cached response differs: %s vs %s", again.Body.String(), rec.Body.String())
	}
}

func TestConvertEndpointRejectsMissingName(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv, "/api/convert", convertRequest{Source: "const x = 1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
}

func TestConvertEndpointRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestBundleEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv, "/api/bundle", bundleRequest{
		Files: map[string]string{
			"supabase/functions/ping/index.ts": "const x = { pong: true }",
			"supabase/functions/echo/index.ts": "const y = { echo: true }",
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("bundle returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp bundleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if resp.BundleID == "" {
		t.Fatalf("bundle id missing")
	}
	if len(resp.Bundle.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Bundle.Results))
	}
	if !strings.Contains(resp.Bundle.EntrySource, "app.use('/ping'") {
		t.Fatalf("entry module missing ping route:\n%s", resp.Bundle.EntrySource)
	}
}

func TestBundleEndpointRejectsEmptyBatch(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv, "/api/bundle", bundleRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d", rec.Code)
	}
}

func TestAdvisoryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/advisories/stripe?function=payments", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("advisory returned %d", rec.Code)
	}

	var resp advisoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode advisory: %v", err)
	}
	if resp.Advisory.SignatureHeader != "stripe-signature" {
		t.Fatalf("unexpected advisory: %#v", resp.Advisory)
	}
	if !strings.Contains(resp.Advisory.Runbook, "/payments") {
		t.Fatalf("runbook should reference the route:\n%s", resp.Advisory.Runbook)
	}
}
