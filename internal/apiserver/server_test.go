package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/talgya/hexrealm/internal/eventbus"
	"github.com/talgya/hexrealm/internal/registry"
	"github.com/talgya/hexrealm/internal/service"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap"
)

func newTestServer() (*Server, *http.ServeMux) {
	bus := eventbus.New()
	reg := registry.New(bus)
	svc := service.New(reg, bus)
	s := New(svc, 0)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/games", s.handleStart)
	mux.HandleFunc("POST /api/v1/games/{gameId}/units", s.handleBuyUnit)
	mux.HandleFunc("POST /api/v1/games/{gameId}/policies", s.handleSetPolicies)
	mux.HandleFunc("POST /api/v1/games/{gameId}/pause", s.handlePause)
	return s, mux
}

func TestHandleStartCreatesGame(t *testing.T) {
	_, mux := newTestServer()

	terrain := make([]worldmap.Terrain, 100)
	for i := range terrain {
		terrain[i] = worldmap.Plains
	}
	body, _ := json.Marshal(map[string]any{
		"mapWidth": 10, "mapHeight": 10, "terrain": terrain, "elevation": make([]byte, 100),
		"players": []state.PlayerConfig{{UserID: "p1", FactionID: "crown"}}, "speed": 1,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["gameId"] == "" {
		t.Fatal("expected non-empty gameId")
	}
}

func TestHandlePauseUnknownGameReturns404(t *testing.T) {
	_, mux := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games/nope/pause", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleSetPoliciesMalformedBody(t *testing.T) {
	_, mux := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games/g1/policies", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClientIPStripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	if ip := clientIP(req); ip != "203.0.113.5" {
		t.Fatalf("expected stripped IP, got %q", ip)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	if ip := clientIP(req); ip != "198.51.100.9" {
		t.Fatalf("expected forwarded IP, got %q", ip)
	}
}
