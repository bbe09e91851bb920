// Package apiserver is the demonstration HTTP/SSE gateway in front of
// internal/service. It is not part of the core: the core exposes plain
// Go procedures, and this package is one concrete way to reach them over
// the wire.
package apiserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/talgya/hexrealm/internal/apperr"
	"github.com/talgya/hexrealm/internal/service"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// Server serves the player-facing procedures over HTTP, with Server-Sent
// Events for the subscribe stream.
type Server struct {
	Svc  *service.Service
	Port int

	limiterMu sync.Mutex
	limiters  map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func New(svc *service.Service, port int) *Server {
	s := &Server{Svc: svc, Port: port, limiters: make(map[string]*limiterEntry)}
	go s.cleanupLimiters()
	return s
}

// cleanupLimiters evicts rate limiters for IPs that haven't made a
// request in over an hour, the way the teacher's own RateLimiter.cleanup
// bounds its bucket map against unbounded growth from spoofed or
// one-shot client identifiers.
func (s *Server) cleanupLimiters() {
	for {
		time.Sleep(time.Hour)
		s.limiterMu.Lock()
		cutoff := time.Now().Add(-time.Hour)
		for ip, e := range s.limiters {
			if e.lastSeen.Before(cutoff) {
				delete(s.limiters, ip)
			}
		}
		s.limiterMu.Unlock()
	}
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/games", s.rateLimited(s.handleStart))
	mux.HandleFunc("GET /api/v1/games/{gameId}/stream", s.handleSubscribe)
	mux.HandleFunc("GET /api/v1/games/{gameId}/history", s.rateLimited(s.handleHistory))
	mux.HandleFunc("POST /api/v1/games/{gameId}/units", s.rateLimited(s.handleBuyUnit))
	mux.HandleFunc("POST /api/v1/games/{gameId}/buildings", s.rateLimited(s.handleBuildBuilding))
	mux.HandleFunc("POST /api/v1/games/{gameId}/policies", s.rateLimited(s.handleSetPolicies))
	mux.HandleFunc("POST /api/v1/games/{gameId}/research", s.rateLimited(s.handleStartResearch))
	mux.HandleFunc("POST /api/v1/games/{gameId}/laws", s.rateLimited(s.handleProposeLaw))
	mux.HandleFunc("POST /api/v1/games/{gameId}/pause", s.rateLimited(s.handlePause))
	mux.HandleFunc("POST /api/v1/games/{gameId}/resume", s.rateLimited(s.handleResume))
	mux.HandleFunc("POST /api/v1/games/{gameId}/speed", s.rateLimited(s.handleSetSpeed))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("api server starting", "addr", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("http server error", "error", err)
		}
	}()
}

// rateLimited enforces a per-IP token bucket of 5 req/s with a burst of
// 10, using golang.org/x/time/rate rather than a hand-rolled bucket.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiterFor(ip).Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (s *Server) limiterFor(ip string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	e, ok := s.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(5, 10)}
		s.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// clientIP trusts X-Forwarded-For unconditionally, same as the teacher's
// own ratelimit.go — correct only behind a proxy that itself overwrites
// the header; a directly-exposed deployment should strip it upstream.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndexByte(ip, ':'); idx >= 0 {
		return ip[:idx]
	}
	return ip
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.Conflict:
		status = http.StatusConflict
	case apperr.BadRequest:
		status = http.StatusBadRequest
	case apperr.Eliminated:
		status = http.StatusGone
	}
	http.Error(w, err.Error(), status)
}

type startRequest struct {
	MapWidth  int                  `json:"mapWidth"`
	MapHeight int                  `json:"mapHeight"`
	Terrain   []worldmap.Terrain   `json:"terrain"`
	Elevation []byte               `json:"elevation"`
	Players   []state.PlayerConfig `json:"players"`
	Speed     float64              `json:"speed"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	gameID, err := s.Svc.Start(service.StartConfig{
		MapWidth: req.MapWidth, MapHeight: req.MapHeight,
		Terrain: req.Terrain, Elevation: req.Elevation,
		Players: req.Players, Speed: req.Speed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"gameId": gameID})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId query parameter required", http.StatusBadRequest)
		return
	}

	sub, err := s.Svc.Subscribe(r.Context(), gameID, playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	writeSSE(w, sub.MapReady)
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	events := make(chan any, 1)
	go func() {
		for {
			v, ok := sub.Next()
			if !ok {
				close(events)
				return
			}
			events <- v
		}
	}()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			writeSSE(w, e)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeSSE(w http.ResponseWriter, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

type buyUnitRequest struct {
	PlayerID     string              `json:"playerId"`
	SettlementID uint64              `json:"settlementId"`
	UnitType     staticdata.UnitType `json:"unitType"`
}

func (s *Server) handleBuyUnit(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	var req buyUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := s.Svc.BuyUnit(gameID, req.PlayerID, req.SettlementID, req.UnitType); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type buildBuildingRequest struct {
	PlayerID     string `json:"playerId"`
	SettlementID uint64 `json:"settlementId"`
	Type         string `json:"type"`
}

func (s *Server) handleBuildBuilding(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	var req buildBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := s.Svc.BuildBuilding(gameID, req.PlayerID, req.SettlementID, req.Type); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setPoliciesRequest struct {
	PlayerID string         `json:"playerId"`
	Policies state.Policies `json:"policies"`
}

func (s *Server) handleSetPolicies(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	var req setPoliciesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := s.Svc.SetPolicies(gameID, req.PlayerID, req.Policies); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type startResearchRequest struct {
	PlayerID string `json:"playerId"`
	TechID   string `json:"techId"`
}

func (s *Server) handleStartResearch(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	var req startResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := s.Svc.StartResearch(gameID, req.PlayerID, req.TechID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type proposeLawRequest struct {
	PlayerID       string `json:"playerId"`
	LawID          string `json:"lawId"`
	TargetPlayerID string `json:"targetPlayerId"`
}

func (s *Server) handleProposeLaw(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	var req proposeLawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	result, err := s.Svc.ProposeLaw(gameID, req.PlayerID, req.LawID, req.TargetPlayerID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(result)
}

// handleHistory returns recent per-tick operational summaries for a
// game: event counts, player counts, and tick timings, mirroring what
// an operator dashboard would poll for.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	rows, err := s.Svc.History(gameID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(rows)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.Svc.RequestPause(r.PathValue("gameId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := s.Svc.RequestResume(r.PathValue("gameId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setSpeedRequest struct {
	Speed float64 `json:"speed"`
}

func (s *Server) handleSetSpeed(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	var req setSpeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := s.Svc.SetSpeed(gameID, req.Speed); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
