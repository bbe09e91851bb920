// Package registry owns the process-wide table of running games. Each
// managed game is driven by exactly one goroutine and guarded by its own
// mutex, so action handlers (buyUnit, startResearch, ...) and the tick
// timer never mutate the same GameState concurrently.
package registry

import (
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexrealm/internal/apperr"
	"github.com/talgya/hexrealm/internal/audit"
	"github.com/talgya/hexrealm/internal/eventbus"
	"github.com/talgya/hexrealm/internal/rng"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/tick"
	"github.com/talgya/hexrealm/internal/worldmap"
)

// managedGame wraps a GameState with the exclusion and timer plumbing
// that let it run on its own clock independent of every other game.
type managedGame struct {
	mu      sync.Mutex
	gs      *state.GameState
	speed   float64
	stopCh  chan struct{}
	stopped bool
	rngSrc  rng.Source
}

// Registry is the process-wide mapping gameId -> managedGame.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*managedGame
	bus   *eventbus.Bus
	audit *audit.DB // optional; nil disables operational history
}

// New returns an empty Registry publishing through bus.
func New(bus *eventbus.Bus) *Registry {
	return &Registry{games: make(map[string]*managedGame), bus: bus}
}

// WithAudit attaches an operational audit log: every tick is recorded
// as one row, and each game's map fingerprint is stored once at start.
func (r *Registry) WithAudit(db *audit.DB) *Registry {
	r.audit = db
	return r
}

// intervalFor converts a speed multiplier into the timer interval:
// 500ms at speed 1, scaling inversely with speed.
func intervalFor(speed float64) time.Duration {
	if speed <= 0 {
		return time.Hour // paused games still need a handle; loop just idles
	}
	ms := 500.0 / speed
	return time.Duration(math.Floor(ms)) * time.Millisecond
}

// StartGame registers gs under gameId and starts its tick loop.
func (r *Registry) StartGame(gameID string, gs *state.GameState, speed float64) {
	mg := &managedGame{gs: gs, speed: speed, stopCh: make(chan struct{}), rngSrc: rng.Default()}
	r.mu.Lock()
	r.games[gameID] = mg
	r.mu.Unlock()

	if r.audit != nil {
		m := gs.Map()
		if err := r.audit.RecordMapFingerprint(gameID, m.Width, m.Height, terrainBytes(m.Terrain), m.Elevation); err != nil {
			slog.Warn("failed to record map fingerprint", "gameId", gameID, "error", err)
		}
	}

	go r.run(gameID, mg)
}

func terrainBytes(t []worldmap.Terrain) []byte {
	out := make([]byte, len(t))
	for i, v := range t {
		out[i] = byte(v)
	}
	return out
}

// NewGameID mints a fresh identifier for a game about to be started.
func NewGameID() string {
	return uuid.NewString()
}

func (r *Registry) run(gameID string, mg *managedGame) {
	for {
		mg.mu.Lock()
		speed := mg.speed
		paused := mg.gs.Paused
		mg.mu.Unlock()

		interval := intervalFor(speed)
		if paused || speed <= 0 {
			interval = 100 * time.Millisecond
		}

		select {
		case <-mg.stopCh:
			return
		case <-time.After(interval):
		}

		r.stepOnce(gameID, mg)
	}
}

func (r *Registry) stepOnce(gameID string, mg *managedGame) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tick panicked, game stopped and removed", "gameId", gameID, "panic", rec)
			r.StopGame(gameID)
		}
	}()

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if mg.stopped {
		return
	}

	start := time.Now()
	events := tick.ExecuteTick(mg.gs, mg.rngSrc)
	if mg.gs.Paused {
		return
	}
	elapsed := time.Since(start)

	for _, pid := range mg.gs.PlayerOrder {
		view, err := state.GetPlayerView(mg.gs, pid)
		if err != nil {
			continue
		}
		r.bus.Publish("game:"+gameID+":"+pid, map[string]any{
			"kind": "tick", "tick": mg.gs.Tick, "playerState": view,
		})
	}
	for _, e := range events {
		r.bus.Publish("game:"+gameID, e)
	}

	if r.audit != nil {
		r.recordTick(gameID, mg.gs.Tick, len(events), len(mg.gs.PlayerOrder), elapsed, events)
	}
}

func (r *Registry) recordTick(gameID string, tickNum uint64, eventCount, playerCount int, elapsed time.Duration, events []state.GameEvent) {
	blob, err := json.Marshal(events)
	if err != nil {
		slog.Warn("failed to marshal tick events for audit log", "gameId", gameID, "error", err)
		return
	}
	row := audit.TickRow{
		GameID: gameID, Tick: tickNum, EventCount: eventCount,
		PlayerCount: playerCount, TickNanos: elapsed.Nanoseconds(),
	}
	if err := r.audit.RecordTick(row, blob); err != nil {
		slog.Warn("failed to record tick audit row", "gameId", gameID, "error", err)
	}
}

// PauseGame stops a running game's clock without removing it.
func (r *Registry) PauseGame(gameID string) error {
	mg, err := r.find(gameID)
	if err != nil {
		return err
	}
	mg.mu.Lock()
	mg.gs.Paused = true
	mg.mu.Unlock()
	return nil
}

// ResumeGame restarts a paused game's clock at its current speed.
func (r *Registry) ResumeGame(gameID string) error {
	mg, err := r.find(gameID)
	if err != nil {
		return err
	}
	mg.mu.Lock()
	mg.gs.Paused = false
	mg.mu.Unlock()
	return nil
}

// ChangeSpeed updates a game's tick interval, taking effect on its next
// timer iteration.
func (r *Registry) ChangeSpeed(gameID string, newSpeed float64) error {
	mg, err := r.find(gameID)
	if err != nil {
		return err
	}
	mg.mu.Lock()
	mg.speed = newSpeed
	mg.gs.Speed = newSpeed
	mg.mu.Unlock()
	return nil
}

// StopGame cancels a game's timer and removes it from the registry.
func (r *Registry) StopGame(gameID string) error {
	mg, err := r.find(gameID)
	if err != nil {
		return err
	}
	mg.mu.Lock()
	mg.stopped = true
	mg.mu.Unlock()
	close(mg.stopCh)

	r.mu.Lock()
	delete(r.games, gameID)
	r.mu.Unlock()
	return nil
}

// GetGame returns the GameState for gameID, or NotFound.
func (r *Registry) GetGame(gameID string) (*state.GameState, error) {
	mg, err := r.find(gameID)
	if err != nil {
		return nil, err
	}
	return mg.gs, nil
}

// WithGame runs fn under gameID's exclusion, the same lock the tick
// timer uses, so action handlers never race a running tick.
func (r *Registry) WithGame(gameID string, fn func(gs *state.GameState) error) error {
	mg, err := r.find(gameID)
	if err != nil {
		return err
	}
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if mg.stopped {
		return apperr.New(apperr.NotFound, "game not found")
	}
	return fn(mg.gs)
}

func (r *Registry) find(gameID string) (*managedGame, error) {
	r.mu.RLock()
	mg, ok := r.games[gameID]
	r.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.NotFound, "game not found")
	}
	return mg, nil
}
