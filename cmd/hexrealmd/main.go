// Command hexrealmd runs the hexrealm game server: it hosts zero or more
// concurrently running games behind an HTTP/SSE gateway, with a
// SQLite-backed operational audit log.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/hexrealm/internal/apiserver"
	"github.com/talgya/hexrealm/internal/audit"
	"github.com/talgya/hexrealm/internal/eventbus"
	"github.com/talgya/hexrealm/internal/registry"
	"github.com/talgya/hexrealm/internal/service"
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/state"
	"github.com/talgya/hexrealm/internal/worldmap/testmap"
)

func main() {
	// A TTY gets source locations on every line; a piped/container log
	// stream (the common deployment case) does not.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: isatty.IsTerminal(os.Stdout.Fd()),
	}))
	slog.SetDefault(logger)

	slog.Info("hexrealmd starting")

	port := envInt("HEXREALM_HTTP_PORT", 8080)
	dbPath := envString("HEXREALM_DB_PATH", "data/hexrealm-audit.db")

	os.MkdirAll("data", 0755)
	auditDB, err := audit.Open(dbPath)
	if err != nil {
		slog.Error("failed to open audit database", "error", err)
		os.Exit(1)
	}
	defer auditDB.Close()
	slog.Info("audit log opened", "path", dbPath)

	bus := eventbus.New()
	reg := registry.New(bus).WithAudit(auditDB)
	svc := service.New(reg, bus).WithAudit(auditDB)

	if envString("HEXREALM_DEMO_GAME", "") != "" {
		startDemoGame(svc)
	}

	srv := apiserver.New(svc, port)
	srv.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}

// startDemoGame boots one game at process start so HEXREALM_DEMO_GAME=1
// environments have something to subscribe to without an explicit Start
// call first.
func startDemoGame(svc *service.Service) {
	width, height := 24, 18
	m := testmap.Generate(testmap.DefaultConfig(width, height, 1))

	factions := staticdata.Factions()
	players := make([]state.PlayerConfig, 0, len(factions))
	for i, f := range factions {
		if i >= 4 {
			break
		}
		players = append(players, state.PlayerConfig{
			UserID:    fmt.Sprintf("demo-player-%d", i+1),
			FactionID: f.ID,
		})
	}

	gameID, err := svc.Start(service.StartConfig{
		MapWidth: width, MapHeight: height,
		Terrain: m.Terrain, Elevation: m.Elevation,
		Players: players, Speed: 1,
	})
	if err != nil {
		slog.Error("failed to start demo game", "error", err)
		return
	}
	slog.Info("demo game started", "gameId", gameID, "players", len(players),
		"hexes", humanize.Comma(int64(width*height)))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
