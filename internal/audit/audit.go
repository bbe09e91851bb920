// Package audit records operational tick history for running games:
// one row per tick per game, plus a fingerprint of each game's
// immutable map so a re-subscribing client can verify it without being
// re-sent the terrain. It is never consulted to reconstruct a
// GameState — there is no load path back into internal/state.
package audit

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/pierrec/lz4/v4"
	_ "modernc.org/sqlite"
	"lukechampine.com/blake3"
)

// DB wraps a SQLite connection used purely for operational history.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the audit database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
	CREATE TABLE IF NOT EXISTS tick_history (
		game_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		event_count INTEGER NOT NULL,
		player_count INTEGER NOT NULL,
		tick_nanos INTEGER NOT NULL,
		events_blob BLOB,
		PRIMARY KEY (game_id, tick)
	);

	CREATE TABLE IF NOT EXISTS map_fingerprints (
		game_id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tick_history_game ON tick_history(game_id);
	`)
	return err
}

// TickRow is one tick's operational record for one game.
type TickRow struct {
	GameID      string `db:"game_id"`
	Tick        uint64 `db:"tick"`
	EventCount  int    `db:"event_count"`
	PlayerCount int    `db:"player_count"`
	TickNanos   int64  `db:"tick_nanos"`
}

// RecordTick writes one tick's summary, compressing the raw event JSON
// blob with lz4 before it hits the BLOB column.
func (db *DB) RecordTick(row TickRow, rawEventsJSON []byte) error {
	compressed, err := compressLZ4(rawEventsJSON)
	if err != nil {
		return fmt.Errorf("compress tick events: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT OR REPLACE INTO tick_history
		(game_id, tick, event_count, player_count, tick_nanos, events_blob)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.GameID, row.Tick, row.EventCount, row.PlayerCount, row.TickNanos, compressed,
	)
	return err
}

// History returns up to limit tick rows for gameId, most recent first.
func (db *DB) History(gameID string, limit int) ([]TickRow, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []TickRow
	err := db.conn.Select(&rows,
		`SELECT game_id, tick, event_count, player_count, tick_nanos
		 FROM tick_history WHERE game_id = ? ORDER BY tick DESC LIMIT ?`,
		gameID, limit,
	)
	return rows, err
}

// TickEvents returns the decompressed raw event JSON recorded for one
// tick of one game.
func (db *DB) TickEvents(gameID string, tick uint64) ([]byte, error) {
	var blob []byte
	err := db.conn.Get(&blob, `SELECT events_blob FROM tick_history WHERE game_id = ? AND tick = ?`, gameID, tick)
	if err != nil {
		return nil, err
	}
	return decompressLZ4(blob)
}

// RecordMapFingerprint stores a blake3 fingerprint of a game's
// immutable (width, height, terrain, elevation) tuple.
func (db *DB) RecordMapFingerprint(gameID string, width, height int, terrain, elevation []byte) error {
	fp := Fingerprint(width, height, terrain, elevation)
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO map_fingerprints (game_id, fingerprint, width, height)
		VALUES (?, ?, ?, ?)`,
		gameID, fp, width, height,
	)
	return err
}

// MapFingerprint returns the stored fingerprint for gameId, if any.
func (db *DB) MapFingerprint(gameID string) (string, bool, error) {
	var fp string
	err := db.conn.Get(&fp, `SELECT fingerprint FROM map_fingerprints WHERE game_id = ?`, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return fp, true, nil
}

// Fingerprint hashes a map's immutable tuple with blake3, letting a
// re-subscribing client cheaply confirm it already has the right
// terrain without asking for it again.
func Fingerprint(width, height int, terrain, elevation []byte) string {
	h := blake3.New(32, nil)
	fmt.Fprintf(h, "%d:%d:", width, height)
	h.Write(terrain)
	h.Write(elevation)
	return hex.EncodeToString(h.Sum(nil))
}

func compressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(src []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
