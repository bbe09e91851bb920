package audit

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndReadTickHistory(t *testing.T) {
	db := openTestDB(t)

	if err := db.RecordTick(TickRow{GameID: "g1", Tick: 1, EventCount: 3, PlayerCount: 2, TickNanos: 1000}, []byte(`[{"kind":"unitMoved"}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.RecordTick(TickRow{GameID: "g1", Tick: 2, EventCount: 0, PlayerCount: 2, TickNanos: 900}, []byte(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := db.History("g1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Tick != 2 {
		t.Fatalf("expected most recent tick first, got %d", rows[0].Tick)
	}
}

func TestTickEventsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	original := []byte(`[{"kind":"combatResult","killed":true}]`)
	if err := db.RecordTick(TickRow{GameID: "g1", Tick: 5}, original); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := db.TickEvents("g1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(original) {
		t.Fatalf("expected round-trip to preserve bytes, got %q want %q", got, original)
	}
}

func TestMapFingerprintRoundTrip(t *testing.T) {
	db := openTestDB(t)
	terrain := []byte{1, 2, 3, 4}
	elevation := []byte{0, 0, 1, 1}

	if err := db.RecordMapFingerprint("g1", 2, 2, terrain, elevation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fp, ok, err := db.MapFingerprint("g1")
	if err != nil || !ok {
		t.Fatalf("expected fingerprint found, err=%v ok=%v", err, ok)
	}
	want := Fingerprint(2, 2, terrain, elevation)
	if fp != want {
		t.Fatalf("expected %q, got %q", want, fp)
	}
}

func TestMapFingerprintDiffersOnChange(t *testing.T) {
	a := Fingerprint(2, 2, []byte{1, 2, 3, 4}, []byte{0, 0, 0, 0})
	b := Fingerprint(2, 2, []byte{1, 2, 3, 5}, []byte{0, 0, 0, 0})
	if a == b {
		t.Fatal("expected different terrain to produce different fingerprints")
	}
}

func TestUnknownGameFingerprintNotFound(t *testing.T) {
	db := openTestDB(t)
	_, ok, err := db.MapFingerprint("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for unknown game")
	}
}
