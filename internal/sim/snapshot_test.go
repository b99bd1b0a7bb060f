package sim

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSnapshotTilesRoundTrip(t *testing.T) {
	s := NewSession(ModeSingle, WithEmptyArena(), WithTile(3, 4, TileBrick), WithTile(5, 6, TileSteel))
	snap := s.Snapshot()
	if len(snap.Tiles) != s.Grid.Rows || len(snap.Tiles[0]) != s.Grid.Cols {
		t.Fatalf("tiles %dx%d, want %dx%d", len(snap.Tiles[0]), len(snap.Tiles), s.Grid.Cols, s.Grid.Rows)
	}
	for r := 0; r < s.Grid.Rows; r++ {
		for c := 0; c < s.Grid.Cols; c++ {
			if snap.TileAt(r, c) != s.Grid.Kind(r, c) {
				t.Fatalf("cell (%d,%d) = %v, want %v", r, c, snap.TileAt(r, c), s.Grid.Kind(r, c))
			}
		}
	}
	if snap.TileAt(-1, 0) != TileEmpty || snap.TileAt(0, 99) != TileEmpty {
		t.Fatal("out-of-range cells must read empty")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewSession(ModeCooperative, WithEmptyArena(), WithTile(3, 4, TileBrick))
	snap := s.Snapshot()
	s.Grid.SetTile(3, 4, TileEmpty)
	s.Players[0].X += 50
	if snap.TileAt(3, 4) != TileBrick {
		t.Fatal("snapshot terrain changed with the grid")
	}
	if snap.Tanks[0].X == s.Players[0].X {
		t.Fatal("snapshot tank moved with the session")
	}
	if len(snap.Tanks) != 2 || snap.Tanks[0].Label != "P1" || snap.Tanks[1].Label != "P2" {
		t.Fatalf("tanks = %+v", snap.Tanks)
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	s := NewSession(ModeSingle, WithEmptyArena(), WithTile(0, 0, TileSteel))
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	js := string(b)
	if !strings.Contains(js, `"tiles":["s...`) {
		t.Fatalf("tiles not encoded as row strings: %.120s", js)
	}
	for _, key := range []string{`"mode":"single"`, `"objectiveAlive":true`, `"label":"P1"`, `"summary":`} {
		if !strings.Contains(js, key) {
			t.Fatalf("missing %s in %s", key, js)
		}
	}
}
