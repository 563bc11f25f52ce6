package world

import (
	"testing"

	"github.com/eogo/server/internal/data"
)

func TestWalkMovesAndFaces(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)

	m.Walk(1, DirRight)
	if c.X != 6 || c.Y != 5 || c.Direction != DirRight {
		t.Fatalf("after walk: (%d,%d) facing %d", c.X, c.Y, c.Direction)
	}
	if !c.TakeDirty() {
		t.Error("walk did not mark the character for save")
	}
}

func TestWalkBlockedByWall(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 4, 3)

	m.Walk(1, DirDown) // (4,4) is a wall
	if c.X != 4 || c.Y != 3 {
		t.Fatalf("walked into wall, now at (%d,%d)", c.X, c.Y)
	}

	c.AdminLevel = AdminGuardian
	m.Walk(1, DirDown)
	if c.X != 4 || c.Y != 4 {
		t.Fatalf("admin blocked by wall, at (%d,%d)", c.X, c.Y)
	}
}

func TestWalkBlockedByOccupant(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	putChar(w, m, 2, 6, 5)

	m.Walk(1, DirRight)
	if c.X != 5 {
		t.Fatalf("walked onto an occupied tile, at (%d,%d)", c.X, c.Y)
	}
}

func TestWalkOffMapEdge(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 0, 0)

	m.Walk(1, DirUp)
	m.Walk(1, DirLeft)
	if c.X != 0 || c.Y != 0 {
		t.Fatalf("walked out of bounds, at (%d,%d)", c.X, c.Y)
	}
}

func TestWalkOntoWarpRequestsTransfer(t *testing.T) {
	w, m := newTestMap(t)
	m.File.Warps = append(m.File.Warps, data.Warp{X: 8, Y: 5, Map: 2, ToX: 1, ToY: 1})
	reindexTestMap(m)
	c, client := putChar(w, m, 1, 7, 5)

	m.Walk(1, DirRight)
	if c.X != 7 || c.Y != 5 {
		t.Fatalf("warp tile moved the character to (%d,%d)", c.X, c.Y)
	}
	if len(client.warps) != 1 {
		t.Fatalf("warp requests = %d", len(client.warps))
	}
	if got := client.warps[0]; got != (warpCall{2, 1, 1, false}) {
		t.Fatalf("warp = %+v", got)
	}
}

func TestWalkWarpLevelGate(t *testing.T) {
	w, m := newTestMap(t)
	m.File.Warps = append(m.File.Warps, data.Warp{X: 8, Y: 5, Map: 2, ToX: 1, ToY: 1, LevelReq: 10})
	reindexTestMap(m)
	_, client := putChar(w, m, 1, 7, 5)

	m.Walk(1, DirRight)
	if len(client.warps) != 0 {
		t.Fatal("level 1 character passed a level 10 gate")
	}
}

func TestSitChairAndStand(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 6, 7) // directly below the down chair at (6,6)

	m.SitChair(1, 6, 6)
	if c.SitState != SitChair || c.X != 6 || c.Y != 6 {
		t.Fatalf("sit: state=%d at (%d,%d)", c.SitState, c.X, c.Y)
	}
	if c.Direction != DirDown {
		t.Fatalf("chair facing = %d", c.Direction)
	}

	m.Stand(1)
	if c.SitState != Standing {
		t.Fatal("still sitting")
	}
	if c.X != 6 || c.Y != 7 {
		t.Fatalf("did not step off the chair, at (%d,%d)", c.X, c.Y)
	}
}

func TestSitChairWrongApproach(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 6, 5) // above a down-facing chair

	m.SitChair(1, 6, 6)
	if c.SitState != Standing {
		t.Fatal("sat on a chair from its blind side")
	}
}

func TestSitFloorBlocksWalk(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)

	m.SitFloor(1)
	if c.SitState != SitFloor {
		t.Fatal("not sitting")
	}
	m.Walk(1, DirRight)
	if c.X != 5 {
		t.Fatal("walked while sitting")
	}
}

func TestOpenDoorNeedsKey(t *testing.T) {
	w, m := newTestMap(t)
	keyID := testRockID // any item works as a key id
	m.File.Warps = append(m.File.Warps, data.Warp{X: 5, Y: 6, Map: 1, ToX: 5, ToY: 6, Door: keyID + 1})
	reindexTestMap(m)
	c, _ := putChar(w, m, 1, 5, 5)

	m.OpenDoor(1, 5, 6)
	if m.doorOpen(5, 6) {
		t.Fatal("locked door opened without the key")
	}

	c.AddItem(keyID, 1, m.deps.World().MaxItem)
	m.OpenDoor(1, 5, 6)
	if !m.doorOpen(5, 6) {
		t.Fatal("door stayed shut with the key in inventory")
	}

	// Doors swing shut after a few ticks.
	for i := 0; i < doorOpenTicks; i++ {
		m.Tick()
	}
	if m.doorOpen(5, 6) {
		t.Fatal("door never closed")
	}
}

// reindexTestMap rebuilds the map file's coordinate indexes after a test
// mutates its warp table.
func reindexTestMap(m *Map) {
	data.NewMapTable([]*data.MapFile{m.File})
}
