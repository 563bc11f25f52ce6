package data

import "testing"

func TestTileSpecBlocksWalk(t *testing.T) {
	blocking := []TileSpec{
		TileWall, TileChest, TileBankVault, TileMapEdge, TileJukebox,
		TileChairDown, TileChairAll, TileBoard1, TileBoard8,
	}
	for _, s := range blocking {
		if !s.BlocksWalk() {
			t.Errorf("spec %d should block", s)
		}
	}
	open := []TileSpec{TileNpcBoundary, TileWater, TileArena, TileJump, TileSpikes}
	for _, s := range open {
		if s.BlocksWalk() {
			t.Errorf("spec %d should not block", s)
		}
	}
}

func TestTileSpecBoard(t *testing.T) {
	if got := TileBoard1.Board(); got != 0 {
		t.Errorf("board1 = %d", got)
	}
	if got := TileBoard8.Board(); got != 7 {
		t.Errorf("board8 = %d", got)
	}
	if got := TileWall.Board(); got != -1 {
		t.Errorf("wall board = %d", got)
	}
}

func TestMapFileLookups(t *testing.T) {
	mf := &MapFile{
		ID:     7,
		Width:  5,
		Height: 5,
		Tiles: []Tile{
			{X: 2, Y: 2, Spec: TileWall},
			{X: 3, Y: 3, Spec: TileNpcBoundary},
		},
		Warps: []Warp{{X: 1, Y: 1, Map: 2, ToX: 0, ToY: 0}},
		Signs: []Sign{{X: 4, Y: 4, Title: "notice", Body: "keep out"}},
	}
	table := NewMapTable([]*MapFile{mf})
	if table.Get(7) != mf || table.Get(8) != nil {
		t.Fatal("table lookup broken")
	}

	if mf.Walkable(2, 2) {
		t.Error("wall walkable")
	}
	if !mf.Walkable(0, 0) || !mf.Walkable(3, 3) {
		t.Error("open ground not walkable")
	}
	if mf.NpcWalkable(3, 3) {
		t.Error("npc crossed a boundary tile")
	}
	if mf.Walkable(6, 0) {
		t.Error("out of bounds walkable")
	}
	if spec, _ := mf.Spec(-1, 0); spec != TileMapEdge {
		t.Errorf("out-of-bounds spec = %d", spec)
	}

	if w := mf.WarpAt(1, 1); w == nil || w.Map != 2 {
		t.Errorf("warp = %+v", w)
	}
	if mf.WarpAt(0, 1) != nil {
		t.Error("phantom warp")
	}
	if s := mf.SignAt(4, 4); s == nil || s.Title != "notice" {
		t.Errorf("sign = %+v", s)
	}
}

func TestMapEffectQuakeStrength(t *testing.T) {
	if got := EffectQuake1.QuakeStrength(); got != 0 {
		t.Errorf("quake1 = %d", got)
	}
	if got := EffectQuake4.QuakeStrength(); got != 3 {
		t.Errorf("quake4 = %d", got)
	}
	if got := EffectHPDrain.QuakeStrength(); got != -1 {
		t.Errorf("hp drain = %d", got)
	}
}
