package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TileSpec names the special tiles a map file can mark. Anything not listed
// on a coordinate is plain walkable ground.
type TileSpec int

const (
	TileWall TileSpec = iota
	TileChairDown
	TileChairLeft
	TileChairRight
	TileChairUp
	TileChairDownRight
	TileChairUpLeft
	TileChairAll
	TileReserved8
	TileChest
	TileReserved10
	TileReserved11
	TileReserved12
	TileReserved13
	TileReserved14
	TileReserved15
	TileBankVault
	TileNpcBoundary
	TileMapEdge
	TileFakeWall
	TileBoard1
	TileBoard2
	TileBoard3
	TileBoard4
	TileBoard5
	TileBoard6
	TileBoard7
	TileBoard8
	TileJukebox
	TileJump
	TileWater
	TileReserved31
	TileArena
	TileAmbientSource
	TileTimedSpikes
	TileSpikes
)

// Chair reports whether the spec is any chair orientation.
func (t TileSpec) Chair() bool {
	return t >= TileChairDown && t <= TileChairAll
}

// Board returns the zero-based board number, or -1 when the spec is not a
// board tile.
func (t TileSpec) Board() int {
	if t >= TileBoard1 && t <= TileBoard8 {
		return int(t - TileBoard1)
	}
	return -1
}

// BlocksWalk reports whether a player may not step onto this spec. Admins
// bypass this; NPCs additionally treat TileNpcBoundary as blocking.
func (t TileSpec) BlocksWalk() bool {
	if t.Chair() {
		return true
	}
	switch t {
	case TileWall, TileChest, TileBankVault, TileMapEdge, TileJukebox:
		return true
	}
	return t.Board() >= 0
}

// MapEffect is the whole-map ambient effect from the map file header.
type MapEffect int

const (
	EffectNone MapEffect = iota
	EffectHPDrain
	EffectTPDrain
	EffectQuake1
	EffectQuake2
	EffectQuake3
	EffectQuake4
)

// QuakeStrength returns the quake config index for quake effects, or -1.
func (e MapEffect) QuakeStrength() int {
	if e >= EffectQuake1 && e <= EffectQuake4 {
		return int(e - EffectQuake1)
	}
	return -1
}

// Warp is one warp-grid entry: stepping onto its tile moves the player.
type Warp struct {
	X         int `yaml:"x"`
	Y         int `yaml:"y"`
	Map       int `yaml:"map"`
	ToX       int `yaml:"to_x"`
	ToY       int `yaml:"to_y"`
	LevelReq  int `yaml:"level_req"`
	Door      int `yaml:"door"` // 0 = open warp, >0 = door (key id + 1)
}

// Sign is a readable sign placed on a tile.
type Sign struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// NpcSpawn is one spawn-table row.
type NpcSpawn struct {
	NpcID       int `yaml:"npc"`
	X           int `yaml:"x"`
	Y           int `yaml:"y"`
	SpawnType   int `yaml:"spawn_type"` // 7 = fixed coords/direction, else wander
	RespawnTime int `yaml:"respawn"`    // seconds dead before respawn
	Amount      int `yaml:"amount"`
}

// ItemSpawn is one chest-spawn row: slot refills in a chest.
type ItemSpawn struct {
	X       int `yaml:"x"`
	Y       int `yaml:"y"`
	KeyReq  int `yaml:"key"` // item id of required key, 0 = none
	Slot    int `yaml:"slot"`
	ItemID  int `yaml:"item"`
	Time    int `yaml:"time"` // respawn minutes
	Amount  int `yaml:"amount"`
}

// Tile is one special-tile entry of a map file.
type Tile struct {
	X    int      `yaml:"x"`
	Y    int      `yaml:"y"`
	Spec TileSpec `yaml:"spec"`
}

// MapFile is the immutable description of one map. The binary .emf format
// is parsed by an external converter; the server loads the converted YAML.
type MapFile struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	Effect      MapEffect `yaml:"effect"`
	TimedEffect MapEffect `yaml:"timed_effect"`
	MusicID     int       `yaml:"music"`
	PK          bool      `yaml:"pk"` // open player-vs-player combat
	Relog       struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
	} `yaml:"relog"`

	Tiles      []Tile      `yaml:"tiles"`
	Warps      []Warp      `yaml:"warps"`
	Signs      []Sign      `yaml:"signs"`
	NpcSpawns  []NpcSpawn  `yaml:"npc_spawns"`
	ItemSpawns []ItemSpawn `yaml:"item_spawns"`

	// RevisionID and ByteSize echo the original .emf so the client can
	// decide whether to request a file transfer.
	RevisionID int `yaml:"revision"`
	ByteSize   int `yaml:"size"`

	specs map[[2]int]TileSpec
	warps map[[2]int]*Warp
	signs map[[2]int]*Sign
}

func (m *MapFile) index() {
	m.specs = make(map[[2]int]TileSpec, len(m.Tiles))
	for _, t := range m.Tiles {
		m.specs[[2]int{t.X, t.Y}] = t.Spec
	}
	m.warps = make(map[[2]int]*Warp, len(m.Warps))
	for i := range m.Warps {
		w := &m.Warps[i]
		m.warps[[2]int{w.X, w.Y}] = w
	}
	m.signs = make(map[[2]int]*Sign, len(m.Signs))
	for i := range m.Signs {
		s := &m.Signs[i]
		m.signs[[2]int{s.X, s.Y}] = s
	}
}

// InBounds reports whether a coordinate lies on the map.
func (m *MapFile) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x <= m.Width && y <= m.Height
}

// Spec returns the tile spec at a coordinate. Out-of-bounds counts as a map
// edge. Unlisted in-bounds tiles are plain ground, reported as -1.
func (m *MapFile) Spec(x, y int) (TileSpec, bool) {
	if !m.InBounds(x, y) {
		return TileMapEdge, true
	}
	s, ok := m.specs[[2]int{x, y}]
	return s, ok
}

// WarpAt returns the warp entry on a tile, or nil.
func (m *MapFile) WarpAt(x, y int) *Warp {
	return m.warps[[2]int{x, y}]
}

// SignAt returns the sign on a tile, or nil.
func (m *MapFile) SignAt(x, y int) *Sign {
	return m.signs[[2]int{x, y}]
}

// Walkable reports whether a non-admin player may stand on the tile.
// Occupancy by other characters is the map actor's concern, not the file's.
func (m *MapFile) Walkable(x, y int) bool {
	spec, ok := m.Spec(x, y)
	if !ok {
		return true
	}
	return !spec.BlocksWalk()
}

// NpcWalkable additionally blocks NPC boundaries.
func (m *MapFile) NpcWalkable(x, y int) bool {
	spec, ok := m.Spec(x, y)
	if !ok {
		return true
	}
	return !spec.BlocksWalk() && spec != TileNpcBoundary
}

// MapTable holds every loaded map file.
type MapTable struct {
	maps map[int]*MapFile
}

// LoadMaps reads every *.yaml map under dir.
func LoadMaps(dir string) (*MapTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read maps dir %s: %w", dir, err)
	}
	t := &MapTable{maps: make(map[int]*MapFile)}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read map %s: %w", path, err)
		}
		mf := &MapFile{}
		if err := yaml.Unmarshal(raw, mf); err != nil {
			return nil, fmt.Errorf("parse map %s: %w", path, err)
		}
		mf.index()
		t.maps[mf.ID] = mf
	}
	return t, nil
}

// NewMapTable builds a table from in-memory map files. Used by tests.
func NewMapTable(files []*MapFile) *MapTable {
	t := &MapTable{maps: make(map[int]*MapFile, len(files))}
	for _, mf := range files {
		mf.index()
		t.maps[mf.ID] = mf
	}
	return t
}

// Get returns the map file with the given id, or nil.
func (t *MapTable) Get(id int) *MapFile {
	return t.maps[id]
}

// All iterates every loaded map file.
func (t *MapTable) All(fn func(*MapFile)) {
	for _, mf := range t.maps {
		fn(mf)
	}
}

func (t *MapTable) Len() int {
	return len(t.maps)
}
