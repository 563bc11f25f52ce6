package world

import (
	"context"

	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/persist"
	"go.uber.org/zap"
)

// GroundItem is one dropped stack on a map tile.
type GroundItem struct {
	Index  int
	ID     int
	Amount int
	X, Y   int

	// OwnerID is the player with privileged pickup until ProtectTicks
	// expires; zero means unowned.
	OwnerID      int
	ProtectTicks int
	DecayTicks   int
}

// ChestSpawn is one configured refill slot of a chest.
type ChestSpawn struct {
	Slot      int
	ItemID    int
	Amount    int
	TimeTicks int // refill period in map ticks
	LastTaken int // map tick the slot was last emptied
}

// ChestItem is one occupied slot of a chest.
type ChestItem struct {
	Slot   int
	ID     int
	Amount int
}

// Chest is a fixed container on a map.
type Chest struct {
	Index  int
	X, Y   int
	KeyReq int // item id of the required key, 0 = none
	Spawns []ChestSpawn
	Items  []ChestItem
}

// Map is the actor that owns all mutable state of one map. Every mutation
// runs on its mailbox goroutine, so the fields need no locks.
type Map struct {
	ID   int
	File *data.MapFile

	deps *Deps
	log  *zap.Logger

	mailbox chan func(*Map)
	done    chan struct{}

	characters map[int]*Character // keyed by player id
	npcs       map[int]*NPC       // keyed by npc index
	items      map[int]*GroundItem
	chests     []*Chest

	nextItemIndex int
	nextNpcIndex  int

	// openDoors maps door coords to the tick they swing shut.
	openDoors map[[2]int]int

	arena   *arenaState
	jukebox jukeboxState
	wedding *weddingState

	evacuateTicks int
	quakeTicks    int
	recoverTicks  int
	tick          int

	// save requests drained by the world's persistence pass
	pendingSaves []*characterSave

	world *World
}

func newMap(id int, file *data.MapFile, deps *Deps, w *World) *Map {
	m := &Map{
		ID:         id,
		File:       file,
		deps:       deps,
		log:        deps.Log.With(zap.Int("map", id)),
		mailbox:    make(chan func(*Map), 256),
		done:       make(chan struct{}),
		characters: make(map[int]*Character),
		npcs:       make(map[int]*NPC),
		items:      make(map[int]*GroundItem),
		openDoors:  make(map[[2]int]int),
		world:      w,
	}
	m.spawnChests()
	m.spawnNpcs()
	if ar := deps.Arenas.ByMap(id); ar != nil {
		m.arena = newArenaState(ar)
	}
	return m
}

// Run processes the mailbox until Stop. The map has no private timer; the
// world posts Tick once per second so every map shares one clock.
func (m *Map) Run(ctx context.Context) {
	for {
		select {
		case fn := <-m.mailbox:
			fn(m)
		case <-m.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop terminates the actor after the current message.
func (m *Map) Stop() {
	close(m.done)
}

// Do posts a mutation onto the map's mailbox. Never call from the map's own
// goroutine; handlers run on player goroutines and the world loop.
func (m *Map) Do(fn func(*Map)) {
	select {
	case m.mailbox <- fn:
	case <-m.done:
	}
}

// Call posts fn and blocks until it ran, returning its result. Used for the
// few synchronous protocols (warp leave, close-time removal).
func Call[T any](m *Map, fn func(*Map) T) T {
	ch := make(chan T, 1)
	m.Do(func(mm *Map) { ch <- fn(mm) })
	select {
	case v := <-ch:
		return v
	case <-m.done:
		var zero T
		return zero
	}
}

// ── Presence ───────────────────────────────────────────────────────

// Enter installs a character on the map and announces it to players in
// range. warpAnim selects the client-side arrival effect (0 = none).
func (m *Map) Enter(c *Character, warpAnim int) {
	c.MapID = m.ID
	m.characters[c.PlayerID] = c

	if !c.Hidden {
		info := m.characterMapInfo(c)
		m.sendInRange(c.X, c.Y, c.PlayerID, packet.NewWriter(packet.ActionAgree, packet.FamilyPlayers).
			AddChar(1).
			AddByte(packet.Break).
			AddBytes(info).
			Bytes())
	}
	m.log.Debug("character entered", zap.String("name", c.Name), zap.Int("player", c.PlayerID))
}

// Leave removes and returns a character, broadcasting its disappearance.
// Returns nil when the player is not resident here.
func (m *Map) Leave(playerID int, warpAnim int) *Character {
	c, ok := m.characters[playerID]
	if !ok {
		return nil
	}
	m.cancelInteractions(c)
	delete(m.characters, playerID)

	if !c.Hidden {
		m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionRemove, packet.FamilyAvatar).
			AddShort(playerID).
			AddChar(warpAnim).
			Bytes())
	}
	m.log.Debug("character left", zap.String("name", c.Name), zap.Int("player", playerID))
	return c
}

// cancelInteractions unwinds any open dialog or trade before removal.
func (m *Map) cancelInteractions(c *Character) {
	if c.Trading {
		m.cancelTrade(c)
	}
	if c.ArenaPlayer {
		m.arenaEliminate(c, nil)
	}
	c.SessionID = 0
	c.InteractNpcIndex = 0
	c.InteractPlayerID = 0
	c.BoardID = 0
	c.ChestIndex = -1
}

// Character returns the resident character for a player id, or nil.
func (m *Map) Character(playerID int) *Character {
	return m.characters[playerID]
}

// CharacterByName returns the resident character with the name, or nil.
func (m *Map) CharacterByName(name string) *Character {
	for _, c := range m.characters {
		if equalFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// CharacterAt returns the standing character occupying a tile, ignoring
// hidden admins, or nil.
func (m *Map) CharacterAt(x, y int) *Character {
	for _, c := range m.characters {
		if c.X == x && c.Y == y && !c.Hidden {
			return c
		}
	}
	return nil
}

// Occupied reports whether a standing, visible character blocks the tile.
func (m *Map) Occupied(x, y int) bool {
	c := m.CharacterAt(x, y)
	return c != nil && c.SitState == Standing
}

// NpcAt returns the living NPC on a tile, or nil.
func (m *Map) NpcAt(x, y int) *NPC {
	for _, n := range m.npcs {
		if n.Alive && n.X == x && n.Y == y {
			return n
		}
	}
	return nil
}

// Npc returns the living NPC with the given index, or nil.
func (m *Map) Npc(index int) *NPC {
	n := m.npcs[index]
	if n == nil || !n.Alive {
		return nil
	}
	return n
}

// Walkable decides whether a character may step onto the tile.
func (m *Map) Walkable(x, y int, admin bool) bool {
	if !m.File.InBounds(x, y) {
		return false
	}
	if !admin && !m.File.Walkable(x, y) {
		return false
	}
	if m.Occupied(x, y) {
		return false
	}
	if n := m.NpcAt(x, y); n != nil {
		return false
	}
	return true
}

// ── Broadcast ──────────────────────────────────────────────────────

// sendInRange delivers body to every character in client range of (x, y),
// excluding exceptID (0 = nobody excluded).
func (m *Map) sendInRange(x, y, exceptID int, body []byte) {
	dist := m.deps.World().SeeDistance
	for pid, c := range m.characters {
		if pid == exceptID {
			continue
		}
		if c.InRangeOf(x, y, dist) {
			c.Send(body)
		}
	}
}

// sendAll delivers body to every character on the map.
func (m *Map) sendAll(body []byte) {
	for _, c := range m.characters {
		c.Send(body)
	}
}

// charactersInRange collects the visible characters in client range of a
// coordinate, excluding exceptID.
func (m *Map) charactersInRange(x, y, exceptID int) []*Character {
	dist := m.deps.World().SeeDistance
	var out []*Character
	for pid, c := range m.characters {
		if pid == exceptID || c.Hidden {
			continue
		}
		if c.InRangeOf(x, y, dist) {
			out = append(out, c)
		}
	}
	return out
}

// npcsInRange collects the living NPCs in client range of a coordinate.
func (m *Map) npcsInRange(x, y int) []*NPC {
	dist := m.deps.World().SeeDistance
	var out []*NPC
	for _, n := range m.npcs {
		if n.Alive && pathDistance(n.X, n.Y, x, y) <= dist {
			out = append(out, n)
		}
	}
	return out
}

// itemsInRange collects the ground items in client range of a coordinate.
func (m *Map) itemsInRange(x, y int) []*GroundItem {
	dist := m.deps.World().SeeDistance
	var out []*GroundItem
	for _, it := range m.items {
		if pathDistance(it.X, it.Y, x, y) <= dist {
			out = append(out, it)
		}
	}
	return out
}

// ── Tick ───────────────────────────────────────────────────────────

// Tick advances all per-map timers. Posted by the world once per second.
func (m *Map) Tick() {
	m.tick++

	m.tickNpcs()
	m.tickItems()
	m.tickChests()
	m.tickArena()
	m.tickJukebox()
	m.tickWedding()
	m.tickEffects()

	w := m.deps.World()
	m.recoverTicks++
	if w.RecoverRate > 0 && m.recoverTicks >= w.RecoverRate {
		m.recoverTicks = 0
		m.tickRecover()
	}
}

// DrainSaves hands pending character snapshots to the caller. Used by the
// world's persistence pass; runs on the map goroutine via Do.
func (m *Map) drainSaves() []*characterSave {
	out := m.pendingSaves
	m.pendingSaves = nil
	for _, c := range m.characters {
		if c.TakeDirty() {
			out = append(out, &characterSave{Name: c.Name, Row: c.Snapshot()})
		}
	}
	return out
}

// characterSave is one pending snapshot bound for the characters table.
type characterSave struct {
	Name string
	Row  *persist.CharacterRow
}
