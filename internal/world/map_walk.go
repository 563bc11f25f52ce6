package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// Walk moves a character one tile. Silent on any precondition failure so a
// speculating client just snaps back on the next refresh.
func (m *Map) Walk(playerID int, dir Direction) {
	c := m.characters[playerID]
	if c == nil || c.SitState != Standing || c.Trading {
		return
	}
	dx, dy := dir.Offset()
	tx, ty := c.X+dx, c.Y+dy

	admin := c.AdminLevel >= AdminGuardian
	if !m.File.InBounds(tx, ty) {
		return
	}
	if !m.Walkable(tx, ty, admin) {
		return
	}

	// A warp tile redirects instead of moving. Doors must be opened first;
	// level gates are checked here.
	if warp := m.File.WarpAt(tx, ty); warp != nil {
		if warp.LevelReq > 0 && c.Level < warp.LevelReq && !admin {
			return
		}
		if warp.Door > 0 && !m.doorOpen(tx, ty) {
			return
		}
		if c.Client != nil {
			c.Client.RequestWarp(warp.Map, warp.ToX, warp.ToY, warp.Map == m.ID)
		}
		return
	}

	oldX, oldY := c.X, c.Y
	c.X, c.Y = tx, ty
	c.Direction = dir
	c.MarkDirty()

	if !c.Hidden {
		walkPkt := packet.NewWriter(packet.ActionPlayer, packet.FamilyWalk).
			AddShort(playerID).
			AddChar(int(dir)).
			AddChar(tx).
			AddChar(ty).
			Bytes()
		dist := m.deps.World().SeeDistance
		for pid, other := range m.characters {
			if pid == playerID {
				continue
			}
			inOld := other.InRangeOf(oldX, oldY, dist)
			inNew := other.InRangeOf(tx, ty, dist)
			if inOld || inNew {
				other.Send(walkPkt)
			}
			// Newly visible pair: each side learns about the other.
			if inNew && !inOld && !other.Hidden {
				c.Send(m.appearPacket(other))
				other.Send(m.appearPacket(c))
			}
		}
	}

	// The mover's own reply confirms coords and reveals nearby ground.
	reply := packet.NewWriter(packet.ActionReply, packet.FamilyWalk)
	for _, it := range m.itemsInRange(tx, ty) {
		reply.AddBytes(itemMapInfo(it))
	}
	c.Send(reply.Bytes())

	m.checkSpikes(c)
	m.questEnterCoord(c)
}

// appearPacket makes one character pop into view for an observer.
func (m *Map) appearPacket(c *Character) []byte {
	return packet.NewWriter(packet.ActionAgree, packet.FamilyPlayers).
		AddChar(1).
		AddByte(packet.Break).
		AddBytes(m.characterMapInfo(c)).
		Bytes()
}

// Face turns a character in place.
func (m *Map) Face(playerID int, dir Direction) {
	c := m.characters[playerID]
	if c == nil || c.SitState != Standing {
		return
	}
	c.Direction = dir
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionPlayer, packet.FamilyFace).
			AddShort(playerID).
			AddChar(int(dir)).
			Bytes())
	}
}

// SitFloor drops the character onto the ground where it stands.
func (m *Map) SitFloor(playerID int) {
	c := m.characters[playerID]
	if c == nil || c.SitState != Standing || c.Trading {
		return
	}
	c.SitState = SitFloor
	m.broadcastSit(c, packet.FamilySit)
}

// Stand raises a sitting character. Chair sitters step back onto the tile
// in front of the chair.
func (m *Map) Stand(playerID int) {
	c := m.characters[playerID]
	if c == nil || c.SitState == Standing {
		return
	}
	fromChair := c.SitState == SitChair
	c.SitState = Standing
	if fromChair {
		dx, dy := c.Direction.Offset()
		if m.Walkable(c.X+dx, c.Y+dy, false) {
			c.X += dx
			c.Y += dy
		}
	}
	body := packet.NewWriter(packet.ActionRemove, packet.FamilySit).
		AddShort(playerID).
		AddChar(c.X).
		AddChar(c.Y).
		Bytes()
	c.Send(body)
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, playerID, body)
	}
}

// SitChair seats the character on an adjacent chair tile facing outward.
func (m *Map) SitChair(playerID, x, y int) {
	c := m.characters[playerID]
	if c == nil || c.SitState != Standing || c.Trading {
		return
	}
	if pathDistance(c.X, c.Y, x, y) != 1 {
		return
	}
	spec, ok := m.File.Spec(x, y)
	if !ok || !spec.Chair() {
		return
	}
	if !chairFaces(spec, c.X-x, c.Y-y) {
		return
	}
	if m.CharacterAt(x, y) != nil {
		return
	}
	// Sit facing the tile the character came from.
	c.Direction = directionFrom(x, y, c.X, c.Y)
	c.X, c.Y = x, y
	c.SitState = SitChair
	m.broadcastSit(c, packet.FamilyChair)
}

func (m *Map) broadcastSit(c *Character, fam packet.Family) {
	body := packet.NewWriter(packet.ActionPlayer, fam).
		AddShort(c.PlayerID).
		AddChar(c.X).
		AddChar(c.Y).
		AddChar(int(c.Direction)).
		AddChar(0).
		Bytes()
	c.Send(body)
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, c.PlayerID, body)
	}
}

// chairFaces reports whether a chair spec accepts being sat on from the
// given approach delta (dx, dy is sitter minus chair).
func chairFaces(spec data.TileSpec, dx, dy int) bool {
	switch spec {
	case data.TileChairAll:
		return true
	case data.TileChairDown:
		return dy == 1
	case data.TileChairUp:
		return dy == -1
	case data.TileChairLeft:
		return dx == -1
	case data.TileChairRight:
		return dx == 1
	case data.TileChairDownRight:
		return dy == 1 || dx == 1
	case data.TileChairUpLeft:
		return dy == -1 || dx == -1
	}
	return false
}

// directionFrom is the facing from (x, y) toward (tx, ty) for adjacent
// tiles.
func directionFrom(x, y, tx, ty int) Direction {
	switch {
	case ty > y:
		return DirDown
	case ty < y:
		return DirUp
	case tx < x:
		return DirLeft
	default:
		return DirRight
	}
}

// Refresh resends everything in range to one player, the client's recovery
// path after it suspects desync.
func (m *Map) Refresh(playerID int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	chars := m.charactersInRange(c.X, c.Y, 0)
	w := packet.NewWriter(packet.ActionReply, packet.FamilyRefresh).
		AddChar(len(chars)).
		AddByte(packet.Break)
	for _, other := range chars {
		w.AddBytes(m.characterMapInfo(other))
	}
	for _, n := range m.npcsInRange(c.X, c.Y) {
		w.AddBytes(npcMapInfo(n))
	}
	w.AddByte(packet.Break)
	for _, it := range m.itemsInRange(c.X, c.Y) {
		w.AddBytes(itemMapInfo(it))
	}
	c.Send(w.Bytes())
}

// OpenDoor unlocks and opens a door warp. Key requirements check the
// character's inventory; open state is broadcast but not tracked, matching
// the client's own timer-driven close.
func (m *Map) OpenDoor(playerID, x, y int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	if pathDistance(c.X, c.Y, x, y) > 1 {
		return
	}
	warp := m.File.WarpAt(x, y)
	if warp == nil || warp.Door == 0 {
		return
	}
	if keyID := warp.Door - 1; keyID > 0 && c.ItemAmount(keyID) == 0 {
		return
	}
	m.openDoors[[2]int{x, y}] = m.tick + doorOpenTicks
	body := packet.NewWriter(packet.ActionOpen, packet.FamilyDoor).
		AddChar(x).
		AddShort(y).
		Bytes()
	c.Send(body)
	m.sendInRange(x, y, playerID, body)
}

const doorOpenTicks = 3

func (m *Map) doorOpen(x, y int) bool {
	return m.openDoors[[2]int{x, y}] > m.tick
}
