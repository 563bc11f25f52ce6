package player

import (
	"errors"
	"math/rand"
	"time"

	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/world"
)

// Warp types carried by the Warp.Request packet.
const (
	warpLocal     = 1 // same map, client keeps its file
	warpMapSwitch = 2 // different map, client may need the file
)

// BeginWarp offers the client a map transition. Overlapping warps are
// rejected; each offer carries a fresh warp session nonce consumed by the
// matching Warp.Accept.
func (p *Player) BeginWarp(mapID, x, y int, local bool, anim int) {
	if p.state != packet.StateInGame || p.warp != nil {
		return
	}
	dest := p.World.Map(mapID)
	if dest == nil {
		p.Log.Warn("warp to unknown map ignored")
		return
	}

	p.warp = &pendingWarp{
		Session:  newWarpSession(),
		MapID:    mapID,
		X:        x,
		Y:        y,
		Local:    local,
		Anim:     anim,
		IssuedAt: time.Now(),
	}

	w := packet.NewWriter(packet.ActionRequest, packet.FamilyWarp)
	if local {
		w.AddChar(warpLocal).
			AddShort(mapID).
			AddChar(x).
			AddChar(y)
	} else {
		file := dest.File
		w.AddChar(warpMapSwitch).
			AddShort(mapID).
			AddShort(p.warp.Session).
			AddShort(file.RevisionID).
			AddThree(file.ByteSize)
	}
	p.Conn.Send(w.Bytes())
}

// AcceptWarp completes the three-step ownership transfer: the source map
// releases the character, the actor holds it while rewriting coordinates,
// and the destination map installs it.
func (p *Player) AcceptWarp(mapID, session int) error {
	wp := p.warp
	if wp == nil || wp.MapID != mapID || wp.Session != session {
		return errors.New("warp accept without matching offer")
	}
	if p.warpExpired() {
		return errors.New("warp session expired")
	}
	p.warp = nil

	var c *world.Character
	if p.Character != nil {
		c = p.Character
		p.Character = nil
	} else if src := p.World.Map(p.MapID); src != nil {
		id := p.ID
		anim := wp.Anim
		c = world.Call(src, func(m *world.Map) *world.Character {
			return m.Leave(id, anim)
		})
	}
	if c == nil {
		return errors.New("no character to warp")
	}

	c.MapID = wp.MapID
	c.X = wp.X
	c.Y = wp.Y
	c.SitState = world.Standing
	c.MarkDirty()

	p.MapID = wp.MapID
	p.World.SetPlayerMap(p.ID, wp.MapID)

	anim := wp.Anim
	p.World.Map(wp.MapID).Do(func(m *world.Map) {
		m.EnterWarp(c, anim)
	})
	return nil
}

func (p *Player) warpExpired() bool {
	timeout := time.Duration(p.Cfg.World.WarpTimeoutTicks) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return time.Since(p.warp.IssuedAt) > timeout
}

// newWarpSession picks a nonzero nonce for one warp offer.
func newWarpSession() int {
	return rand.Intn(64000-10) + 10
}
