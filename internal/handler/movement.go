package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// Sit packet sub-commands.
const (
	sitActSit   = 1
	sitActStand = 2
)

// HandleWalk moves one tile. The client sends its own coordinates but the
// map trusts only its tracked position.
func HandleWalk(p *player.Player, r *packet.Reader, deps *Deps) {
	dir := world.Direction(r.GetChar())
	_ = r.GetThree() // client timestamp
	_ = r.GetChar()  // client x, ignored
	_ = r.GetChar()  // client y, ignored
	if dir > world.DirRight {
		return
	}
	onMap(p, func(m *world.Map) {
		m.Walk(p.ID, dir)
	})
}

// HandleFace turns in place.
func HandleFace(p *player.Player, r *packet.Reader, deps *Deps) {
	dir := world.Direction(r.GetChar())
	if dir > world.DirRight {
		return
	}
	onMap(p, func(m *world.Map) {
		m.Face(p.ID, dir)
	})
}

// HandleSit toggles floor sitting.
func HandleSit(p *player.Player, r *packet.Reader, deps *Deps) {
	switch r.GetChar() {
	case sitActSit:
		onMap(p, func(m *world.Map) { m.SitFloor(p.ID) })
	case sitActStand:
		onMap(p, func(m *world.Map) { m.Stand(p.ID) })
	}
}

// HandleChair sits on or stands from an adjacent chair tile.
func HandleChair(p *player.Player, r *packet.Reader, deps *Deps) {
	cmd := r.GetChar()
	x := r.GetChar()
	y := r.GetChar()
	switch cmd {
	case sitActSit:
		onMap(p, func(m *world.Map) { m.SitChair(p.ID, x, y) })
	case sitActStand:
		onMap(p, func(m *world.Map) { m.Stand(p.ID) })
	}
}

// HandleRefresh resends everything visible from the current tile.
func HandleRefresh(p *player.Player, r *packet.Reader, deps *Deps) {
	onMap(p, func(m *world.Map) {
		m.Refresh(p.ID)
	})
}

// HandleDoorOpen opens an adjacent door, checking its key.
func HandleDoorOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.OpenDoor(p.ID, x, y)
	})
}

// HandleEmote broadcasts an emote.
func HandleEmote(p *player.Player, r *packet.Reader, deps *Deps) {
	emote := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.Emote(p.ID, emote)
	})
}
