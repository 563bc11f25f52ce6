package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleJukeboxOpen shows the track list and who is currently playing.
func HandleJukeboxOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.OpenJukebox(p.ID, x, y)
	})
}

// HandleJukeboxMsg pays for a track and plays it map-wide.
func HandleJukeboxMsg(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	track := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.PlayJukebox(p.ID, x, y, track)
	})
}

// HandleJukeboxUse plays a bard note from an equipped instrument.
func HandleJukeboxUse(p *player.Player, r *packet.Reader, deps *Deps) {
	note := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.PlayInstrument(p.ID, note)
	})
}

// HandleBarberOpen starts a barber dialog.
func HandleBarberOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.OpenBarber(p.ID, npcIndex)
	})
}

// HandleBarberBuy purchases a new hairstyle.
func HandleBarberBuy(p *player.Player, r *packet.Reader, deps *Deps) {
	style := r.GetChar()
	color := r.GetChar()
	session := r.GetInt()
	onMap(p, func(m *world.Map) {
		m.BuyHairstyle(p.ID, session, style, color)
	})
}

// HandleSignOpen reads an adjacent sign.
func HandleSignOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.ReadSign(p.ID, x, y)
	})
}
