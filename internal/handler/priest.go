package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandlePriestOpen starts a wedding-priest dialog.
func HandlePriestOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.OpenPriest(p.ID, npcIndex)
	})
}

// HandlePriestRequest asks the priest to marry this player to a partner.
func HandlePriestRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetInt()
	partner := r.GetBreakString()
	onMap(p, func(m *world.Map) {
		m.RequestWedding(p.ID, session, partner)
	})
}

// HandlePriestAccept is the partner agreeing to the ceremony.
func HandlePriestAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	onMap(p, func(m *world.Map) {
		m.AcceptWedding(p.ID)
	})
}

// HandlePriestUse says the vows.
func HandlePriestUse(p *player.Player, r *packet.Reader, deps *Deps) {
	onMap(p, func(m *world.Map) {
		m.SayVows(p.ID)
	})
}

// HandleMarriageRequest buys an engagement from the lawyer NPC.
func HandleMarriageRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	reqType := r.GetChar()
	npcIndex := r.GetShort()
	partner := r.GetBreakString()
	switch reqType {
	case 1: // approve engagement
		onMap(p, func(m *world.Map) {
			m.Engage(p.ID, npcIndex, partner)
		})
	case 2: // divorce
		onMap(p, func(m *world.Map) {
			m.Divorce(p.ID, npcIndex)
		})
	}
}
