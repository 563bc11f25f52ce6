package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleAttack swings in a direction; the map resolves what is hit.
func HandleAttack(p *player.Player, r *packet.Reader, deps *Deps) {
	dir := world.Direction(r.GetChar())
	_ = r.GetThree() // client timestamp
	if dir > world.DirRight {
		return
	}
	onMap(p, func(m *world.Map) {
		m.Attack(p.ID, dir)
	})
}

// HandleSpellRequest starts a chant, shown to nearby observers.
func HandleSpellRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	spellID := r.GetShort()
	_ = r.GetThree() // client timestamp
	onMap(p, func(m *world.Map) {
		m.BeginCast(p.ID, spellID)
	})
}

// HandleSpellTargetSelf casts a self-targeted spell.
func HandleSpellTargetSelf(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetChar() // cast direction, cosmetic
	spellID := r.GetShort()
	_ = r.GetThree() // client timestamp
	onMap(p, func(m *world.Map) {
		m.CastSelf(p.ID, spellID)
	})
}

// HandleSpellTargetOther casts at an NPC.
func HandleSpellTargetOther(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetChar() // target type
	_ = r.GetChar() // previous timestamp delta
	spellID := r.GetShort()
	npcIndex := r.GetShort()
	_ = r.GetThree() // client timestamp
	onMap(p, func(m *world.Map) {
		m.CastTargetNpc(p.ID, spellID, npcIndex)
	})
}

// HandleSpellTargetGroup casts a party-wide spell.
func HandleSpellTargetGroup(p *player.Player, r *packet.Reader, deps *Deps) {
	spellID := r.GetShort()
	_ = r.GetThree() // client timestamp
	onMap(p, func(m *world.Map) {
		m.CastGroup(p.ID, spellID)
	})
}
