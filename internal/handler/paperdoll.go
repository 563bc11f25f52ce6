package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandlePaperdollAdd equips an item. subLoc selects the second slot for
// paired slots (rings, armlets, bracers).
func HandlePaperdollAdd(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	subLoc := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.EquipItem(p.ID, itemID, subLoc)
	})
}

// HandlePaperdollRemove unequips an item.
func HandlePaperdollRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	subLoc := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.UnequipItem(p.ID, itemID, subLoc)
	})
}

// HandlePaperdollRequest shows another player's equipment sheet.
func HandlePaperdollRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	targetID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.PaperdollRequest(p.ID, targetID)
	})
}
