package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleChestOpen lists an adjacent chest's contents.
func HandleChestOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.OpenChest(p.ID, x, y)
	})
}

// HandleChestAdd stores items in the chest being viewed.
func HandleChestAdd(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetChar() // chest x, the viewed chest is authoritative
	_ = r.GetChar() // chest y
	itemID := r.GetShort()
	amount := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.ChestAdd(p.ID, itemID, amount)
	})
}

// HandleChestTake withdraws one slot's stack.
func HandleChestTake(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetChar() // chest x
	_ = r.GetChar() // chest y
	itemID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.ChestTake(p.ID, itemID)
	})
}
