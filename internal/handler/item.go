package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleItemUse consumes or activates an inventory item.
func HandleItemUse(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.UseItem(p.ID, itemID)
	})
}

// HandleItemDrop places items on the ground. Coordinates 255,255 mean "at
// my feet".
func HandleItemDrop(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	amount := r.GetInt()
	x := r.GetChar()
	y := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.DropItem(p.ID, itemID, amount, x, y)
	})
}

// HandleItemGet picks a ground item up.
func HandleItemGet(p *player.Player, r *packet.Reader, deps *Deps) {
	index := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.GetItem(p.ID, index)
	})
}

// HandleItemJunk destroys items outright.
func HandleItemJunk(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	amount := r.GetInt()
	onMap(p, func(m *world.Map) {
		m.JunkItem(p.ID, itemID, amount)
	})
}
