package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleShopOpen lists a vendor's trades and crafts.
func HandleShopOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.OpenShop(p.ID, npcIndex)
	})
}

// HandleShopBuy purchases from the open vendor.
func HandleShopBuy(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	amount := r.GetInt()
	session := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.ShopBuy(p.ID, session, itemID, amount)
	})
}

// HandleShopSell sells to the open vendor.
func HandleShopSell(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	amount := r.GetInt()
	session := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.ShopSell(p.ID, session, itemID, amount)
	})
}

// HandleShopCraft crafts one item from its ingredient list.
func HandleShopCraft(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	session := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.ShopCraft(p.ID, session, itemID)
	})
}
