package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleTradeRequest offers a trade to another player on the same map.
func HandleTradeRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetChar() // dialog echo
	targetID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.TradeRequest(p.ID, targetID)
	})
}

// HandleTradeAccept opens the trade window on both sides.
func HandleTradeAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetChar()
	requesterID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.TradeAccept(p.ID, requesterID)
	})
}

// HandleTradeAdd puts items on the table.
func HandleTradeAdd(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	amount := r.GetInt()
	onMap(p, func(m *world.Map) {
		m.TradeAdd(p.ID, itemID, amount)
	})
}

// HandleTradeRemove takes items back off the table.
func HandleTradeRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	itemID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.TradeRemove(p.ID, itemID)
	})
}

// HandleTradeAgree toggles this side's acceptance.
func HandleTradeAgree(p *player.Player, r *packet.Reader, deps *Deps) {
	agree := r.GetChar() == 1
	onMap(p, func(m *world.Map) {
		m.TradeAgree(p.ID, agree)
	})
}

// HandleTradeClose cancels the trade.
func HandleTradeClose(p *player.Player, r *packet.Reader, deps *Deps) {
	onMap(p, func(m *world.Map) {
		m.TradeClose(p.ID)
	})
}
