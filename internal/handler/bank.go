package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

// HandleBankOpen starts a teller dialog at a banker NPC.
func HandleBankOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.OpenBank(p.ID, npcIndex)
	})
}

// HandleBankAdd deposits gold. The session nonce rides a three.
func HandleBankAdd(p *player.Player, r *packet.Reader, deps *Deps) {
	amount := r.GetInt()
	session := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.BankDeposit(p.ID, session, amount)
	})
}

// HandleBankTake withdraws gold.
func HandleBankTake(p *player.Player, r *packet.Reader, deps *Deps) {
	amount := r.GetInt()
	session := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.BankWithdraw(p.ID, session, amount)
	})
}

// HandleLockerOpen lists the character's vault at a bank vault tile.
func HandleLockerOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	onMap(p, func(m *world.Map) {
		m.OpenLocker(p.ID, x, y)
	})
}

// HandleLockerAdd stores items in the vault.
func HandleLockerAdd(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	itemID := r.GetShort()
	amount := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.LockerAdd(p.ID, x, y, itemID, amount)
	})
}

// HandleLockerTake withdraws one vault stack.
func HandleLockerTake(p *player.Player, r *packet.Reader, deps *Deps) {
	x := r.GetChar()
	y := r.GetChar()
	itemID := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.LockerTake(p.ID, x, y, itemID)
	})
}

// HandleLockerBuy purchases the next vault size upgrade.
func HandleLockerBuy(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetThree()
	onMap(p, func(m *world.Map) {
		m.BuyLockerUpgrade(p.ID, session)
	})
}
