package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// TradeRequest invites another player on this map to trade.
func (m *Map) TradeRequest(playerID, targetID int) {
	c := m.characters[playerID]
	t := m.characters[targetID]
	if c == nil || t == nil || playerID == targetID {
		return
	}
	if c.Trading || t.Trading {
		return
	}
	if !c.InRangeOf(t.X, t.Y, m.deps.World().SeeDistance) {
		return
	}
	c.InteractPlayerID = targetID

	t.Send(packet.NewWriter(packet.ActionRequest, packet.FamilyTrade).
		AddChar(138). // dialog id expected by the client
		AddShort(playerID).
		AddBreakString(c.Name).
		Bytes())
}

// TradeAccept opens the paired trade dialogs. Only valid when the acceptor
// was the last player the requester invited.
func (m *Map) TradeAccept(playerID, requesterID int) {
	c := m.characters[playerID]
	r := m.characters[requesterID]
	if c == nil || r == nil || r.InteractPlayerID != playerID {
		return
	}
	if c.Trading || r.Trading {
		return
	}
	if !c.InRangeOf(r.X, r.Y, m.deps.World().SeeDistance) {
		return
	}
	c.Trading, r.Trading = true, true
	c.TradeAccepted, r.TradeAccepted = false, false
	c.TradeItems, r.TradeItems = nil, nil
	c.InteractPlayerID = requesterID
	r.InteractPlayerID = playerID

	open := func(self, other *Character) []byte {
		return packet.NewWriter(packet.ActionOpen, packet.FamilyTrade).
			AddShort(other.PlayerID).
			AddBreakString(other.Name).
			AddShort(self.PlayerID).
			AddBreakString(self.Name).
			Bytes()
	}
	c.Send(open(c, r))
	r.Send(open(r, c))
}

// tradePartner resolves the live symmetric partner, or nil.
func (m *Map) tradePartner(c *Character) *Character {
	if !c.Trading {
		return nil
	}
	p := m.characters[c.InteractPlayerID]
	if p == nil || !p.Trading || p.InteractPlayerID != c.PlayerID {
		return nil
	}
	return p
}

// TradeAdd puts a stack on the character's side of the table. Any offer
// change clears both accept flags.
func (m *Map) TradeAdd(playerID, itemID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 {
		return
	}
	p := m.tradePartner(c)
	if p == nil {
		return
	}
	rec := m.deps.Items.Get(itemID)
	if rec == nil || rec.Special == data.SpecialLore {
		return
	}
	if have := c.ItemAmount(itemID); amount > have {
		amount = have
	}
	if amount == 0 {
		return
	}
	if over := m.deps.World().MaxTrade; amount > over {
		amount = over
	}
	replaced := false
	for i := range c.TradeItems {
		if c.TradeItems[i].ID == itemID {
			c.TradeItems[i].Amount = amount
			replaced = true
			break
		}
	}
	if !replaced {
		c.TradeItems = append(c.TradeItems, InvItem{ID: itemID, Amount: amount})
	}
	c.TradeAccepted, p.TradeAccepted = false, false
	m.sendTradeUpdate(c, p)
}

// TradeRemove takes a stack back off the table.
func (m *Map) TradeRemove(playerID, itemID int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	p := m.tradePartner(c)
	if p == nil {
		return
	}
	for i := range c.TradeItems {
		if c.TradeItems[i].ID == itemID {
			c.TradeItems = append(c.TradeItems[:i], c.TradeItems[i+1:]...)
			c.TradeAccepted, p.TradeAccepted = false, false
			m.sendTradeUpdate(c, p)
			return
		}
	}
}

// TradeAgree marks one side accepted; when both sides accept the exchange
// executes.
func (m *Map) TradeAgree(playerID int, agree bool) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	p := m.tradePartner(c)
	if p == nil {
		return
	}
	c.TradeAccepted = agree
	if !agree {
		m.sendTradeUpdate(c, p)
		return
	}
	if !p.TradeAccepted {
		p.Send(packet.NewWriter(packet.ActionSpec, packet.FamilyTrade).
			AddChar(1).
			Bytes())
		return
	}
	m.completeTrade(c, p)
}

// completeTrade performs the exchange. Both offers are removed from their
// owners before either side receives anything; a clamped add can therefore
// lose overflow, which matches the client contract.
func (m *Map) completeTrade(a, b *Character) {
	maxStack := m.deps.World().MaxItem

	for _, it := range a.TradeItems {
		a.DelItem(it.ID, it.Amount)
	}
	for _, it := range b.TradeItems {
		b.DelItem(it.ID, it.Amount)
	}
	for _, it := range a.TradeItems {
		b.AddItem(it.ID, it.Amount, maxStack)
	}
	for _, it := range b.TradeItems {
		a.AddItem(it.ID, it.Amount, maxStack)
	}

	final := func(self, other *Character) []byte {
		w := packet.NewWriter(packet.ActionUse, packet.FamilyTrade).
			AddShort(self.PlayerID)
		for _, it := range other.TradeItems {
			w.AddShort(it.ID).AddInt(it.Amount)
		}
		w.AddByte(packet.Break).
			AddShort(other.PlayerID)
		for _, it := range self.TradeItems {
			w.AddShort(it.ID).AddInt(it.Amount)
		}
		w.AddByte(packet.Break)
		return w.Bytes()
	}
	a.Send(final(a, b))
	b.Send(final(b, a))

	m.resetTrade(a)
	m.resetTrade(b)
	a.MarkDirty()
	b.MarkDirty()

	m.sendInRange(a.X, a.Y, 0, emotePacket(a.PlayerID, EmoteTrade))
	m.sendInRange(b.X, b.Y, 0, emotePacket(b.PlayerID, EmoteTrade))
}

// TradeClose cancels the trade from either side.
func (m *Map) TradeClose(playerID int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	m.cancelTrade(c)
}

// cancelTrade unwinds a trade for a character and its partner, notifying
// the partner. No items move; offers were never removed from inventories.
func (m *Map) cancelTrade(c *Character) {
	p := m.tradePartner(c)
	m.resetTrade(c)
	if p != nil {
		m.resetTrade(p)
		p.Send(packet.NewWriter(packet.ActionClose, packet.FamilyTrade).
			AddShort(c.PlayerID).
			Bytes())
	}
}

func (m *Map) resetTrade(c *Character) {
	c.Trading = false
	c.TradeAccepted = false
	c.TradeItems = nil
	c.InteractPlayerID = 0
}

// sendTradeUpdate resends both offers and accept flags to both sides.
func (m *Map) sendTradeUpdate(a, b *Character) {
	body := func() []byte {
		w := packet.NewWriter(packet.ActionReply, packet.FamilyTrade).
			AddShort(a.PlayerID)
		for _, it := range a.TradeItems {
			w.AddShort(it.ID).AddInt(it.Amount)
		}
		w.AddByte(packet.Break).
			AddShort(b.PlayerID)
		for _, it := range b.TradeItems {
			w.AddShort(it.ID).AddInt(it.Amount)
		}
		w.AddByte(packet.Break)
		return w.Bytes()
	}()
	a.Send(body)
	b.Send(body)
}
