package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// OpenShop starts a shop dialog with a vendor NPC.
func (m *Map) OpenShop(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || c.Trading || n == nil || n.Record.Type != data.NpcShop {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	shop := m.deps.Shops.ByVendor(n.Record.VendorID)
	if shop == nil {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	w := packet.NewWriter(packet.ActionOpen, packet.FamilyShop).
		AddShort(c.SessionID).
		AddBreakString(shop.Name)
	for _, t := range shop.Trades {
		w.AddShort(t.ItemID).
			AddThree(t.BuyPrice).
			AddThree(t.SellPrice).
			AddChar(t.MaxAmount)
	}
	w.AddByte(packet.Break)
	for _, cr := range shop.Crafts {
		w.AddShort(cr.ItemID)
		for i := 0; i < 4; i++ {
			if i < len(cr.Ingredients) {
				w.AddShort(cr.Ingredients[i].ItemID).AddChar(cr.Ingredients[i].Amount)
			} else {
				w.AddShort(0).AddChar(0)
			}
		}
	}
	w.AddByte(packet.Break)
	c.Send(w.Bytes())
}

// shopFor resolves the open shop dialog, re-validating npc and nonce.
func (m *Map) shopFor(c *Character, sessionID int) *data.Shop {
	if !consumeSession(c, sessionID) {
		return nil
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcShop {
		return nil
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return nil
	}
	return m.deps.Shops.ByVendor(n.Record.VendorID)
}

// ShopBuy purchases a stack from the shop.
func (m *Map) ShopBuy(playerID, sessionID, itemID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 {
		return
	}
	shop := m.shopFor(c, sessionID)
	if shop == nil {
		return
	}
	t := shop.FindTrade(itemID)
	if t == nil || t.BuyPrice <= 0 {
		return
	}
	w := m.deps.World()
	if t.MaxAmount > 0 && amount > t.MaxAmount {
		amount = t.MaxAmount
	}
	if hold := c.CanHold(m.deps.Items, itemID, w.MaxItem); amount > hold {
		amount = hold
	}
	if amount == 0 {
		return
	}
	price := t.BuyPrice * amount
	if c.ItemAmount(GoldItemID) < price {
		return
	}
	c.DelItem(GoldItemID, price)
	c.AddItem(itemID, amount, w.MaxItem)
	c.SessionID = newSessionID()
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionBuy, packet.FamilyShop).
		AddInt(c.ItemAmount(GoldItemID)).
		AddShort(itemID).
		AddInt(amount)
	m.weightFragment(reply, c)
	reply.AddThree(c.SessionID)
	c.Send(reply.Bytes())
}

// ShopSell sells a stack to the shop.
func (m *Map) ShopSell(playerID, sessionID, itemID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 || itemID == GoldItemID {
		return
	}
	shop := m.shopFor(c, sessionID)
	if shop == nil {
		return
	}
	t := shop.FindTrade(itemID)
	if t == nil || t.SellPrice <= 0 {
		return
	}
	if have := c.ItemAmount(itemID); amount > have {
		amount = have
	}
	if amount == 0 {
		return
	}
	w := m.deps.World()
	price := t.SellPrice * amount
	if room := w.MaxItem - c.ItemAmount(GoldItemID); price > room {
		return
	}
	c.DelItem(itemID, amount)
	c.AddItem(GoldItemID, price, w.MaxItem)
	c.SessionID = newSessionID()
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionSell, packet.FamilyShop).
		AddInt(c.ItemAmount(itemID)).
		AddInt(c.ItemAmount(GoldItemID)).
		AddShort(itemID)
	m.weightFragment(reply, c)
	reply.AddThree(c.SessionID)
	c.Send(reply.Bytes())
}

// ShopCraft crafts one item from up to four consumed ingredients.
func (m *Map) ShopCraft(playerID, sessionID, itemID int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	shop := m.shopFor(c, sessionID)
	if shop == nil {
		return
	}
	cr := shop.FindCraft(itemID)
	if cr == nil {
		return
	}
	w := m.deps.World()
	for _, ing := range cr.Ingredients {
		if ing.ItemID == 0 {
			continue
		}
		if c.ItemAmount(ing.ItemID) < ing.Amount {
			return
		}
	}
	if c.CanHold(m.deps.Items, itemID, w.MaxItem) == 0 {
		return
	}
	for _, ing := range cr.Ingredients {
		if ing.ItemID == 0 {
			continue
		}
		c.DelItem(ing.ItemID, ing.Amount)
	}
	c.AddItem(itemID, 1, w.MaxItem)
	c.SessionID = newSessionID()
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionCreate, packet.FamilyShop).
		AddShort(itemID)
	for i := 0; i < 4; i++ {
		if i < len(cr.Ingredients) && cr.Ingredients[i].ItemID != 0 {
			reply.AddShort(cr.Ingredients[i].ItemID).
				AddInt(c.ItemAmount(cr.Ingredients[i].ItemID))
		} else {
			reply.AddShort(0).AddInt(0)
		}
	}
	m.weightFragment(reply, c)
	reply.AddThree(c.SessionID)
	c.Send(reply.Bytes())
}
