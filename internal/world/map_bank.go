package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// OpenBank starts a gold-bank dialog with a banker NPC.
func (m *Map) OpenBank(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || c.Trading || n == nil || n.Record.Type != data.NpcBank {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	c.Send(packet.NewWriter(packet.ActionOpen, packet.FamilyBank).
		AddInt(c.GoldBank).
		AddThree(c.SessionID).
		AddChar(c.BankLevel).
		Bytes())
}

// BankDeposit moves inventory gold into the bank, clamped by holdings and
// by the bank cap.
func (m *Map) BankDeposit(playerID, sessionID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 || !consumeSession(c, sessionID) {
		return
	}
	if m.Npc(c.InteractNpcIndex) == nil {
		return
	}
	w := m.deps.World()
	if have := c.ItemAmount(GoldItemID); amount > have {
		amount = have
	}
	if room := w.MaxBankGold - c.GoldBank; amount > room {
		amount = room
	}
	if amount <= 0 {
		return
	}
	c.DelItem(GoldItemID, amount)
	c.GoldBank += amount
	c.SessionID = newSessionID()
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionReply, packet.FamilyBank).
		AddInt(c.ItemAmount(GoldItemID)).
		AddInt(c.GoldBank).
		AddThree(c.SessionID).
		Bytes())
}

// BankWithdraw moves banked gold back to inventory.
func (m *Map) BankWithdraw(playerID, sessionID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 || !consumeSession(c, sessionID) {
		return
	}
	if m.Npc(c.InteractNpcIndex) == nil {
		return
	}
	w := m.deps.World()
	if amount > c.GoldBank {
		amount = c.GoldBank
	}
	if room := w.MaxItem - c.ItemAmount(GoldItemID); amount > room {
		amount = room
	}
	if amount <= 0 {
		return
	}
	c.GoldBank -= amount
	c.AddItem(GoldItemID, amount, w.MaxItem)
	c.SessionID = newSessionID()
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionTake, packet.FamilyBank).
		AddInt(c.ItemAmount(GoldItemID)).
		AddInt(c.GoldBank).
		AddThree(c.SessionID).
		Bytes())
}

// ── Locker ─────────────────────────────────────────────────────────

// OpenLocker lists the character's stored items at a bank-vault tile.
func (m *Map) OpenLocker(playerID, x, y int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	if !m.vaultAdjacent(c, x, y) {
		return
	}
	w := packet.NewWriter(packet.ActionOpen, packet.FamilyLocker).
		AddChar(x).
		AddChar(y)
	lockerFragment(w, c)
	c.Send(w.Bytes())
}

// LockerAdd stores an inventory stack in the locker.
func (m *Map) LockerAdd(playerID, x, y, itemID, amount int) {
	c := m.characters[playerID]
	if c == nil || c.Trading || amount <= 0 || itemID == GoldItemID {
		return
	}
	if !m.vaultAdjacent(c, x, y) {
		return
	}
	w := m.deps.World()
	if have := c.ItemAmount(itemID); amount > have {
		amount = have
	}
	if amount == 0 {
		return
	}
	size := c.BankSize(w.BaseBankSize, w.BankSizeStep)
	if c.BankAmount(itemID) == 0 && len(c.BankItems) >= size {
		// Locker full. The reply echoes current contents unchanged.
		reply := packet.NewWriter(packet.ActionSpec, packet.FamilyLocker).
			AddChar(c.BankLevel)
		c.Send(reply.Bytes())
		return
	}
	added := c.AddBankItem(itemID, amount, w.MaxItem)
	if added == 0 {
		return
	}
	c.DelItem(itemID, added)
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionReply, packet.FamilyLocker).
		AddShort(itemID).
		AddInt(c.ItemAmount(itemID))
	m.weightFragment(reply, c)
	lockerFragment(reply, c)
	c.Send(reply.Bytes())
}

// LockerTake retrieves one full stack from the locker.
func (m *Map) LockerTake(playerID, x, y, itemID int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	if !m.vaultAdjacent(c, x, y) {
		return
	}
	w := m.deps.World()
	stored := c.BankAmount(itemID)
	if stored == 0 {
		return
	}
	take := c.CanHold(m.deps.Items, itemID, w.MaxItem)
	if take > stored {
		take = stored
	}
	if take == 0 {
		return
	}
	c.DelBankItem(itemID, take)
	c.AddItem(itemID, take, w.MaxItem)
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionGet, packet.FamilyLocker).
		AddShort(itemID).
		AddThree(take)
	m.weightFragment(reply, c)
	lockerFragment(reply, c)
	c.Send(reply.Bytes())
}

// BuyLockerUpgrade raises the locker capacity for a gold price that climbs
// with each level.
func (m *Map) BuyLockerUpgrade(playerID, sessionID int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	if m.Npc(c.InteractNpcIndex) == nil {
		return
	}
	w := m.deps.World()
	if c.BankLevel >= w.BankUpgradeLimit {
		return
	}
	cost := w.BankUpgradeBaseCost + c.BankLevel*w.BankUpgradeCostStep
	if c.ItemAmount(GoldItemID) < cost {
		return
	}
	c.DelItem(GoldItemID, cost)
	c.BankLevel++
	c.SessionID = newSessionID()
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionBuy, packet.FamilyLocker).
		AddInt(c.ItemAmount(GoldItemID)).
		AddChar(c.BankLevel).
		AddThree(c.SessionID).
		Bytes())
}

func (m *Map) vaultAdjacent(c *Character, x, y int) bool {
	if pathDistance(c.X, c.Y, x, y) > 1 {
		return false
	}
	spec, ok := m.File.Spec(x, y)
	return ok && spec == data.TileBankVault
}

func lockerFragment(w *packet.Writer, c *Character) *packet.Writer {
	for _, it := range c.BankItems {
		w.AddShort(it.ID).AddThree(it.Amount)
	}
	return w
}
