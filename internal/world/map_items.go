package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// addGroundItem inserts a stack at the lowest free index in [1, 64000].
func (m *Map) addGroundItem(id, amount, x, y, ownerID, protectTicks int) *GroundItem {
	idx := m.nextItemIndex
	for {
		idx++
		if idx > 64000 {
			idx = 1
		}
		if _, taken := m.items[idx]; !taken {
			break
		}
		if idx == m.nextItemIndex {
			return nil // 64000 stacks on one map; give up
		}
	}
	m.nextItemIndex = idx
	it := &GroundItem{
		Index:        idx,
		ID:           id,
		Amount:       amount,
		X:            x,
		Y:            y,
		OwnerID:      ownerID,
		ProtectTicks: protectTicks,
		DecayTicks:   m.deps.World().ItemDecayTicks,
	}
	m.items[idx] = it
	return it
}

// DropItem moves a stack from inventory to the ground.
func (m *Map) DropItem(playerID, itemID, amount, x, y int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 || c.Trading {
		return
	}
	if m.ID == m.deps.World().JailMap && c.AdminLevel < AdminGuardian {
		return
	}
	rec := m.deps.Items.Get(itemID)
	if rec == nil || rec.Special == data.SpecialLore {
		return
	}
	// Coords 255,255 mean "at my feet" on the wire.
	if x == 255 && y == 255 {
		x, y = c.X, c.Y
	}
	w := m.deps.World()
	if pathDistance(c.X, c.Y, x, y) > w.DropDistance {
		return
	}
	if !m.File.Walkable(x, y) {
		return
	}
	if have := c.ItemAmount(itemID); amount > have {
		amount = have
	}
	if amount == 0 {
		return
	}

	// Merge onto an existing same-id stack on the tile when there is one.
	var it *GroundItem
	for _, g := range m.items {
		if g.X == x && g.Y == y && g.ID == itemID {
			it = g
			break
		}
	}
	if it != nil {
		if it.Amount+amount > w.MaxItem {
			amount = w.MaxItem - it.Amount
		}
		if amount <= 0 {
			return
		}
		c.DelItem(itemID, amount)
		it.Amount += amount
		it.OwnerID = playerID
		it.ProtectTicks = w.ProtectPlayerDrop
		it.DecayTicks = w.ItemDecayTicks
	} else {
		it = m.addGroundItem(itemID, amount, x, y, playerID, w.ProtectPlayerDrop)
		if it == nil {
			return
		}
		c.DelItem(itemID, amount)
	}
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionDrop, packet.FamilyItem).
		AddShort(itemID).
		AddThree(amount).
		AddInt(c.ItemAmount(itemID)).
		AddShort(it.Index).
		AddChar(it.X).
		AddChar(it.Y)
	m.weightFragment(reply, c)
	c.Send(reply.Bytes())

	m.sendInRange(x, y, playerID, itemAddPacket(it))
}

// GetItem picks a ground stack up, honoring owner protection and capacity.
func (m *Map) GetItem(playerID, itemIndex int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	it := m.items[itemIndex]
	if it == nil {
		return
	}
	w := m.deps.World()
	if pathDistance(c.X, c.Y, it.X, it.Y) > w.DropDistance {
		return
	}
	if it.ProtectTicks > 0 && it.OwnerID != playerID {
		return
	}
	take := c.CanHold(m.deps.Items, it.ID, w.MaxItem)
	if take > it.Amount {
		take = it.Amount
	}
	if take == 0 {
		return
	}
	c.AddItem(it.ID, take, w.MaxItem)
	c.MarkDirty()

	reply := packet.NewWriter(packet.ActionGet, packet.FamilyItem).
		AddShort(itemIndex).
		AddShort(it.ID).
		AddThree(take)
	m.weightFragment(reply, c)
	c.Send(reply.Bytes())

	if take == it.Amount {
		delete(m.items, itemIndex)
		m.sendInRange(it.X, it.Y, playerID, itemRemovePacket(itemIndex))
	} else {
		it.Amount -= take
		m.sendInRange(it.X, it.Y, playerID, itemRemovePacket(itemIndex))
		m.sendInRange(it.X, it.Y, playerID, itemAddPacket(it))
	}
}

// JunkItem destroys part of an inventory stack.
func (m *Map) JunkItem(playerID, itemID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 || c.Trading {
		return
	}
	removed := c.DelItem(itemID, amount)
	if removed == 0 {
		return
	}
	c.MarkDirty()
	reply := packet.NewWriter(packet.ActionJunk, packet.FamilyItem).
		AddShort(itemID).
		AddThree(removed).
		AddInt(c.ItemAmount(itemID))
	m.weightFragment(reply, c)
	c.Send(reply.Bytes())
}

// UseItem consumes one of a usable item and applies its effect.
func (m *Map) UseItem(playerID, itemID int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	rec := m.deps.Items.Get(itemID)
	if rec == nil || c.ItemAmount(itemID) == 0 {
		return
	}

	reply := packet.NewWriter(packet.ActionReply, packet.FamilyItem).
		AddChar(int(rec.Type))

	switch rec.Type {
	case data.ItemHeal:
		healed := rec.HP
		if c.HP+healed > c.Stats.MaxHP {
			healed = c.Stats.MaxHP - c.HP
		}
		tpHealed := rec.TP
		if c.TP+tpHealed > c.Stats.MaxTP {
			tpHealed = c.Stats.MaxTP - c.TP
		}
		if healed == 0 && tpHealed == 0 {
			return
		}
		c.HP += healed
		c.TP += tpHealed
		c.DelItem(itemID, 1)
		reply.AddShort(itemID).
			AddInt(c.ItemAmount(itemID))
		m.weightFragment(reply, c)
		reply.AddShort(c.HP).AddShort(c.TP)
		if !c.Hidden {
			m.sendInRange(c.X, c.Y, playerID, hpGroupPacket(c))
		}

	case data.ItemTeleport:
		// Scroll destination rides in the item record's spec fields.
		if c.Client == nil {
			return
		}
		c.DelItem(itemID, 1)
		reply.AddShort(itemID).
			AddInt(c.ItemAmount(itemID))
		m.weightFragment(reply, c)
		c.Send(reply.Bytes())
		c.Client.RequestWarp(rec.Spec1, rec.Spec2, rec.Spec3, rec.Spec1 == m.ID)
		c.MarkDirty()
		return

	case data.ItemEXPReward:
		c.DelItem(itemID, 1)
		leveled := m.grantExp(c, int64(rec.Spec1))
		reply.AddShort(itemID).
			AddInt(c.ItemAmount(itemID))
		m.weightFragment(reply, c)
		reply.AddChar(boolChar(leveled)).
			AddInt(int(c.Exp)).
			AddChar(c.Level).
			AddShort(c.StatPoints).
			AddShort(c.SkillPoints).
			AddShort(c.Stats.MaxHP).
			AddShort(c.Stats.MaxTP).
			AddShort(c.Stats.MaxSP)

	case data.ItemStatReward:
		c.DelItem(itemID, 1)
		c.Str += rec.Spec1
		c.Recalculate(m.deps.Items, m.deps.Classes)
		reply.AddShort(itemID).
			AddInt(c.ItemAmount(itemID))
		m.weightFragment(reply, c)
		reply.AddShort(c.Str).
			AddShort(c.Intl).
			AddShort(c.Wis).
			AddShort(c.Agi).
			AddShort(c.Con).
			AddShort(c.Cha)

	case data.ItemCureCurse:
		removedAny := false
		for slot, id := range c.Paperdoll {
			if id == 0 {
				continue
			}
			if eq := m.deps.Items.Get(id); eq != nil && eq.Special == data.SpecialCursed {
				c.Paperdoll[slot] = 0
				removedAny = true
			}
		}
		if !removedAny {
			return
		}
		c.DelItem(itemID, 1)
		c.Recalculate(m.deps.Items, m.deps.Classes)
		reply.AddShort(itemID).
			AddInt(c.ItemAmount(itemID))
		m.weightFragment(reply, c)
		reply.AddShort(c.Stats.MaxHP).
			AddShort(c.Stats.MaxTP).
			AddShort(c.Stats.MinDam).
			AddShort(c.Stats.MaxDam).
			AddShort(c.Stats.Accuracy).
			AddShort(c.Stats.Evade).
			AddShort(c.Stats.Armor)
		if !c.Hidden {
			m.sendInRange(c.X, c.Y, playerID, m.avatarChangePacket(c))
		}

	default:
		return
	}

	c.MarkDirty()
	c.Send(reply.Bytes())
}

// tickItems ages protection locks and decays forgotten drops.
func (m *Map) tickItems() {
	for idx, it := range m.items {
		if it.ProtectTicks > 0 {
			it.ProtectTicks--
		}
		if it.DecayTicks > 0 {
			it.DecayTicks--
			if it.DecayTicks == 0 {
				delete(m.items, idx)
				m.sendInRange(it.X, it.Y, 0, itemRemovePacket(idx))
			}
		}
	}
}
