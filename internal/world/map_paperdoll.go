package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// EquipItem moves an inventory item onto the paperdoll. subLoc picks the
// alternate slot for paired types (rings, armlets, bracers).
func (m *Map) EquipItem(playerID, itemID, subLoc int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	rec := m.deps.Items.Get(itemID)
	if rec == nil || !rec.Equippable() || c.ItemAmount(itemID) == 0 {
		return
	}
	if rec.LevelReq > 0 && c.Level < rec.LevelReq {
		return
	}
	if rec.ClassReq > 0 && c.Class != rec.ClassReq {
		return
	}
	slot := c.SlotForItem(rec)
	if slot < 0 {
		return
	}
	if subLoc == 1 {
		switch slot {
		case SlotRing1:
			slot = SlotRing2
		case SlotArmlet1:
			slot = SlotArmlet2
		case SlotBracer1:
			slot = SlotBracer2
		}
	}
	if c.Paperdoll[slot] != 0 {
		return
	}
	c.DelItem(itemID, 1)
	c.Paperdoll[slot] = itemID
	c.Recalculate(m.deps.Items, m.deps.Classes)
	c.MarkDirty()

	c.Send(m.paperdollChangePacket(c, packet.ActionAgree, itemID, subLoc))
	if !c.Hidden && rec.VisibleOnAvatar() {
		m.sendInRange(c.X, c.Y, playerID, m.avatarChangePacket(c))
	}
}

// UnequipItem returns a paperdoll item to inventory. Cursed items stay on.
func (m *Map) UnequipItem(playerID, itemID, subLoc int) {
	c := m.characters[playerID]
	if c == nil || c.Trading {
		return
	}
	rec := m.deps.Items.Get(itemID)
	if rec == nil {
		return
	}
	if rec.Special == data.SpecialCursed {
		return
	}
	slot := -1
	for i, id := range c.Paperdoll {
		if id != itemID {
			continue
		}
		slot = i
		if subLoc == 0 {
			break
		}
		subLoc-- // second matching slot requested
	}
	if slot < 0 {
		return
	}
	if c.AddItem(itemID, 1, m.deps.World().MaxItem) == 0 {
		return
	}
	c.Paperdoll[slot] = 0
	c.Recalculate(m.deps.Items, m.deps.Classes)
	c.MarkDirty()

	c.Send(m.paperdollChangePacket(c, packet.ActionRemove, itemID, subLoc))
	if !c.Hidden && rec.VisibleOnAvatar() {
		m.sendInRange(c.X, c.Y, playerID, m.avatarChangePacket(c))
	}
}

// paperdollChangePacket carries the equip/unequip result: changed item,
// avatar block and the stats the change shifted.
func (m *Map) paperdollChangePacket(c *Character, action packet.Action, itemID, subLoc int) []byte {
	w := packet.NewWriter(action, packet.FamilyPaperdoll).
		AddShort(c.PlayerID)
	for _, slot := range avatarSlots {
		w.AddShort(m.dollGraphic(c.Paperdoll[slot]))
	}
	w.AddShort(itemID).
		AddThree(c.ItemAmount(itemID)).
		AddChar(subLoc).
		AddShort(c.Stats.MaxHP).
		AddShort(c.Stats.MaxTP).
		AddShort(c.Stats.MinDam).
		AddShort(c.Stats.MaxDam).
		AddShort(c.Stats.Accuracy).
		AddShort(c.Stats.Evade).
		AddShort(c.Stats.Armor)
	return w.Bytes()
}

// PaperdollRequest shows another player's equipment.
func (m *Map) PaperdollRequest(playerID, targetID int) {
	c := m.characters[playerID]
	target := m.characters[targetID]
	if c == nil || target == nil || target.Hidden {
		return
	}
	w := packet.NewWriter(packet.ActionReply, packet.FamilyPaperdoll).
		AddBreakString(target.Name).
		AddBreakString(target.Home).
		AddBreakString(target.Partner).
		AddBreakString(target.Title).
		AddBreakString(target.GuildTag).
		AddBreakString(target.GuildRankString).
		AddShort(target.PlayerID).
		AddChar(target.Class).
		AddChar(target.Gender)
	for _, id := range target.Paperdoll {
		w.AddShort(id)
	}
	w.AddChar(int(target.AdminLevel))
	c.Send(w.Bytes())
}

// TrainStat spends one stat point on a base stat.
func (m *Map) TrainStat(playerID, statID int) {
	c := m.characters[playerID]
	if c == nil || c.StatPoints <= 0 {
		return
	}
	switch statID {
	case 1:
		c.Str++
	case 2:
		c.Intl++
	case 3:
		c.Wis++
	case 4:
		c.Agi++
	case 5:
		c.Con++
	case 6:
		c.Cha++
	default:
		return
	}
	c.StatPoints--
	c.Recalculate(m.deps.Items, m.deps.Classes)
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionPlayer, packet.FamilyStatSkill).
		AddShort(c.StatPoints).
		AddShort(c.Str).
		AddShort(c.Intl).
		AddShort(c.Wis).
		AddShort(c.Agi).
		AddShort(c.Con).
		AddShort(c.Cha).
		AddShort(c.Stats.MaxHP).
		AddShort(c.Stats.MaxTP).
		AddShort(c.Stats.MaxSP).
		AddShort(c.Stats.MaxWeight).
		AddShort(c.Stats.MinDam).
		AddShort(c.Stats.MaxDam).
		AddShort(c.Stats.Accuracy).
		AddShort(c.Stats.Evade).
		AddShort(c.Stats.Armor).
		Bytes())
}

// OpenSkillMaster begins a skill-master dialog, issuing a fresh nonce.
func (m *Map) OpenSkillMaster(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || n == nil || n.Record.Type != data.NpcSkills {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	master := m.deps.SkillMasters.ByVendor(n.Record.VendorID)
	if master == nil {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	w := packet.NewWriter(packet.ActionOpen, packet.FamilyStatSkill).
		AddShort(c.SessionID).
		AddBreakString(master.Name)
	for _, sk := range master.Skills {
		w.AddShort(sk.SpellID).
			AddChar(sk.LevelReq).
			AddChar(sk.ClassReq).
			AddInt(sk.Price).
			AddShort(sk.SkillReqs[0]).
			AddShort(sk.SkillReqs[1]).
			AddShort(sk.SkillReqs[2]).
			AddShort(sk.SkillReqs[3]).
			AddShort(sk.StrReq).
			AddShort(sk.IntReq).
			AddShort(sk.WisReq).
			AddShort(sk.AgiReq).
			AddShort(sk.ConReq).
			AddShort(sk.ChaReq)
	}
	c.Send(w.Bytes())
}

// LearnSkill buys a spell from the open skill master.
func (m *Map) LearnSkill(playerID, sessionID, spellID int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcSkills {
		return
	}
	master := m.deps.SkillMasters.ByVendor(n.Record.VendorID)
	if master == nil {
		return
	}
	sk := master.FindSkill(spellID)
	if sk == nil || c.HasSpell(spellID) {
		return
	}
	if c.Level < sk.LevelReq || (sk.ClassReq > 0 && c.Class != sk.ClassReq) {
		return
	}
	for _, req := range sk.SkillReqs {
		if req > 0 && !c.HasSpell(req) {
			return
		}
	}
	if c.Str < sk.StrReq || c.Intl < sk.IntReq || c.Wis < sk.WisReq ||
		c.Agi < sk.AgiReq || c.Con < sk.ConReq || c.Cha < sk.ChaReq {
		return
	}
	if c.ItemAmount(GoldItemID) < sk.Price {
		return
	}
	c.DelItem(GoldItemID, sk.Price)
	c.AddSpell(spellID)
	c.SessionID = newSessionID() // dialog stays open for further purchases
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionTake, packet.FamilyStatSkill).
		AddShort(c.SessionID).
		AddInt(c.ItemAmount(GoldItemID)).
		Bytes())
}

// ResetStats refunds every trained stat point and forgets all spells at
// the skill master.
func (m *Map) ResetStats(playerID, sessionID int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcSkills {
		return
	}
	c.StatPoints += c.Str + c.Intl + c.Wis + c.Agi + c.Con + c.Cha
	c.Str, c.Intl, c.Wis, c.Agi, c.Con, c.Cha = 0, 0, 0, 0, 0, 0
	c.Spells = c.Spells[:0]
	c.Recalculate(m.deps.Items, m.deps.Classes)
	if c.HP > c.Stats.MaxHP {
		c.HP = c.Stats.MaxHP
	}
	if c.TP > c.Stats.MaxTP {
		c.TP = c.Stats.MaxTP
	}
	c.SessionID = newSessionID()
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionJunk, packet.FamilyStatSkill).
		AddShort(c.SessionID).
		AddShort(c.StatPoints).
		AddShort(c.SkillPoints).
		AddShort(c.HP).
		AddShort(c.Stats.MaxHP).
		AddShort(c.TP).
		AddShort(c.Stats.MaxTP).
		AddShort(c.Stats.MaxSP).
		AddShort(c.Str).
		AddShort(c.Intl).
		AddShort(c.Wis).
		AddShort(c.Agi).
		AddShort(c.Con).
		AddShort(c.Cha).
		AddShort(c.Stats.MinDam).
		AddShort(c.Stats.MaxDam).
		AddShort(c.Stats.Accuracy).
		AddShort(c.Stats.Evade).
		AddShort(c.Stats.Armor).
		Bytes())
}

// ForgetSkill drops a learned spell at the skill master.
func (m *Map) ForgetSkill(playerID, sessionID, spellID int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcSkills {
		return
	}
	if !c.DelSpell(spellID) {
		return
	}
	c.SessionID = newSessionID()
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionRemove, packet.FamilyStatSkill).
		AddShort(c.SessionID).
		AddShort(spellID).
		Bytes())
}
