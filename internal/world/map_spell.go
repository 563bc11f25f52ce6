package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// castable resolves a learned, affordable spell or nil.
func (m *Map) castable(c *Character, spellID int) *data.Spell {
	if c == nil || c.Trading || c.SitState != Standing {
		return nil
	}
	sp := m.deps.Spells.Get(spellID)
	if sp == nil || !c.HasSpell(spellID) || c.TP < sp.TP {
		return nil
	}
	return sp
}

// BeginCast announces the chant to nearby observers.
func (m *Map) BeginCast(playerID, spellID int) {
	c := m.characters[playerID]
	if m.castable(c, spellID) == nil {
		return
	}
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionRequest, packet.FamilySpell).
			AddShort(playerID).
			AddShort(spellID).
			Bytes())
	}
}

// CastSelf casts a self-targeted heal.
func (m *Map) CastSelf(playerID, spellID int) {
	c := m.characters[playerID]
	sp := m.castable(c, spellID)
	if sp == nil || sp.Target != data.TargetSelf || sp.Kind != data.SpellHeal {
		return
	}
	c.TP -= sp.TP
	healed := m.healCharacter(c, sp.HP)

	body := packet.NewWriter(packet.ActionTargetSelf, packet.FamilySpell).
		AddShort(playerID).
		AddShort(spellID).
		AddInt(healed).
		AddChar(c.hpPercent()).
		Bytes()
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, playerID, body)
	}
	c.Send(packet.NewWriter(packet.ActionTargetSelf, packet.FamilySpell).
		AddShort(playerID).
		AddShort(spellID).
		AddInt(healed).
		AddChar(c.hpPercent()).
		AddShort(c.HP).
		AddShort(c.TP).
		Bytes())
	c.MarkDirty()
}

// CastTargetNpc casts a damage spell at an NPC.
func (m *Map) CastTargetNpc(playerID, spellID, npcIndex int) {
	c := m.characters[playerID]
	sp := m.castable(c, spellID)
	if sp == nil || sp.Target != data.TargetNormal || sp.Kind != data.SpellDamage {
		return
	}
	n := m.Npc(npcIndex)
	if n == nil || !n.Record.Type.Fightable() {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	c.TP -= sp.TP
	c.Send(recoverPacket(c))
	m.hitNpc(c, n, m.rollDamage(sp.MinDam, sp.MaxDam, sp.Accur+c.Stats.Accuracy, n.Record.Evade))
	c.MarkDirty()
}

// CastGroup casts a party-wide heal hitting every member on this map.
func (m *Map) CastGroup(playerID, spellID int) {
	c := m.characters[playerID]
	sp := m.castable(c, spellID)
	if sp == nil || sp.Target != data.TargetGroup || sp.Kind != data.SpellHeal {
		return
	}
	if m.world == nil {
		return
	}
	members := m.world.PartyMemberIDs(playerID)
	if len(members) == 0 {
		return
	}
	c.TP -= sp.TP

	w := packet.NewWriter(packet.ActionTargetGroup, packet.FamilySpell).
		AddShort(spellID).
		AddShort(playerID).
		AddShort(c.TP).
		AddShort(sp.HP)
	var healedMembers []*Character
	for _, pid := range members {
		t := m.characters[pid]
		if t == nil {
			continue
		}
		m.healCharacter(t, sp.HP)
		healedMembers = append(healedMembers, t)
		w.AddByte(packet.Break).
			AddShort(t.PlayerID).
			AddChar(t.hpPercent()).
			AddShort(t.HP)
	}
	body := w.Bytes()
	for _, t := range healedMembers {
		t.Send(body)
		t.MarkDirty()
	}
	c.MarkDirty()
}

// healCharacter raises hp up to the maximum, returning the applied amount.
func (m *Map) healCharacter(c *Character, amount int) int {
	if amount > c.Stats.MaxHP-c.HP {
		amount = c.Stats.MaxHP - c.HP
	}
	if amount < 0 {
		amount = 0
	}
	c.HP += amount
	return amount
}

func (c *Character) hpPercent() int {
	if c.Stats.MaxHP <= 0 {
		return 0
	}
	return c.HP * 100 / c.Stats.MaxHP
}
