package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// tickEffects drives the timed map effects: hp/tp drains, quakes and the
// evacuation countdown.
func (m *Map) tickEffects() {
	w := m.deps.World()

	switch m.File.TimedEffect {
	case data.EffectHPDrain, data.EffectTPDrain:
		// Drains fire on the recover cadence so the two rates oppose.
		if w.RecoverRate > 0 && m.tick%w.RecoverRate == 0 {
			m.applyDrain(m.File.TimedEffect)
		}
	}

	if idx := m.File.TimedEffect.QuakeStrength(); idx >= 0 {
		// A config array shorter than the effect range disables the quake.
		if idx < len(w.QuakeRates) && w.QuakeRates[idx] > 0 {
			m.quakeTicks++
			if m.quakeTicks >= w.QuakeRates[idx] {
				m.quakeTicks = 0
				m.sendAll(packet.NewWriter(packet.ActionUse, packet.FamilyEffect).
					AddChar(1).
					AddChar(idx + 1).
					Bytes())
			}
		}
	}

	if m.evacuateTicks > 0 {
		m.evacuateTicks--
		switch {
		case m.evacuateTicks == 0:
			for _, c := range m.characters {
				if c.AdminLevel >= AdminGuardian || c.Client == nil {
					continue
				}
				c.Client.RequestWarp(w.JailMap, w.JailX, w.JailY, false)
			}
		case m.evacuateTicks%10 == 0 || m.evacuateTicks < 10:
			m.sendAll(packet.NewWriter(packet.ActionSpec, packet.FamilyEffect).
				AddChar(m.evacuateTicks).
				Bytes())
		}
	}
}

// applyDrain hurts every character on the map by a fraction of its maximum,
// never below one hit point.
func (m *Map) applyDrain(effect data.MapEffect) {
	w := m.deps.World()
	for _, c := range m.characters {
		switch effect {
		case data.EffectHPDrain:
			damage := int(float64(c.Stats.MaxHP) * w.DrainHPDamage)
			if damage >= c.HP {
				damage = c.HP - 1
			}
			if damage <= 0 {
				continue
			}
			c.HP -= damage
			c.Send(packet.NewWriter(packet.ActionSpec, packet.FamilyEffect).
				AddChar(int(effect)).
				AddShort(damage).
				AddShort(c.HP).
				AddShort(c.Stats.MaxHP).
				Bytes())
			if !c.Hidden {
				m.sendInRange(c.X, c.Y, c.PlayerID, packet.NewWriter(packet.ActionAdmin, packet.FamilyEffect).
					AddShort(c.PlayerID).
					AddChar(c.hpPercent()).
					AddChar(0).
					AddShort(damage).
					Bytes())
			}
		case data.EffectTPDrain:
			damage := int(float64(c.Stats.MaxTP) * w.DrainTPDamage)
			if damage >= c.TP {
				damage = c.TP
			}
			if damage <= 0 {
				continue
			}
			c.TP -= damage
			c.Send(packet.NewWriter(packet.ActionSpec, packet.FamilyEffect).
				AddChar(int(effect)).
				AddShort(damage).
				AddShort(c.TP).
				AddShort(c.Stats.MaxTP).
				Bytes())
		}
	}
}

// StartEvacuate begins the admin-triggered evacuation countdown.
func (m *Map) StartEvacuate() {
	w := m.deps.World()
	if w.EvacuateTicks <= 0 || m.evacuateTicks > 0 {
		return
	}
	m.evacuateTicks = w.EvacuateTicks
	m.sendAll(packet.NewWriter(packet.ActionSpec, packet.FamilyEffect).
		AddChar(m.evacuateTicks).
		Bytes())
}

// checkSpikes hurts a character that stepped onto a spike tile.
func (m *Map) checkSpikes(c *Character) {
	spec, ok := m.File.Spec(c.X, c.Y)
	if !ok || spec != data.TileSpikes {
		return
	}
	damage := c.Stats.MaxHP / 5
	if damage >= c.HP {
		damage = c.HP - 1
	}
	if damage <= 0 {
		return
	}
	c.HP -= damage
	c.MarkDirty()
	c.Send(packet.NewWriter(packet.ActionSpec, packet.FamilyEffect).
		AddChar(2). // spike code
		AddShort(damage).
		AddShort(c.HP).
		AddShort(c.Stats.MaxHP).
		Bytes())
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, c.PlayerID, packet.NewWriter(packet.ActionAdmin, packet.FamilyEffect).
			AddShort(c.PlayerID).
			AddChar(c.hpPercent()).
			AddChar(0).
			AddShort(damage).
			Bytes())
	}
}
