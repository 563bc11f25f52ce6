package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// OpenBarber starts a barber dialog.
func (m *Map) OpenBarber(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || c.Trading || n == nil || n.Record.Type != data.NpcBarber {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	c.Send(packet.NewWriter(packet.ActionOpen, packet.FamilyBarber).
		AddInt(c.SessionID).
		Bytes())
}

// barberPrice climbs with character level so high-level restyles sink gold.
func (m *Map) barberPrice(level int) int {
	w := m.deps.World()
	return w.BarberBase + level*w.BarberStep
}

// BuyHairstyle applies a new hair style and color for the level-scaled fee.
func (m *Map) BuyHairstyle(playerID, sessionID, style, color int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcBarber {
		return
	}
	if style < 0 || style > 20 || color < 0 || color > 9 {
		return
	}
	price := m.barberPrice(c.Level)
	if c.ItemAmount(GoldItemID) < price {
		return
	}
	c.DelItem(GoldItemID, price)
	c.HairStyle = style
	c.HairColor = color
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionBuy, packet.FamilyBarber).
		AddInt(c.ItemAmount(GoldItemID)).
		Bytes())
	if !c.Hidden {
		m.sendInRange(c.X, c.Y, 0, packet.NewWriter(packet.ActionAgree, packet.FamilyAvatar).
			AddShort(c.PlayerID).
			AddChar(2). // change kind: hair
			AddChar(style).
			AddChar(color).
			Bytes())
	}
}
