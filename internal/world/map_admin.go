package world

import (
	"github.com/eogo/server/internal/net/packet"
)

// ToggleHidden flips admin invisibility. Hidden characters are skipped by
// broadcasts, walk-blocking and NPC targeting.
func (m *Map) ToggleHidden(playerID int) {
	c := m.characters[playerID]
	if c == nil || c.AdminLevel < AdminGuardian {
		return
	}
	if c.Hidden {
		c.Hidden = false
		m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionAgree, packet.FamilyAdminInteract).
			AddShort(playerID).
			Bytes())
		m.sendInRange(c.X, c.Y, playerID, m.appearPacket(c))
	} else {
		c.Hidden = true
		m.sendInRange(c.X, c.Y, playerID, packet.NewWriter(packet.ActionRemove, packet.FamilyAdminInteract).
			AddShort(playerID).
			Bytes())
	}
	c.MarkDirty()
}

// GrantExp awards experience outside of combat, used for captcha rewards.
func (m *Map) GrantExp(playerID, amount int) {
	c := m.characters[playerID]
	if c == nil || amount <= 0 {
		return
	}
	if m.grantExp(c, int64(amount)) {
		m.sendLevelUp(c)
	} else {
		c.Send(packet.NewWriter(packet.ActionTargetSelf, packet.FamilyRecover).
			AddInt(int(c.Exp)).
			AddShort(c.Karma).
			AddChar(0).
			Bytes())
	}
}
