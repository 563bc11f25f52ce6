package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// innFor resolves the inn behind the character's current NPC dialog.
func (m *Map) innFor(c *Character) *data.Inn {
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcInn {
		return nil
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return nil
	}
	return m.deps.Inns.ByVendor(n.Record.VendorID)
}

// OpenInn starts an innkeeper dialog.
func (m *Map) OpenInn(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || c.Trading || n == nil || n.Record.Type != data.NpcInn {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	inn := m.deps.Inns.ByVendor(n.Record.VendorID)
	if inn == nil {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	w := packet.NewWriter(packet.ActionOpen, packet.FamilyCitizen).
		AddShort(c.SessionID).
		AddBreakString(inn.Name)
	for _, q := range inn.Questions {
		w.AddBreakString(q.Question)
	}
	c.Send(w.Bytes())
}

// AnswerInn submits the three citizenship answers; zero wrong answers sets
// the character's home.
func (m *Map) AnswerInn(playerID, sessionID int, answers []string) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	inn := m.innFor(c)
	if inn == nil {
		return
	}
	wrong := inn.AnswersMatch(answers)
	if wrong == 0 {
		c.Home = inn.Name
		c.MarkDirty()
	}
	c.Send(packet.NewWriter(packet.ActionReply, packet.FamilyCitizen).
		AddChar(wrong).
		Bytes())
}

// LeaveInn clears the character's citizenship at its current home inn.
func (m *Map) LeaveInn(playerID int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	inn := m.innFor(c)
	if inn == nil || !equalFold(c.Home, inn.Name) {
		return
	}
	c.Home = ""
	c.MarkDirty()
	c.Send(packet.NewWriter(packet.ActionRemove, packet.FamilyCitizen).
		AddChar(1).
		Bytes())
}

// QuoteSleep prices a night at the inn. The quote scales with level and is
// remembered for the accept step.
func (m *Map) QuoteSleep(playerID, sessionID int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	inn := m.innFor(c)
	if inn == nil {
		return
	}
	cost := m.deps.World().SleepCostBase * c.Level
	if cost <= 0 {
		cost = m.deps.World().SleepCostBase
	}
	c.SleepCost = cost
	c.SessionID = newSessionID()
	c.Send(packet.NewWriter(packet.ActionRequest, packet.FamilyCitizen).
		AddShort(c.SessionID).
		AddInt(cost).
		Bytes())
}

// Sleep pays the quoted price, fully recovers, and wakes the character in
// the inn's sleeping room.
func (m *Map) Sleep(playerID, sessionID int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	inn := m.innFor(c)
	if inn == nil || c.SleepCost <= 0 {
		return
	}
	if c.ItemAmount(GoldItemID) < c.SleepCost {
		return
	}
	c.DelItem(GoldItemID, c.SleepCost)
	c.SleepCost = 0
	c.HP = c.Stats.MaxHP
	c.TP = c.Stats.MaxTP
	c.MarkDirty()

	c.Send(packet.NewWriter(packet.ActionAccept, packet.FamilyCitizen).
		AddInt(c.ItemAmount(GoldItemID)).
		Bytes())
	if c.Client != nil {
		c.Client.RequestWarp(inn.SleepMap, inn.SleepX, inn.SleepY, inn.SleepMap == m.ID)
	}
}
