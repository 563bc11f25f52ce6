package world

import (
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
)

// The quest engine walks characters through the states of the Lua-loaded
// quest scripts. Progress lives on the character; the scripts themselves
// are immutable.

// progressFor returns the character's live progress in a quest, or nil
// when not started.
func progressFor(c *Character, questID int) *QuestProgress {
	return c.Quests[questID]
}

// startQuest enters a quest at its first state.
func (m *Map) startQuest(c *Character, q *data.Quest) {
	first := q.FirstState()
	if first == nil {
		return
	}
	c.Quests[q.ID] = &QuestProgress{State: first.Name, Counters: map[string]int{}}
	m.enterQuestState(c, q, first)
	c.MarkDirty()
}

// enterQuestState applies a state's actions. Dialog text actions are
// deferred to the next TalkToQuestNpc; everything else applies now.
func (m *Map) enterQuestState(c *Character, q *data.Quest, st *data.QuestState) {
	prog := progressFor(c, q.ID)
	if prog == nil {
		return
	}
	for _, act := range st.Actions {
		switch act.Type {
		case data.ActionGiveItem:
			c.AddItem(act.ItemID, act.Amount, m.deps.World().MaxItem)
			reply := packet.NewWriter(packet.ActionGet, packet.FamilyItem).
				AddShort(0).
				AddShort(act.ItemID).
				AddThree(act.Amount)
			m.weightFragment(reply, c)
			c.Send(reply.Bytes())
		case data.ActionRemoveItem:
			c.DelItem(act.ItemID, act.Amount)
		case data.ActionGiveExp:
			if m.grantExp(c, int64(act.Amount)) {
				m.sendLevelUp(c)
			}
		case data.ActionQuake:
			m.sendAll(packet.NewWriter(packet.ActionUse, packet.FamilyEffect).
				AddChar(1).
				AddChar(act.Amount).
				Bytes())
		case data.ActionSetState:
			if next := q.State(act.State); next != nil && next != st {
				prog.State = next.Name
				prog.Counters = map[string]int{}
				m.enterQuestState(c, q, next)
				return
			}
		case data.ActionEnd:
			prog.Done = true
		}
	}
	// A bare done-rule completes immediately.
	for _, r := range st.Rules {
		if r.Type == data.RuleDone {
			prog.Done = true
		}
	}
	c.MarkDirty()
}

// advanceQuest moves progress to a rule's target state.
func (m *Map) advanceQuest(c *Character, q *data.Quest, r *data.QuestRule) {
	next := q.State(r.Goto)
	prog := progressFor(c, q.ID)
	if next == nil || prog == nil {
		return
	}
	prog.State = next.Name
	prog.Counters = map[string]int{}
	m.enterQuestState(c, q, next)
}

// currentRules iterates the live rules of every active quest.
func (m *Map) currentRules(c *Character, fn func(q *data.Quest, st *data.QuestState, r *data.QuestRule) bool) {
	for id, prog := range c.Quests {
		if prog.Done {
			continue
		}
		q := m.deps.Quests.Get(id)
		if q == nil {
			continue
		}
		st := q.State(prog.State)
		if st == nil {
			continue
		}
		for i := range st.Rules {
			if fn(q, st, &st.Rules[i]) {
				break
			}
		}
	}
}

// questNpcKilled counts kills toward killed_npcs rules.
func (m *Map) questNpcKilled(c *Character, npcID int) {
	if c == nil {
		return
	}
	m.currentRules(c, func(q *data.Quest, st *data.QuestState, r *data.QuestRule) bool {
		if r.Type != data.RuleKilledNpcs || r.NpcID != npcID {
			return false
		}
		prog := progressFor(c, q.ID)
		prog.Counters["kills"]++
		c.MarkDirty()
		if prog.Counters["kills"] >= r.Count {
			m.advanceQuest(c, q, r)
		}
		return true
	})
}

// questCheckItems fires got_items / lost_items rules against the current
// inventory. Called after quest dialogs; kills call it too since drops
// often complete fetch steps.
func (m *Map) questCheckItems(c *Character) {
	m.currentRules(c, func(q *data.Quest, st *data.QuestState, r *data.QuestRule) bool {
		switch r.Type {
		case data.RuleGotItems:
			if c.ItemAmount(r.ItemID) >= r.Count {
				m.advanceQuest(c, q, r)
				return true
			}
		case data.RuleLostItems:
			if c.ItemAmount(r.ItemID) < r.Count {
				m.advanceQuest(c, q, r)
				return true
			}
		}
		return false
	})
}

// questEnterCoord fires enter_coord rules after a walk.
func (m *Map) questEnterCoord(c *Character) {
	m.currentRules(c, func(q *data.Quest, st *data.QuestState, r *data.QuestRule) bool {
		if r.Type != data.RuleEnterCoord {
			return false
		}
		if r.MapID == m.ID && r.X == c.X && r.Y == c.Y {
			m.advanceQuest(c, q, r)
			return true
		}
		return false
	})
}

// TalkToQuestNpc opens the quest dialog of a quest NPC: current-state text
// of active quests, plus offers for quests this NPC can start.
func (m *Map) TalkToQuestNpc(playerID, npcIndex int) {
	c := m.characters[playerID]
	n := m.Npc(npcIndex)
	if c == nil || c.Trading || n == nil || n.Record.Type != data.NpcQuest {
		return
	}
	if !c.InRangeOf(n.X, n.Y, m.deps.World().SeeDistance) {
		return
	}
	c.SessionID = newSessionID()
	c.InteractNpcIndex = npcIndex

	// talked_npc rules advance before the dialog renders.
	m.currentRules(c, func(q *data.Quest, st *data.QuestState, r *data.QuestRule) bool {
		if r.Type == data.RuleTalkedToNpc && r.NpcID == n.ID {
			m.advanceQuest(c, q, r)
			return true
		}
		return false
	})
	m.questCheckItems(c)

	w := packet.NewWriter(packet.ActionDialog, packet.FamilyQuest).
		AddShort(c.SessionID).
		AddShort(n.Index).
		AddShort(n.ID)

	wrote := false
	for id, prog := range c.Quests {
		if prog.Done {
			continue
		}
		q := m.deps.Quests.Get(id)
		if q == nil {
			continue
		}
		st := q.State(prog.State)
		if st == nil {
			continue
		}
		for _, act := range st.Actions {
			if act.Type == data.ActionAddNpcText && act.NpcID == n.ID {
				w.AddShort(q.ID).
					AddBreakString(q.Name).
					AddBreakString(act.Text)
				wrote = true
			}
		}
	}
	// Offer unstarted quests whose first state speaks through this NPC.
	m.deps.Quests.All(func(q *data.Quest) {
		if progressFor(c, q.ID) != nil {
			return
		}
		first := q.FirstState()
		if first == nil {
			return
		}
		for _, act := range first.Actions {
			if act.Type == data.ActionAddNpcText && act.NpcID == n.ID {
				w.AddShort(q.ID).
					AddBreakString(q.Name).
					AddBreakString(act.Text)
				wrote = true
				return
			}
		}
	})
	if !wrote {
		return
	}
	w.AddByte(packet.Break)
	c.Send(w.Bytes())
}

// AcceptQuest starts or advances a quest from the dialog.
func (m *Map) AcceptQuest(playerID, sessionID, questID int) {
	c := m.characters[playerID]
	if c == nil || !consumeSession(c, sessionID) {
		return
	}
	n := m.Npc(c.InteractNpcIndex)
	if n == nil || n.Record.Type != data.NpcQuest {
		return
	}
	q := m.deps.Quests.Get(questID)
	if q == nil {
		return
	}
	if progressFor(c, questID) == nil {
		m.startQuest(c, q)
	}
	m.questCheckItems(c)
	c.SessionID = newSessionID()
}

// QuestList reports the character's quest log.
func (m *Map) QuestList(playerID int) {
	c := m.characters[playerID]
	if c == nil {
		return
	}
	w := packet.NewWriter(packet.ActionList, packet.FamilyQuest).
		AddChar(len(c.Quests))
	for id, prog := range c.Quests {
		q := m.deps.Quests.Get(id)
		if q == nil {
			continue
		}
		desc := ""
		if st := q.State(prog.State); st != nil {
			desc = st.Desc
		}
		w.AddShort(id).
			AddBreakString(q.Name).
			AddBreakString(desc).
			AddChar(boolChar(prog.Done))
	}
	c.Send(w.Bytes())
}
