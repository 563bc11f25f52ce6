package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Quest scripts are Lua files, one per quest. Each file sets a global table:
//
//	quest = {
//	  id = 4, name = "Lost Kitten",
//	  states = {
//	    { name = "begin", desc = "Find the kitten",
//	      actions = { { type = "add_npc_text", npc = 9, text = "..." } },
//	      rules = { { type = "killed_npcs", npc = 13, count = 1, goto = "reward" } } },
//	    ...
//	  },
//	}
//
// The engine converts the table to immutable Go structs at load time; no Lua
// runs during gameplay.

// QuestRuleType enumerates the conditions that advance a quest state.
type QuestRuleType int

const (
	RuleTalkedToNpc QuestRuleType = iota
	RuleInputNpc
	RuleKilledNpcs
	RuleGotItems
	RuleLostItems
	RuleEnterCoord
	RuleDone
)

var questRuleNames = map[string]QuestRuleType{
	"talked_npc": RuleTalkedToNpc, "input_npc": RuleInputNpc,
	"killed_npcs": RuleKilledNpcs, "got_items": RuleGotItems,
	"lost_items": RuleLostItems, "enter_coord": RuleEnterCoord, "done": RuleDone,
}

// QuestActionType enumerates the side effects applied on entering a state.
type QuestActionType int

const (
	ActionAddNpcText QuestActionType = iota
	ActionAddNpcInput
	ActionGiveItem
	ActionRemoveItem
	ActionGiveExp
	ActionSetState
	ActionQuake
	ActionEnd
	ActionResetDaily
)

var questActionNames = map[string]QuestActionType{
	"add_npc_text": ActionAddNpcText, "add_npc_input": ActionAddNpcInput,
	"give_item": ActionGiveItem, "remove_item": ActionRemoveItem,
	"give_exp": ActionGiveExp, "set_state": ActionSetState, "quake": ActionQuake,
	"end": ActionEnd, "reset_daily": ActionResetDaily,
}

// QuestRule is one advance condition of a quest state.
type QuestRule struct {
	Type   QuestRuleType
	NpcID  int
	ItemID int
	Count  int
	Input  int
	MapID  int
	X, Y   int
	Goto   string
}

// QuestAction is one side effect applied when a state is entered.
type QuestAction struct {
	Type   QuestActionType
	NpcID  int
	ItemID int
	Amount int
	Input  int
	Text   string
	State  string
}

// QuestState is one named state of a quest script.
type QuestState struct {
	Name    string
	Desc    string
	Actions []QuestAction
	Rules   []QuestRule
}

// Quest is one fully parsed quest script, immutable after load.
type Quest struct {
	ID     int
	Name   string
	States []QuestState
	byName map[string]*QuestState
}

// State returns the named state, case-insensitively, or nil.
func (q *Quest) State(name string) *QuestState {
	return q.byName[strings.ToLower(name)]
}

// FirstState returns the entry state of the script.
func (q *Quest) FirstState() *QuestState {
	if len(q.States) == 0 {
		return nil
	}
	return &q.States[0]
}

// QuestTable holds every loaded quest.
type QuestTable struct {
	quests map[int]*Quest
}

// LoadQuests runs every *.lua file under dir in a throwaway VM and converts
// the resulting quest tables.
func LoadQuests(dir string, log *zap.Logger) (*QuestTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &QuestTable{quests: map[int]*Quest{}}, nil
		}
		return nil, fmt.Errorf("read quests dir %s: %w", dir, err)
	}

	t := &QuestTable{quests: make(map[int]*Quest)}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		q, err := loadQuestFile(path)
		if err != nil {
			// A broken script disables that quest, not the server.
			log.Warn("quest script rejected", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		t.quests[q.ID] = q
	}
	return t, nil
}

func loadQuestFile(path string) (*Quest, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer vm.Close()

	if err := vm.DoFile(path); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	tbl, ok := vm.GetGlobal("quest").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("script defines no quest table")
	}
	return questFromLua(tbl)
}

func questFromLua(tbl *lua.LTable) (*Quest, error) {
	q := &Quest{
		ID:     int(lua.LVAsNumber(tbl.RawGetString("id"))),
		Name:   lua.LVAsString(tbl.RawGetString("name")),
		byName: make(map[string]*QuestState),
	}
	if q.ID <= 0 {
		return nil, fmt.Errorf("quest id missing")
	}

	states, ok := tbl.RawGetString("states").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("quest %d has no states", q.ID)
	}

	var convErr error
	states.ForEach(func(_, v lua.LValue) {
		st, ok := v.(*lua.LTable)
		if !ok || convErr != nil {
			return
		}
		qs := QuestState{
			Name: lua.LVAsString(st.RawGetString("name")),
			Desc: lua.LVAsString(st.RawGetString("desc")),
		}
		if qs.Name == "" {
			convErr = fmt.Errorf("quest %d: unnamed state", q.ID)
			return
		}
		if acts, ok := st.RawGetString("actions").(*lua.LTable); ok {
			acts.ForEach(func(_, av lua.LValue) {
				if at, ok := av.(*lua.LTable); ok {
					qs.Actions = append(qs.Actions, actionFromLua(at))
				}
			})
		}
		if rules, ok := st.RawGetString("rules").(*lua.LTable); ok {
			rules.ForEach(func(_, rv lua.LValue) {
				if rt, ok := rv.(*lua.LTable); ok {
					qs.Rules = append(qs.Rules, ruleFromLua(rt))
				}
			})
		}
		q.States = append(q.States, qs)
	})
	if convErr != nil {
		return nil, convErr
	}
	for i := range q.States {
		q.byName[strings.ToLower(q.States[i].Name)] = &q.States[i]
	}
	return q, nil
}

func ruleFromLua(t *lua.LTable) QuestRule {
	return QuestRule{
		Type:   questRuleNames[lua.LVAsString(t.RawGetString("type"))],
		NpcID:  int(lua.LVAsNumber(t.RawGetString("npc"))),
		ItemID: int(lua.LVAsNumber(t.RawGetString("item"))),
		Count:  int(lua.LVAsNumber(t.RawGetString("count"))),
		Input:  int(lua.LVAsNumber(t.RawGetString("input"))),
		MapID:  int(lua.LVAsNumber(t.RawGetString("map"))),
		X:      int(lua.LVAsNumber(t.RawGetString("x"))),
		Y:      int(lua.LVAsNumber(t.RawGetString("y"))),
		Goto:   strings.ToLower(lua.LVAsString(t.RawGetString("goto"))),
	}
}

func actionFromLua(t *lua.LTable) QuestAction {
	return QuestAction{
		Type:   questActionNames[lua.LVAsString(t.RawGetString("type"))],
		NpcID:  int(lua.LVAsNumber(t.RawGetString("npc"))),
		ItemID: int(lua.LVAsNumber(t.RawGetString("item"))),
		Amount: int(lua.LVAsNumber(t.RawGetString("amount"))),
		Input:  int(lua.LVAsNumber(t.RawGetString("input"))),
		Text:   lua.LVAsString(t.RawGetString("text")),
		State:  strings.ToLower(lua.LVAsString(t.RawGetString("state"))),
	}
}

// NewQuestTable builds a table from in-memory quests. Used by tests.
func NewQuestTable(rows []*Quest) *QuestTable {
	t := &QuestTable{quests: make(map[int]*Quest, len(rows))}
	for _, q := range rows {
		if q.byName == nil {
			q.byName = make(map[string]*QuestState)
			for i := range q.States {
				q.byName[strings.ToLower(q.States[i].Name)] = &q.States[i]
			}
		}
		t.quests[q.ID] = q
	}
	return t
}

// Get returns the quest with the given id, or nil.
func (t *QuestTable) Get(id int) *Quest {
	return t.quests[id]
}

// All iterates every quest.
func (t *QuestTable) All(fn func(*Quest)) {
	for _, q := range t.quests {
		fn(q)
	}
}

func (t *QuestTable) Len() int {
	return len(t.quests)
}
