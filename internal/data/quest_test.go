package data

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const kittenQuest = `
quest = {
  id = 4,
  name = "Lost Kitten",
  states = {
    {
      name = "Begin",
      desc = "Find the kitten",
      actions = {
        { type = "add_npc_text", npc = 9, text = "Have you seen my kitten?" },
      },
      rules = {
        { type = "killed_npcs", npc = 13, count = 1, goto = "Reward" },
      },
    },
    {
      name = "Reward",
      actions = {
        { type = "give_exp", amount = 500 },
        { type = "end" },
      },
    },
  },
}
`

func writeQuest(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadQuests(t *testing.T) {
	dir := t.TempDir()
	writeQuest(t, dir, "kitten.lua", kittenQuest)

	table, err := LoadQuests(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("loaded %d quests", table.Len())
	}

	q := table.Get(4)
	if q == nil || q.Name != "Lost Kitten" {
		t.Fatalf("quest = %+v", q)
	}
	first := q.FirstState()
	if first == nil || first.Name != "Begin" {
		t.Fatalf("first state = %+v", first)
	}
	if len(first.Actions) != 1 || first.Actions[0].Type != ActionAddNpcText || first.Actions[0].NpcID != 9 {
		t.Fatalf("actions = %+v", first.Actions)
	}
	if len(first.Rules) != 1 {
		t.Fatalf("rules = %+v", first.Rules)
	}
	r := first.Rules[0]
	if r.Type != RuleKilledNpcs || r.NpcID != 13 || r.Count != 1 || r.Goto != "reward" {
		t.Fatalf("rule = %+v", r)
	}

	// State lookup folds case.
	reward := q.State("REWARD")
	if reward == nil || len(reward.Actions) != 2 {
		t.Fatalf("reward state = %+v", reward)
	}
	if reward.Actions[0].Type != ActionGiveExp || reward.Actions[0].Amount != 500 {
		t.Fatalf("reward actions = %+v", reward.Actions)
	}
}

func TestLoadQuestsSkipsBrokenScripts(t *testing.T) {
	dir := t.TempDir()
	writeQuest(t, dir, "good.lua", kittenQuest)
	writeQuest(t, dir, "syntax.lua", "quest = {")
	writeQuest(t, dir, "noid.lua", `quest = { name = "x", states = {} }`)
	writeQuest(t, dir, "notlua.txt", "ignored")

	table, err := LoadQuests(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("loaded %d quests, want the one valid script", table.Len())
	}
}

func TestLoadQuestsMissingDir(t *testing.T) {
	table, err := LoadQuests(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing dir: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("len = %d", table.Len())
	}
}
