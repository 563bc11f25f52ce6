// contentcheck loads a content directory tree and cross-checks references
// between maps, npcs, items, spells and quest scripts. Run it after editing
// content files; a nonzero exit means the server would misbehave.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eogo/server/internal/data"
)

func main() {
	pubDir := "data/pub"
	mapsDir := "data/maps"
	questsDir := "data/quests"
	if len(os.Args) > 1 {
		root := os.Args[1]
		pubDir = filepath.Join(root, "pub")
		mapsDir = filepath.Join(root, "maps")
		questsDir = filepath.Join(root, "quests")
	}

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	items, err := data.LoadItems(filepath.Join(pubDir, "items.yaml"))
	fatal("items", err)
	npcs, err := data.LoadNpcs(filepath.Join(pubDir, "npcs.yaml"))
	fatal("npcs", err)
	spells, err := data.LoadSpells(filepath.Join(pubDir, "spells.yaml"))
	fatal("spells", err)
	maps, err := data.LoadMaps(mapsDir)
	fatal("maps", err)
	quests, err := data.LoadQuests(questsDir, log)
	fatal("quests", err)

	problems := 0
	complain := func(format string, args ...any) {
		problems++
		fmt.Fprintf(os.Stderr, "  ✗ "+format+"\n", args...)
	}

	maps.All(func(mf *data.MapFile) {
		for _, w := range mf.Warps {
			if maps.Get(w.Map) == nil {
				complain("map %d: warp at (%d,%d) targets missing map %d", mf.ID, w.X, w.Y, w.Map)
			}
			if w.Door > 1 && items.Get(w.Door-1) == nil {
				complain("map %d: door at (%d,%d) wants missing key item %d", mf.ID, w.X, w.Y, w.Door-1)
			}
		}
		for _, s := range mf.NpcSpawns {
			if npcs.Get(s.NpcID) == nil {
				complain("map %d: spawn at (%d,%d) references missing npc %d", mf.ID, s.X, s.Y, s.NpcID)
			}
		}
		for _, s := range mf.ItemSpawns {
			if items.Get(s.ItemID) == nil {
				complain("map %d: chest slot at (%d,%d) references missing item %d", mf.ID, s.X, s.Y, s.ItemID)
			}
			if s.KeyReq != 0 && items.Get(s.KeyReq) == nil {
				complain("map %d: chest at (%d,%d) wants missing key item %d", mf.ID, s.X, s.Y, s.KeyReq)
			}
		}
	})

	quests.All(func(q *data.Quest) {
		for _, st := range q.States {
			for _, a := range st.Actions {
				if a.Type == data.ActionGiveItem || a.Type == data.ActionRemoveItem {
					if items.Get(a.ItemID) == nil {
						complain("quest %d: state %q gives missing item %d", q.ID, st.Name, a.ItemID)
					}
				}
			}
			for _, r := range st.Rules {
				if r.Type == data.RuleKilledNpcs && npcs.Get(r.NpcID) == nil {
					complain("quest %d: state %q counts missing npc %d", q.ID, st.Name, r.NpcID)
				}
			}
		}
	})

	fmt.Printf("checked %d maps, %d npcs, %d items, %d spells, %d quests\n",
		maps.Len(), npcs.Len(), items.Len(), spells.Len(), quests.Len())
	if problems > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s)\n", problems)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func fatal(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", what, err)
		os.Exit(1)
	}
}
