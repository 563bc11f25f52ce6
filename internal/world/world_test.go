package world

import (
	"fmt"
	"testing"
	"time"

	"github.com/eogo/server/internal/config"
	"github.com/eogo/server/internal/data"
	"go.uber.org/zap"
)

// Test item ids used across the map-op tests.
const (
	testSwordID  = 10
	testShieldID = 11
	testPotionID = 20
	testRockID   = 30
	testLoreID   = 40
)

const testBankerNpcID = 5

type warpCall struct {
	MapID, X, Y int
	Local       bool
}

type stubClient struct {
	id     int
	sent   [][]byte
	warps  []warpCall
	closed string
}

func (s *stubClient) PlayerID() int    { return s.id }
func (s *stubClient) Send(body []byte) { s.sent = append(s.sent, body) }
func (s *stubClient) RequestWarp(mapID, x, y int, local bool) {
	s.warps = append(s.warps, warpCall{mapID, x, y, local})
}
func (s *stubClient) CloseReason(reason string) { s.closed = reason }

// testMapFile is a 10x10 map with a wall at (4,4), a down-facing chair at
// (6,6), a bank vault at (2,2), a potion chest at (8,8) and a banker NPC
// fixed at (5,3).
func testMapFile(id int) *data.MapFile {
	return &data.MapFile{
		ID:     id,
		Name:   "Testville",
		Width:  10,
		Height: 10,
		Tiles: []data.Tile{
			{X: 4, Y: 4, Spec: data.TileWall},
			{X: 6, Y: 6, Spec: data.TileChairDown},
			{X: 2, Y: 2, Spec: data.TileBankVault},
			{X: 8, Y: 8, Spec: data.TileChest},
			{X: 0, Y: 8, Spec: data.TileJukebox},
		},
		NpcSpawns: []data.NpcSpawn{
			{NpcID: testBankerNpcID, X: 5, Y: 3, SpawnType: 7, Amount: 1},
		},
		ItemSpawns: []data.ItemSpawn{
			{X: 8, Y: 8, Slot: 0, ItemID: testPotionID, Time: 1, Amount: 2},
		},
	}
}

func testItems() *data.ItemTable {
	return data.NewItemTable([]*data.Item{
		{ID: GoldItemID, Name: "Gold", Type: data.ItemMoney},
		{ID: testSwordID, Name: "Sword", Type: data.ItemWeapon, MinDam: 5, MaxDam: 10, Weight: 3},
		{ID: testShieldID, Name: "Shield", Type: data.ItemShield, Armor: 4, Weight: 2},
		{ID: testPotionID, Name: "Potion", Type: data.ItemHeal, HP: 50, Weight: 1},
		{ID: testRockID, Name: "Rock", Type: data.ItemStatic, Weight: 10},
		{ID: testLoreID, Name: "Heirloom", Type: data.ItemStatic, Special: data.SpecialLore, Weight: 1},
	})
}

func testDeps() *Deps {
	return &Deps{
		Cfg:   config.Defaults(),
		Log:   zap.NewNop(),
		Items: testItems(),
		Npcs: data.NewNpcTable([]*data.Npc{
			{ID: testBankerNpcID, Name: "Banker", Type: data.NpcBank, HP: 100},
		}),
		Classes: data.NewClassTable([]*data.Class{
			{ID: 1, Name: "Peasant"},
		}),
		Spells:       data.NewSpellTable(nil),
		Shops:        data.NewShopTable(nil),
		Inns:         data.NewInnTable(nil),
		SkillMasters: data.NewSkillMasterTable(nil),
		Arenas:       data.NewArenaTable(nil),
		Quests:       data.NewQuestTable(nil),
		Maps:         data.NewMapTable([]*data.MapFile{testMapFile(1)}),
		Lang:         data.NewLang(nil),
	}
}

// newTestMap builds a world around the standard fixture map. The map actor
// is not started; tests call its methods directly.
func newTestMap(t *testing.T) (*World, *Map) {
	t.Helper()
	w := NewWorld(testDeps())
	m := w.Map(1)
	if m == nil {
		t.Fatal("fixture map missing")
	}
	return w, m
}

// putChar drops a ready-to-play character onto the map at (x, y).
func putChar(w *World, m *Map, playerID, x, y int) (*Character, *stubClient) {
	client := &stubClient{id: playerID}
	w.AddPlayer(client)
	c := &Character{
		ID:       playerID,
		PlayerID: playerID,
		Name:     fmt.Sprintf("test%d", playerID),
		Class:    1,
		Level:    1,
		X:        x,
		Y:        y,
		Client:   client,
	}
	c.Recalculate(m.deps.Items, m.deps.Classes)
	c.HP = c.Stats.MaxHP
	c.TP = c.Stats.MaxTP
	m.Enter(c, 0)
	return c, client
}

func TestAddPlayerReusesLowestFreeID(t *testing.T) {
	w := NewWorld(testDeps())
	ids := make([]int, 3)
	for i := range ids {
		ids[i] = w.AddPlayer(&stubClient{})
	}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("ids = %v", ids)
	}
	w.RemovePlayer(2)
	if got := w.AddPlayer(&stubClient{}); got != 2 {
		t.Fatalf("freed id not reused, got %d", got)
	}
	if got := w.AddPlayer(&stubClient{}); got != 4 {
		t.Fatalf("next id = %d, want 4", got)
	}
}

func TestFindByNameCaseInsensitive(t *testing.T) {
	w := NewWorld(testDeps())
	id := w.AddPlayer(&stubClient{})
	w.SetLoggedIn(id, 77)
	w.SetInGame(id, 9, "Gandalf", 1, AdminPlayer, "")

	entry, ok := w.FindByName("gAnDaLf")
	if !ok {
		t.Fatal("name lookup failed")
	}
	if entry.ID != id || entry.CharacterID != 9 || entry.MapID != 1 {
		t.Fatalf("entry = %+v", entry)
	}
	if _, ok := w.FindByName("nobody"); ok {
		t.Fatal("found a player that is not online")
	}
}

func TestRemovePlayerClearsNameIndex(t *testing.T) {
	w := NewWorld(testDeps())
	id := w.AddPlayer(&stubClient{})
	w.SetLoggedIn(id, 1)
	w.SetInGame(id, 1, "Ghost", 1, AdminPlayer, "")
	w.RemovePlayer(id)
	if _, ok := w.FindByName("Ghost"); ok {
		t.Fatal("name survived removal")
	}
	if w.PlayerCount() != 0 {
		t.Fatalf("player count = %d", w.PlayerCount())
	}
}

func TestMuteExpires(t *testing.T) {
	w := NewWorld(testDeps())
	w.Mute("Loudmouth", 0)
	if w.Muted("Loudmouth") {
		t.Fatal("zero-duration mute still active")
	}
	w.Mute("Loudmouth", time.Minute)
	if !w.Muted("loudmouth") {
		t.Fatal("mute lookup not case-insensitive")
	}
}
