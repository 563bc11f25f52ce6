package world

import "testing"

// openTrade runs the request/accept handshake between two seeded players.
func openTrade(t *testing.T, m *Map, a, b *Character) {
	t.Helper()
	m.TradeRequest(a.PlayerID, b.PlayerID)
	m.TradeAccept(b.PlayerID, a.PlayerID)
	if !a.Trading || !b.Trading {
		t.Fatal("trade did not open")
	}
}

func TestTradeCompletesAndConserves(t *testing.T) {
	w, m := newTestMap(t)
	a, _ := putChar(w, m, 1, 5, 5)
	b, _ := putChar(w, m, 2, 5, 6)
	maxStack := m.deps.World().MaxItem
	a.AddItem(testSwordID, 2, maxStack)
	b.AddItem(GoldItemID, 500, maxStack)

	openTrade(t, m, a, b)
	m.TradeAdd(1, testSwordID, 1)
	m.TradeAdd(2, GoldItemID, 300)
	m.TradeAgree(1, true)
	m.TradeAgree(2, true)

	if a.Trading || b.Trading {
		t.Fatal("trade state not reset after completion")
	}
	if a.ItemAmount(testSwordID) != 1 || b.ItemAmount(testSwordID) != 1 {
		t.Fatalf("swords: a=%d b=%d", a.ItemAmount(testSwordID), b.ItemAmount(testSwordID))
	}
	if a.ItemAmount(GoldItemID) != 300 || b.ItemAmount(GoldItemID) != 200 {
		t.Fatalf("gold: a=%d b=%d", a.ItemAmount(GoldItemID), b.ItemAmount(GoldItemID))
	}
}

func TestTradeOfferChangeClearsAccepts(t *testing.T) {
	w, m := newTestMap(t)
	a, _ := putChar(w, m, 1, 5, 5)
	b, _ := putChar(w, m, 2, 5, 6)
	maxStack := m.deps.World().MaxItem
	a.AddItem(testSwordID, 2, maxStack)

	openTrade(t, m, a, b)
	m.TradeAdd(1, testSwordID, 1)
	m.TradeAgree(2, true)
	if !b.TradeAccepted {
		t.Fatal("accept not recorded")
	}

	m.TradeAdd(1, testSwordID, 2)
	if b.TradeAccepted {
		t.Fatal("offer change left the partner's accept standing")
	}
	if a.Trading != true {
		t.Fatal("trade closed by an offer change")
	}
	if a.ItemAmount(testSwordID) != 2 {
		t.Fatal("offered items left inventory before completion")
	}
}

func TestTradeCancelReturnsNothingLost(t *testing.T) {
	w, m := newTestMap(t)
	a, _ := putChar(w, m, 1, 5, 5)
	b, _ := putChar(w, m, 2, 5, 6)
	maxStack := m.deps.World().MaxItem
	a.AddItem(testSwordID, 1, maxStack)
	b.AddItem(GoldItemID, 100, maxStack)

	openTrade(t, m, a, b)
	m.TradeAdd(1, testSwordID, 1)
	m.TradeAdd(2, GoldItemID, 100)
	m.TradeClose(1)

	if a.Trading || b.Trading {
		t.Fatal("trade still open after close")
	}
	if a.ItemAmount(testSwordID) != 1 || b.ItemAmount(GoldItemID) != 100 {
		t.Fatal("cancelled trade moved items")
	}
}

func TestTradeRejectsLoreItems(t *testing.T) {
	w, m := newTestMap(t)
	a, _ := putChar(w, m, 1, 5, 5)
	b, _ := putChar(w, m, 2, 5, 6)
	a.AddItem(testLoreID, 1, m.deps.World().MaxItem)

	openTrade(t, m, a, b)
	m.TradeAdd(1, testLoreID, 1)
	if len(a.TradeItems) != 0 {
		t.Fatal("lore item reached the table")
	}
}

func TestTradeAddClampsToHeld(t *testing.T) {
	w, m := newTestMap(t)
	a, _ := putChar(w, m, 1, 5, 5)
	b, _ := putChar(w, m, 2, 5, 6)
	a.AddItem(testSwordID, 3, m.deps.World().MaxItem)

	openTrade(t, m, a, b)
	m.TradeAdd(1, testSwordID, 50)
	if len(a.TradeItems) != 1 || a.TradeItems[0].Amount != 3 {
		t.Fatalf("offer = %+v", a.TradeItems)
	}
}

func TestTradeBlocksWalkingAway(t *testing.T) {
	w, m := newTestMap(t)
	a, _ := putChar(w, m, 1, 5, 5)
	b, _ := putChar(w, m, 2, 5, 6)

	openTrade(t, m, a, b)
	m.Walk(1, DirRight)
	if a.X != 5 || a.Y != 5 {
		t.Fatal("walked while trading")
	}
}
