package world

import "testing"

func TestChestSpawnsStocked(t *testing.T) {
	_, m := newTestMap(t)
	ch := m.chestAt(8, 8)
	if ch == nil {
		t.Fatal("fixture chest missing")
	}
	if got := ch.itemAmount(testPotionID); got != 2 {
		t.Fatalf("stocked potions = %d", got)
	}
}

func TestChestTakeAndRefill(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 8, 7)

	m.OpenChest(1, 8, 8)
	ch := m.chestAt(8, 8)
	if c.ChestIndex != ch.Index {
		t.Fatal("chest dialog not opened")
	}

	m.ChestTake(1, testPotionID)
	if got := c.ItemAmount(testPotionID); got != 2 {
		t.Fatalf("took %d potions", got)
	}
	if ch.itemAmount(testPotionID) != 0 {
		t.Fatal("chest not emptied")
	}

	// The spawn slot refills after its timer (1 minute = 60 ticks).
	for i := 0; i < 61; i++ {
		m.Tick()
	}
	if got := ch.itemAmount(testPotionID); got != 2 {
		t.Fatalf("after refill = %d", got)
	}
}

func TestChestAddAndSlotLimit(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 8, 7)
	maxStack := m.deps.World().MaxItem
	c.AddItem(testSwordID, 1, maxStack)

	m.OpenChest(1, 8, 8)
	m.ChestAdd(1, testSwordID, 1)
	ch := m.chestAt(8, 8)
	if ch.itemAmount(testSwordID) != 1 {
		t.Fatal("deposit missing from chest")
	}
	if c.ItemAmount(testSwordID) != 0 {
		t.Fatal("deposit still in inventory")
	}

	// Fill the remaining slots; the next distinct item must bounce.
	maxSlots := m.deps.World().MaxChestSlots
	for len(ch.Items) < maxSlots {
		ch.Items = append(ch.Items, ChestItem{Slot: ch.freeSlot(maxSlots), ID: 1000 + len(ch.Items), Amount: 1})
	}
	c.AddItem(testRockID, 1, maxStack)
	m.OpenChest(1, 8, 8)
	m.ChestAdd(1, testRockID, 1)
	if ch.itemAmount(testRockID) != 0 {
		t.Fatal("full chest accepted a new stack")
	}
	if c.ItemAmount(testRockID) != 1 {
		t.Fatal("item vanished at a full chest")
	}
}

func TestChestOutOfReach(t *testing.T) {
	w, m := newTestMap(t)
	_, client := putChar(w, m, 1, 1, 1)
	client.sent = nil
	m.OpenChest(1, 8, 8)
	if len(client.sent) != 0 {
		t.Fatal("opened a chest from across the map")
	}
}
