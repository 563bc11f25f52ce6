package world

import "testing"

func TestDropAndPickUp(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	maxStack := m.deps.World().MaxItem
	c.AddItem(testSwordID, 3, maxStack)

	m.DropItem(1, testSwordID, 2, 255, 255) // 255,255 = at my feet
	if got := c.ItemAmount(testSwordID); got != 1 {
		t.Fatalf("inventory after drop = %d", got)
	}
	if len(m.items) != 1 {
		t.Fatalf("ground stacks = %d", len(m.items))
	}
	var idx int
	for i, it := range m.items {
		idx = i
		if it.ID != testSwordID || it.Amount != 2 || it.X != 5 || it.Y != 5 {
			t.Fatalf("ground item = %+v", it)
		}
	}

	m.GetItem(1, idx)
	if got := c.ItemAmount(testSwordID); got != 3 {
		t.Fatalf("inventory after pickup = %d", got)
	}
	if len(m.items) != 0 {
		t.Fatal("ground stack survived pickup")
	}
}

func TestDropClampsToHeld(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	c.AddItem(testSwordID, 2, m.deps.World().MaxItem)

	m.DropItem(1, testSwordID, 999, 255, 255)
	if got := c.ItemAmount(testSwordID); got != 0 {
		t.Fatalf("inventory = %d", got)
	}
	for _, it := range m.items {
		if it.Amount != 2 {
			t.Fatalf("ground amount = %d", it.Amount)
		}
	}
}

func TestDropRejectsLoreAndDistance(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	maxStack := m.deps.World().MaxItem
	c.AddItem(testLoreID, 1, maxStack)
	c.AddItem(testSwordID, 1, maxStack)

	m.DropItem(1, testLoreID, 1, 255, 255)
	if len(m.items) != 0 {
		t.Fatal("lore item hit the ground")
	}

	m.DropItem(1, testSwordID, 1, 9, 9) // past the drop distance
	if len(m.items) != 0 {
		t.Fatal("dropped beyond drop distance")
	}
}

func TestPickUpRespectsOwnerProtection(t *testing.T) {
	w, m := newTestMap(t)
	owner, _ := putChar(w, m, 1, 5, 5)
	thief, _ := putChar(w, m, 2, 5, 6)
	maxStack := m.deps.World().MaxItem
	owner.AddItem(testSwordID, 1, maxStack)

	m.DropItem(1, testSwordID, 1, 255, 255)
	var idx int
	for i := range m.items {
		idx = i
	}

	m.GetItem(2, idx)
	if thief.ItemAmount(testSwordID) != 0 {
		t.Fatal("protected drop stolen")
	}

	// Protection wears off with map ticks.
	for i := 0; i <= m.deps.World().ProtectPlayerDrop; i++ {
		m.Tick()
	}
	m.GetItem(2, idx)
	if thief.ItemAmount(testSwordID) != 1 {
		t.Fatal("unprotected drop not taken")
	}
}

func TestPickUpPartialAtWeightLimit(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)

	// Rocks weigh 10 each; figure out how many fit and seed one more.
	fit := c.Stats.MaxWeight / 10
	it := m.addGroundItem(testRockID, fit+1, 5, 5, 0, 0)

	m.GetItem(1, it.Index)
	if got := c.ItemAmount(testRockID); got != fit {
		t.Fatalf("picked up %d rocks, want %d", got, fit)
	}
	if m.items[it.Index] == nil || m.items[it.Index].Amount != 1 {
		t.Fatal("remainder stack wrong")
	}
}

func TestJunkItem(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	c.AddItem(testPotionID, 5, m.deps.World().MaxItem)

	m.JunkItem(1, testPotionID, 2)
	if got := c.ItemAmount(testPotionID); got != 3 {
		t.Fatalf("after junk = %d", got)
	}
	m.JunkItem(1, testPotionID, 99)
	if got := c.ItemAmount(testPotionID); got != 0 {
		t.Fatalf("over-junk left %d", got)
	}
}

func TestUseHealPotion(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	c.AddItem(testPotionID, 2, m.deps.World().MaxItem)
	c.HP = 1

	m.UseItem(1, testPotionID)
	want := 1 + 50
	if want > c.Stats.MaxHP {
		want = c.Stats.MaxHP
	}
	if c.HP != want {
		t.Fatalf("hp after potion = %d, want %d", c.HP, want)
	}
	if got := c.ItemAmount(testPotionID); got != 1 {
		t.Fatalf("potions left = %d", got)
	}

	// At full health the potion is not consumed.
	c.HP = c.Stats.MaxHP
	c.TP = c.Stats.MaxTP
	m.UseItem(1, testPotionID)
	if got := c.ItemAmount(testPotionID); got != 1 {
		t.Fatalf("potion wasted at full health, left %d", got)
	}
}

func TestGroundItemDecay(t *testing.T) {
	w, m := newTestMap(t)
	putChar(w, m, 1, 5, 5)
	it := m.addGroundItem(testSwordID, 1, 5, 6, 0, 0)
	it.DecayTicks = 2

	m.Tick()
	if m.items[it.Index] == nil {
		t.Fatal("decayed early")
	}
	m.Tick()
	if m.items[it.Index] != nil {
		t.Fatal("never decayed")
	}
}
