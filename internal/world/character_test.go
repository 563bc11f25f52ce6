package world

import "testing"

func TestAddItemMergesStacks(t *testing.T) {
	c := &Character{}
	if got := c.AddItem(testSwordID, 3, 100); got != 3 {
		t.Fatalf("added %d", got)
	}
	if got := c.AddItem(testSwordID, 4, 100); got != 4 {
		t.Fatalf("added %d", got)
	}
	if len(c.Items) != 1 || c.Items[0].Amount != 7 {
		t.Fatalf("items = %+v", c.Items)
	}
}

func TestAddItemStackCap(t *testing.T) {
	c := &Character{}
	c.AddItem(testSwordID, 90, 100)
	if got := c.AddItem(testSwordID, 50, 100); got != 10 {
		t.Fatalf("overflow add returned %d", got)
	}
	if c.ItemAmount(testSwordID) != 100 {
		t.Fatalf("amount = %d", c.ItemAmount(testSwordID))
	}
	if got := c.AddItem(testSwordID, 1, 100); got != 0 {
		t.Fatalf("add at cap returned %d", got)
	}
}

func TestDelItemRemovesEmptyStacks(t *testing.T) {
	c := &Character{}
	c.AddItem(testSwordID, 5, 100)
	if got := c.DelItem(testSwordID, 2); got != 2 {
		t.Fatalf("removed %d", got)
	}
	if got := c.DelItem(testSwordID, 10); got != 3 {
		t.Fatalf("over-remove returned %d", got)
	}
	if len(c.Items) != 0 {
		t.Fatalf("empty stack kept: %+v", c.Items)
	}
	if got := c.DelItem(testSwordID, 1); got != 0 {
		t.Fatalf("remove from nothing returned %d", got)
	}
}

func TestCanHoldWeightAndStack(t *testing.T) {
	items := testItems()
	c := &Character{}
	c.Stats.MaxWeight = 25

	// Rocks weigh 10: two fit by weight.
	if got := c.CanHold(items, testRockID, 1000); got != 2 {
		t.Fatalf("can hold %d rocks", got)
	}
	c.AddItem(testRockID, 2, 1000)
	if got := c.CanHold(items, testRockID, 1000); got != 0 {
		t.Fatalf("can hold %d rocks at weight limit", got)
	}

	// Gold is weightless; only the stack cap applies.
	c.AddItem(GoldItemID, 90, 100)
	if got := c.CanHold(items, GoldItemID, 100); got != 10 {
		t.Fatalf("can hold %d gold", got)
	}
}

func TestWeightCountsEquipment(t *testing.T) {
	items := testItems()
	c := &Character{}
	c.AddItem(testSwordID, 2, 100) // 3 each
	c.Paperdoll[SlotShield] = testShieldID // 2

	if got := c.Weight(items); got != 8 {
		t.Fatalf("weight = %d", got)
	}
}

func TestDirectionHelpers(t *testing.T) {
	for _, d := range []Direction{DirDown, DirLeft, DirUp, DirRight} {
		if d.Reverse().Reverse() != d {
			t.Fatalf("double reverse of %d", d)
		}
		dx, dy := d.Offset()
		rx, ry := d.Reverse().Offset()
		if dx+rx != 0 || dy+ry != 0 {
			t.Fatalf("offsets of %d not opposite", d)
		}
	}
}

func TestPathDistance(t *testing.T) {
	cases := []struct {
		x1, y1, x2, y2, want int
	}{
		{0, 0, 0, 0, 0},
		{1, 1, 4, 1, 3},
		{4, 1, 1, 1, 3},
		{2, 3, 5, 7, 7},
	}
	for _, c := range cases {
		if got := pathDistance(c.x1, c.y1, c.x2, c.y2); got != c.want {
			t.Errorf("pathDistance(%d,%d,%d,%d) = %d, want %d", c.x1, c.y1, c.x2, c.y2, got, c.want)
		}
	}
}

func TestEqualFold(t *testing.T) {
	if !equalFold("Gandalf", "gANDALF") {
		t.Error("case fold failed")
	}
	if equalFold("abc", "abd") || equalFold("abc", "ab") {
		t.Error("unequal names matched")
	}
}

func TestExpForLevelMonotonic(t *testing.T) {
	prev := int64(-1)
	for lvl := 1; lvl <= 20; lvl++ {
		e := expForLevel(lvl)
		if e <= prev {
			t.Fatalf("exp curve not increasing at level %d", lvl)
		}
		prev = e
	}
}
