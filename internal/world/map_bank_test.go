package world

import "testing"

func bankerIndex(t *testing.T, m *Map) int {
	t.Helper()
	for idx := range m.npcs {
		return idx // the fixture spawns exactly one NPC
	}
	t.Fatal("banker not spawned")
	return 0
}

func TestBankDepositAndWithdraw(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 4)
	maxStack := m.deps.World().MaxItem
	c.AddItem(GoldItemID, 1000, maxStack)

	idx := bankerIndex(t, m)
	m.OpenBank(1, idx)
	if c.SessionID == 0 {
		t.Fatal("no dialog nonce issued")
	}

	m.BankDeposit(1, c.SessionID, 600)
	if c.GoldBank != 600 || c.ItemAmount(GoldItemID) != 400 {
		t.Fatalf("after deposit: bank=%d held=%d", c.GoldBank, c.ItemAmount(GoldItemID))
	}

	// Each reply issues a fresh nonce for the next one.
	m.BankWithdraw(1, c.SessionID, 100)
	if c.GoldBank != 500 || c.ItemAmount(GoldItemID) != 500 {
		t.Fatalf("after withdraw: bank=%d held=%d", c.GoldBank, c.ItemAmount(GoldItemID))
	}
}

func TestBankDepositClampsToHoldings(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 4)
	c.AddItem(GoldItemID, 50, m.deps.World().MaxItem)

	m.OpenBank(1, bankerIndex(t, m))
	m.BankDeposit(1, c.SessionID, 9999)
	if c.GoldBank != 50 || c.ItemAmount(GoldItemID) != 0 {
		t.Fatalf("bank=%d held=%d", c.GoldBank, c.ItemAmount(GoldItemID))
	}
}

func TestBankRejectsStaleNonce(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 4)
	c.AddItem(GoldItemID, 100, m.deps.World().MaxItem)

	m.OpenBank(1, bankerIndex(t, m))
	stale := c.SessionID
	m.BankDeposit(1, stale+1, 100)
	if c.GoldBank != 0 {
		t.Fatal("deposit went through with a wrong nonce")
	}
	// The mismatch burned the nonce; the original no longer works either.
	m.BankDeposit(1, stale, 100)
	if c.GoldBank != 0 {
		t.Fatal("nonce survived a mismatch")
	}
}

func TestLockerAddAndTake(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 2, 3) // adjacent to the vault at (2,2)
	maxStack := m.deps.World().MaxItem
	c.AddItem(testSwordID, 4, maxStack)

	m.LockerAdd(1, 2, 2, testSwordID, 3)
	if c.BankAmount(testSwordID) != 3 || c.ItemAmount(testSwordID) != 1 {
		t.Fatalf("stored=%d held=%d", c.BankAmount(testSwordID), c.ItemAmount(testSwordID))
	}

	m.LockerTake(1, 2, 2, testSwordID)
	if c.BankAmount(testSwordID) != 0 || c.ItemAmount(testSwordID) != 4 {
		t.Fatalf("stored=%d held=%d", c.BankAmount(testSwordID), c.ItemAmount(testSwordID))
	}
}

func TestLockerRejectsGoldAndDistance(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 2, 3)
	maxStack := m.deps.World().MaxItem
	c.AddItem(GoldItemID, 100, maxStack)
	c.AddItem(testSwordID, 1, maxStack)

	m.LockerAdd(1, 2, 2, GoldItemID, 100)
	if c.BankAmount(GoldItemID) != 0 {
		t.Fatal("gold accepted by the locker")
	}

	c.X, c.Y = 6, 6
	m.LockerAdd(1, 2, 2, testSwordID, 1)
	if c.BankAmount(testSwordID) != 0 {
		t.Fatal("locker used from across the map")
	}
}

func TestLockerCapacity(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 2, 3)
	maxStack := m.deps.World().MaxItem

	// Fill every slot with distinct item ids, then one more must bounce.
	size := c.BankSize(m.deps.World().BaseBankSize, m.deps.World().BankSizeStep)
	for i := 0; i < size; i++ {
		c.BankItems = append(c.BankItems, InvItem{ID: 1000 + i, Amount: 1})
	}
	c.AddItem(testSwordID, 1, maxStack)
	m.LockerAdd(1, 2, 2, testSwordID, 1)
	if c.BankAmount(testSwordID) != 0 {
		t.Fatal("full locker accepted a new stack")
	}
	if c.ItemAmount(testSwordID) != 1 {
		t.Fatal("item vanished at a full locker")
	}
}

func TestBuyLockerUpgrade(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 4)
	cfg := m.deps.World()
	c.AddItem(GoldItemID, cfg.BankUpgradeBaseCost*2, cfg.MaxItem)

	m.OpenBank(1, bankerIndex(t, m))
	m.BuyLockerUpgrade(1, c.SessionID)
	if c.BankLevel != 1 {
		t.Fatalf("bank level = %d", c.BankLevel)
	}
	if got := c.ItemAmount(GoldItemID); got != cfg.BankUpgradeBaseCost {
		t.Fatalf("gold after upgrade = %d", got)
	}
}
