package world

import (
	"testing"

	"github.com/eogo/server/internal/data"
)

func TestEquipAndUnequip(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	maxStack := m.deps.World().MaxItem
	c.AddItem(testSwordID, 1, maxStack)
	baseMinDam := c.Stats.MinDam

	m.EquipItem(1, testSwordID, 0)
	if c.Paperdoll[SlotWeapon] != testSwordID {
		t.Fatalf("weapon slot = %d", c.Paperdoll[SlotWeapon])
	}
	if c.ItemAmount(testSwordID) != 0 {
		t.Fatal("equipped item still in inventory")
	}
	if c.Stats.MinDam != baseMinDam+5 {
		t.Fatalf("min damage = %d, want %d", c.Stats.MinDam, baseMinDam+5)
	}

	m.UnequipItem(1, testSwordID, 0)
	if c.Paperdoll[SlotWeapon] != 0 {
		t.Fatal("weapon still equipped")
	}
	if c.ItemAmount(testSwordID) != 1 {
		t.Fatal("unequipped item not returned")
	}
	if c.Stats.MinDam != baseMinDam {
		t.Fatalf("min damage after unequip = %d", c.Stats.MinDam)
	}
}

func TestEquipOccupiedSlot(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	maxStack := m.deps.World().MaxItem
	c.AddItem(testSwordID, 2, maxStack)

	m.EquipItem(1, testSwordID, 0)
	m.EquipItem(1, testSwordID, 0)
	if c.ItemAmount(testSwordID) != 1 {
		t.Fatal("second equip consumed an item")
	}
}

func TestEquipLevelRequirement(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	rec := m.deps.Items.Get(testShieldID)
	rec.LevelReq = 20
	defer func() { rec.LevelReq = 0 }()
	c.AddItem(testShieldID, 1, m.deps.World().MaxItem)

	m.EquipItem(1, testShieldID, 0)
	if c.Paperdoll[SlotShield] != 0 {
		t.Fatal("level requirement ignored")
	}
}

func TestCursedItemStaysOn(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	rec := m.deps.Items.Get(testShieldID)
	rec.Special = data.SpecialCursed
	defer func() { rec.Special = data.SpecialNormal }()
	c.AddItem(testShieldID, 1, m.deps.World().MaxItem)

	m.EquipItem(1, testShieldID, 0)
	if c.Paperdoll[SlotShield] != testShieldID {
		t.Fatal("cursed item refused to equip")
	}
	m.UnequipItem(1, testShieldID, 0)
	if c.Paperdoll[SlotShield] != testShieldID {
		t.Fatal("cursed item came off")
	}
}

func TestTrainStatSpendsPoints(t *testing.T) {
	w, m := newTestMap(t)
	c, _ := putChar(w, m, 1, 5, 5)
	c.StatPoints = 2

	m.TrainStat(1, 1) // str
	if c.Str != 1 || c.StatPoints != 1 {
		t.Fatalf("str=%d points=%d", c.Str, c.StatPoints)
	}
	m.TrainStat(1, 1)
	m.TrainStat(1, 1) // no points left
	if c.Str != 2 || c.StatPoints != 0 {
		t.Fatalf("str=%d points=%d", c.Str, c.StatPoints)
	}
}

func TestRecalculateClampsVitals(t *testing.T) {
	_, m := newTestMap(t)
	c := &Character{Class: 1, Level: 1, Con: 10}
	c.Recalculate(m.deps.Items, m.deps.Classes)
	c.HP = c.Stats.MaxHP

	c.Con = 0
	c.Recalculate(m.deps.Items, m.deps.Classes)
	if c.HP > c.Stats.MaxHP {
		t.Fatalf("hp %d above max %d", c.HP, c.Stats.MaxHP)
	}
}
