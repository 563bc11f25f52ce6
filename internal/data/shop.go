package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ShopTrade is one buy/sell listing in a shop. A zero price on either side
// means the shop does not trade that direction.
type ShopTrade struct {
	ItemID    int `yaml:"item"`
	BuyPrice  int `yaml:"buy"`  // price the player pays
	SellPrice int `yaml:"sell"` // price the player receives
	MaxAmount int `yaml:"max"`  // per-transaction cap
}

// ShopCraftIngredient is one of up to four requirements of a craft.
type ShopCraftIngredient struct {
	ItemID int `yaml:"item"`
	Amount int `yaml:"amount"`
}

// ShopCraft is one craftable listing.
type ShopCraft struct {
	ItemID      int                   `yaml:"item"`
	Ingredients []ShopCraftIngredient `yaml:"ingredients"`
}

// Shop is the full stock of one vendor, linked from NPC records by VendorID.
type Shop struct {
	VendorID int         `yaml:"vendor_id"`
	Name     string      `yaml:"name"`
	Trades   []ShopTrade `yaml:"trades"`
	Crafts   []ShopCraft `yaml:"crafts"`
}

// FindTrade returns the trade listing for an item id, or nil.
func (s *Shop) FindTrade(itemID int) *ShopTrade {
	for i := range s.Trades {
		if s.Trades[i].ItemID == itemID {
			return &s.Trades[i]
		}
	}
	return nil
}

// FindCraft returns the craft listing for an item id, or nil.
func (s *Shop) FindCraft(itemID int) *ShopCraft {
	for i := range s.Crafts {
		if s.Crafts[i].ItemID == itemID {
			return &s.Crafts[i]
		}
	}
	return nil
}

type ShopTable struct {
	shops map[int]*Shop
}

func LoadShops(path string) (*ShopTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shops %s: %w", path, err)
	}
	var rows []*Shop
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse shops %s: %w", path, err)
	}
	t := &ShopTable{shops: make(map[int]*Shop, len(rows))}
	for _, s := range rows {
		t.shops[s.VendorID] = s
	}
	return t, nil
}

func NewShopTable(rows []*Shop) *ShopTable {
	t := &ShopTable{shops: make(map[int]*Shop, len(rows))}
	for _, s := range rows {
		t.shops[s.VendorID] = s
	}
	return t
}

// ByVendor returns the shop served by a vendor id, or nil.
func (t *ShopTable) ByVendor(vendorID int) *Shop {
	return t.shops[vendorID]
}

func (t *ShopTable) Len() int {
	return len(t.shops)
}
