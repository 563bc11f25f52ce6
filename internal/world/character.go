package world

import (
	"time"

	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/persist"
)

// Direction is a facing on the tile grid.
type Direction int

const (
	DirDown Direction = iota
	DirLeft
	DirUp
	DirRight
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	switch d {
	case DirDown:
		return DirUp
	case DirUp:
		return DirDown
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Offset returns the coordinate delta of one step.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirUp:
		return 0, -1
	default:
		return 1, 0
	}
}

// AdminLevel gates admin commands and walk-through-walls.
type AdminLevel int

const (
	AdminPlayer AdminLevel = iota
	AdminGuardian
	AdminGM
	AdminHGM
)

// SitState is how the character currently occupies its tile.
type SitState int

const (
	Standing SitState = iota
	SitChair
	SitFloor
)

// Paperdoll slot indexes; the wire order of the 15 equipment slots.
const (
	SlotBoots = iota
	SlotAccessory
	SlotGloves
	SlotBelt
	SlotArmor
	SlotNecklace
	SlotHat
	SlotShield
	SlotWeapon
	SlotRing1
	SlotRing2
	SlotArmlet1
	SlotArmlet2
	SlotBracer1
	SlotBracer2
	PaperdollSlots
)

// InvItem is one inventory or bank stack.
type InvItem struct {
	ID     int
	Amount int
}

const GoldItemID = 1

// Stats are the derived combat numbers recomputed on every equipment or
// base-stat change.
type Stats struct {
	MaxHP     int
	MaxTP     int
	MaxSP     int
	MinDam    int
	MaxDam    int
	Accuracy  int
	Evade     int
	Armor     int
	MaxWeight int
}

// QuestProgress is a character's live state in one quest.
type QuestProgress struct {
	State    string
	Done     bool
	Counters map[string]int
}

// Character is a persisted avatar resident on exactly one map. All fields
// are owned by that map's actor; nothing outside the actor may touch them.
type Character struct {
	ID        int
	AccountID int
	PlayerID  int // owning connection's player id
	Name      string
	Title     string
	Home      string
	Fiance    string
	Partner   string

	AdminLevel AdminLevel
	Class      int
	Gender     int
	Race       int
	HairStyle  int
	HairColor  int

	MapID     int
	X, Y      int
	Direction Direction
	SitState  SitState
	Hidden    bool

	Level int
	Exp   int64
	HP    int
	TP    int

	Str, Intl, Wis, Agi, Con, Cha int
	StatPoints                    int
	SkillPoints                   int
	Karma                         int

	Stats Stats

	Items     []InvItem
	BankItems []InvItem
	Paperdoll [PaperdollSlots]int
	Spells    []persist.SpellRow

	GoldBank  int
	BankLevel int

	GuildTag        string
	GuildRankString string
	GuildRank       int

	Quests map[int]*QuestProgress

	// Ephemeral dialog context. SessionID is a one-shot nonce issued by the
	// dialog-opening handler and consumed by the matching reply.
	SessionID        int
	InteractNpcIndex int
	InteractPlayerID int
	BoardID          int
	ChestIndex       int
	SleepCost        int

	Trading       bool
	TradeAccepted bool
	TradeItems    []InvItem

	// Arena bookkeeping, owned by the map's arena state.
	ArenaPlayer bool
	ArenaKills  int

	LoggedInAt time.Time
	Client     Client // send/close surface of the owning player actor

	dirty bool // pending opportunistic save
}

// Client is the narrow surface the world needs from a player actor. All
// methods must be callable from any goroutine.
type Client interface {
	PlayerID() int
	Send(body []byte)
	RequestWarp(mapID, x, y int, local bool)
	CloseReason(reason string)
}

// Send queues a packet body for the owning connection. Safe on a character
// with no live client (mid-transfer), where it is a no-op.
func (c *Character) Send(body []byte) {
	if c.Client != nil {
		c.Client.Send(body)
	}
}

// MarkDirty flags the character for the next opportunistic save pass.
func (c *Character) MarkDirty() { c.dirty = true }

// TakeDirty returns and clears the dirty flag.
func (c *Character) TakeDirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}

// InRangeOf reports whether (x, y) is within the given see distance of the
// character, measured as path distance.
func (c *Character) InRangeOf(x, y, distance int) bool {
	return pathDistance(c.X, c.Y, x, y) <= distance
}

// equalFold compares ASCII names case-insensitively; character and account
// names are ASCII by validation.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func pathDistance(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// ── Inventory ──────────────────────────────────────────────────────

// ItemAmount returns the held amount of an item id.
func (c *Character) ItemAmount(id int) int {
	for _, it := range c.Items {
		if it.ID == id {
			return it.Amount
		}
	}
	return 0
}

// AddItem adds up to amount of an item, respecting the per-stack cap, and
// returns how much was actually added.
func (c *Character) AddItem(id, amount, maxStack int) int {
	if amount <= 0 || id <= 0 {
		return 0
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			room := maxStack - c.Items[i].Amount
			if room <= 0 {
				return 0
			}
			if amount > room {
				amount = room
			}
			c.Items[i].Amount += amount
			return amount
		}
	}
	if amount > maxStack {
		amount = maxStack
	}
	c.Items = append(c.Items, InvItem{ID: id, Amount: amount})
	return amount
}

// DelItem removes up to amount of an item and returns how much was removed.
func (c *Character) DelItem(id, amount int) int {
	if amount <= 0 {
		return 0
	}
	for i := range c.Items {
		if c.Items[i].ID != id {
			continue
		}
		if amount >= c.Items[i].Amount {
			amount = c.Items[i].Amount
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return amount
		}
		c.Items[i].Amount -= amount
		return amount
	}
	return 0
}

// Weight returns the character's carried weight given the item table.
func (c *Character) Weight(items *data.ItemTable) int {
	w := 0
	for _, it := range c.Items {
		if rec := items.Get(it.ID); rec != nil {
			w += rec.Weight * it.Amount
		}
	}
	for _, id := range c.Paperdoll {
		if rec := items.Get(id); rec != nil {
			w += rec.Weight
		}
	}
	return w
}

// CanHold returns how many of an item the character can pick up before
// hitting the weight limit or the per-stack cap.
func (c *Character) CanHold(items *data.ItemTable, id, maxStack int) int {
	rec := items.Get(id)
	if rec == nil {
		return 0
	}
	byStack := maxStack - c.ItemAmount(id)
	if byStack < 0 {
		byStack = 0
	}
	if rec.Weight <= 0 {
		return byStack
	}
	byWeight := (c.Stats.MaxWeight - c.Weight(items)) / rec.Weight
	if byWeight < 0 {
		byWeight = 0
	}
	if byWeight < byStack {
		return byWeight
	}
	return byStack
}

// ── Bank ───────────────────────────────────────────────────────────

// BankAmount returns the banked amount of an item id.
func (c *Character) BankAmount(id int) int {
	for _, it := range c.BankItems {
		if it.ID == id {
			return it.Amount
		}
	}
	return 0
}

// BankSize returns the locker slot capacity at the current upgrade level.
func (c *Character) BankSize(base, step int) int {
	return base + c.BankLevel*step
}

// AddBankItem mirrors AddItem for the bank listing.
func (c *Character) AddBankItem(id, amount, maxStack int) int {
	if amount <= 0 || id <= 0 {
		return 0
	}
	for i := range c.BankItems {
		if c.BankItems[i].ID == id {
			room := maxStack - c.BankItems[i].Amount
			if room <= 0 {
				return 0
			}
			if amount > room {
				amount = room
			}
			c.BankItems[i].Amount += amount
			return amount
		}
	}
	if amount > maxStack {
		amount = maxStack
	}
	c.BankItems = append(c.BankItems, InvItem{ID: id, Amount: amount})
	return amount
}

// DelBankItem mirrors DelItem for the bank listing.
func (c *Character) DelBankItem(id, amount int) int {
	if amount <= 0 {
		return 0
	}
	for i := range c.BankItems {
		if c.BankItems[i].ID != id {
			continue
		}
		if amount >= c.BankItems[i].Amount {
			amount = c.BankItems[i].Amount
			c.BankItems = append(c.BankItems[:i], c.BankItems[i+1:]...)
			return amount
		}
		c.BankItems[i].Amount -= amount
		return amount
	}
	return 0
}

// ── Spells ─────────────────────────────────────────────────────────

// HasSpell reports whether the spell is learned.
func (c *Character) HasSpell(spellID int) bool {
	for _, s := range c.Spells {
		if s.SpellID == spellID {
			return true
		}
	}
	return false
}

// AddSpell learns a spell at level 0; learning twice is a no-op.
func (c *Character) AddSpell(spellID int) {
	if c.HasSpell(spellID) {
		return
	}
	c.Spells = append(c.Spells, persist.SpellRow{SpellID: spellID})
}

// DelSpell forgets a spell.
func (c *Character) DelSpell(spellID int) bool {
	for i, s := range c.Spells {
		if s.SpellID == spellID {
			c.Spells = append(c.Spells[:i], c.Spells[i+1:]...)
			return true
		}
	}
	return false
}

// ── Derived stats ──────────────────────────────────────────────────

// SlotForItem returns the paperdoll slot an item equips into, preferring an
// empty alternate for paired slots, or -1 when the item is not equippable.
func (c *Character) SlotForItem(it *data.Item) int {
	switch it.Type {
	case data.ItemWeapon:
		return SlotWeapon
	case data.ItemShield:
		return SlotShield
	case data.ItemArmor:
		return SlotArmor
	case data.ItemHat:
		return SlotHat
	case data.ItemBoots:
		return SlotBoots
	case data.ItemGloves:
		return SlotGloves
	case data.ItemAccessory:
		return SlotAccessory
	case data.ItemBelt:
		return SlotBelt
	case data.ItemNecklace:
		return SlotNecklace
	case data.ItemRing:
		return pairSlot(c, SlotRing1, SlotRing2)
	case data.ItemArmlet:
		return pairSlot(c, SlotArmlet1, SlotArmlet2)
	case data.ItemBracer:
		return pairSlot(c, SlotBracer1, SlotBracer2)
	}
	return -1
}

func pairSlot(c *Character, a, b int) int {
	if c.Paperdoll[a] == 0 {
		return a
	}
	return b
}

// Recalculate recomputes derived stats from level, base stats and
// equipment. HP/TP clamp into the new maxima.
func (c *Character) Recalculate(items *data.ItemTable, classes *data.ClassTable) {
	str, intl, wis, agi, con := c.Str, c.Intl, c.Wis, c.Agi, c.Con

	if cls := classes.Get(c.Class); cls != nil {
		str += cls.Str
		intl += cls.Int
		wis += cls.Wis
		agi += cls.Agi
		con += cls.Con
	}

	s := Stats{
		MaxHP:     10 + 2*c.Level + 3*con,
		MaxTP:     10 + 2*c.Level + 3*wis + intl,
		MaxSP:     20 + 2*c.Level,
		MinDam:    1 + str/2,
		MaxDam:    2 + str/2,
		Accuracy:  agi / 2,
		Evade:     agi / 2,
		Armor:     con / 4,
		MaxWeight: 70 + str,
	}
	if s.MaxWeight > 250 {
		s.MaxWeight = 250
	}

	for _, id := range c.Paperdoll {
		rec := items.Get(id)
		if rec == nil {
			continue
		}
		s.MaxHP += rec.HP
		s.MaxTP += rec.TP
		s.MinDam += rec.MinDam
		s.MaxDam += rec.MaxDam
		s.Accuracy += rec.Accur
		s.Evade += rec.Evade
		s.Armor += rec.Armor
	}

	c.Stats = s
	if c.HP > s.MaxHP {
		c.HP = s.MaxHP
	}
	if c.TP > s.MaxTP {
		c.TP = s.MaxTP
	}
}

// ── Persistence mapping ────────────────────────────────────────────

// Snapshot converts the live character into a persistable row.
func (c *Character) Snapshot() *persist.CharacterRow {
	row := &persist.CharacterRow{
		ID:        c.ID,
		AccountID: c.AccountID,
		Name:      c.Name,
		Title:     c.Title,
		Home:      c.Home,
		Fiance:    c.Fiance,
		Partner:   c.Partner,

		AdminLevel: int(c.AdminLevel),
		Class:      c.Class,
		Gender:     c.Gender,
		Race:       c.Race,
		HairStyle:  c.HairStyle,
		HairColor:  c.HairColor,

		MapID:     c.MapID,
		X:         c.X,
		Y:         c.Y,
		Direction: int(c.Direction),

		Level: c.Level,
		Exp:   c.Exp,
		HP:    c.HP,
		TP:    c.TP,

		Str: c.Str, Intl: c.Intl, Wis: c.Wis, Agi: c.Agi, Con: c.Con, Cha: c.Cha,
		StatPoints:  c.StatPoints,
		SkillPoints: c.SkillPoints,
		Karma:       c.Karma,

		SitState: int(c.SitState),
		Hidden:   c.Hidden,

		GoldBank:  c.GoldBank,
		BankLevel: c.BankLevel,

		GuildTag:        c.GuildTag,
		GuildRank:       c.GuildRank,
		GuildRankString: c.GuildRankString,

		Quests: map[int]persist.QuestStateRow{},
	}
	if !c.LoggedInAt.IsZero() {
		t := c.LoggedInAt
		row.LoggedInAt = &t
	}
	for id, q := range c.Quests {
		row.Quests[id] = persist.QuestStateRow{
			State: q.State, Done: q.Done, Counters: q.Counters,
		}
	}
	for _, it := range c.Items {
		row.Items = append(row.Items, persist.ItemRow{ItemID: it.ID, Amount: it.Amount})
	}
	for _, it := range c.BankItems {
		row.Bank = append(row.Bank, persist.ItemRow{ItemID: it.ID, Amount: it.Amount})
	}
	for slot, id := range c.Paperdoll {
		if id != 0 {
			row.Paperdoll = append(row.Paperdoll, persist.PaperdollRow{Slot: slot, ItemID: id})
		}
	}
	row.Spells = append(row.Spells, c.Spells...)
	return row
}

// CharacterFromRow builds a live character from a persisted row. Derived
// stats are not yet computed; callers run Recalculate once tables are at
// hand.
func CharacterFromRow(row *persist.CharacterRow) *Character {
	c := &Character{
		ID:        row.ID,
		AccountID: row.AccountID,
		Name:      row.Name,
		Title:     row.Title,
		Home:      row.Home,
		Fiance:    row.Fiance,
		Partner:   row.Partner,

		AdminLevel: AdminLevel(row.AdminLevel),
		Class:      row.Class,
		Gender:     row.Gender,
		Race:       row.Race,
		HairStyle:  row.HairStyle,
		HairColor:  row.HairColor,

		MapID:     row.MapID,
		X:         row.X,
		Y:         row.Y,
		Direction: Direction(row.Direction),

		Level: row.Level,
		Exp:   row.Exp,
		HP:    row.HP,
		TP:    row.TP,

		Str: row.Str, Intl: row.Intl, Wis: row.Wis, Agi: row.Agi, Con: row.Con, Cha: row.Cha,
		StatPoints:  row.StatPoints,
		SkillPoints: row.SkillPoints,
		Karma:       row.Karma,

		SitState: SitState(row.SitState),
		Hidden:   row.Hidden,

		GoldBank:  row.GoldBank,
		BankLevel: row.BankLevel,

		GuildTag:        row.GuildTag,
		GuildRank:       row.GuildRank,
		GuildRankString: row.GuildRankString,

		Quests: map[int]*QuestProgress{},

		ChestIndex: -1,
	}
	if row.LoggedInAt != nil {
		c.LoggedInAt = *row.LoggedInAt
	}
	for id, q := range row.Quests {
		c.Quests[id] = &QuestProgress{State: q.State, Done: q.Done, Counters: q.Counters}
	}
	for _, it := range row.Items {
		c.Items = append(c.Items, InvItem{ID: it.ItemID, Amount: it.Amount})
	}
	for _, it := range row.Bank {
		c.BankItems = append(c.BankItems, InvItem{ID: it.ItemID, Amount: it.Amount})
	}
	for _, p := range row.Paperdoll {
		if p.Slot >= 0 && p.Slot < PaperdollSlots {
			c.Paperdoll[p.Slot] = p.ItemID
		}
	}
	c.Spells = append(c.Spells, row.Spells...)
	return c
}
