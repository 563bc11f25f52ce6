package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ItemRow is one stack in an inventory or bank listing.
type ItemRow struct {
	ItemID int
	Amount int
}

// PaperdollRow is one equipped slot.
type PaperdollRow struct {
	Slot   int
	ItemID int
}

// SpellRow is one learned spell.
type SpellRow struct {
	SpellID int
	Level   int
}

// QuestStateRow is a character's progress in one quest, serialized as JSON
// in the characters row.
type QuestStateRow struct {
	State    string         `json:"state"`
	Done     bool           `json:"done"`
	Counters map[string]int `json:"counters,omitempty"`
}

// CharacterRow is the full persisted picture of one character.
type CharacterRow struct {
	ID        int
	AccountID int
	Name      string
	Title     string
	Home      string
	Fiance    string
	Partner   string

	AdminLevel int
	Class      int
	Gender     int
	Race       int
	HairStyle  int
	HairColor  int

	MapID     int
	X, Y      int
	Direction int

	Level int
	Exp   int64
	HP    int
	TP    int

	Str, Intl, Wis, Agi, Con, Cha int
	StatPoints                    int
	SkillPoints                   int
	Karma                         int

	SitState int
	Hidden   bool

	GoldBank  int
	BankLevel int

	GuildTag        string
	GuildRank       int
	GuildRankString string

	Quests map[int]QuestStateRow

	Items     []ItemRow
	Bank      []ItemRow
	Paperdoll []PaperdollRow
	Spells    []SpellRow

	CreatedAt  time.Time
	LoggedInAt *time.Time
}

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

const characterColumns = `id, account_id, name, title, home, fiance, partner,
	admin_level, class, gender, race, hair_style, hair_color,
	map, x, y, direction, level, exp, hp, tp,
	str, intl, wis, agi, con, cha, stat_points, skill_points, karma,
	sit_state, hidden, gold_bank, bank_level,
	guild_tag, guild_rank, guild_rank_string, quest_state, created_at, logged_in_at`

func scanCharacter(row pgx.Row) (*CharacterRow, error) {
	c := &CharacterRow{}
	var questJSON []byte
	err := row.Scan(
		&c.ID, &c.AccountID, &c.Name, &c.Title, &c.Home, &c.Fiance, &c.Partner,
		&c.AdminLevel, &c.Class, &c.Gender, &c.Race, &c.HairStyle, &c.HairColor,
		&c.MapID, &c.X, &c.Y, &c.Direction, &c.Level, &c.Exp, &c.HP, &c.TP,
		&c.Str, &c.Intl, &c.Wis, &c.Agi, &c.Con, &c.Cha, &c.StatPoints, &c.SkillPoints, &c.Karma,
		&c.SitState, &c.Hidden, &c.GoldBank, &c.BankLevel,
		&c.GuildTag, &c.GuildRank, &c.GuildRankString, &questJSON, &c.CreatedAt, &c.LoggedInAt,
	)
	if err != nil {
		return nil, err
	}
	c.Quests = map[int]QuestStateRow{}
	if len(questJSON) > 0 {
		if err := json.Unmarshal(questJSON, &c.Quests); err != nil {
			return nil, fmt.Errorf("decode quest state of %q: %w", c.Name, err)
		}
	}
	return c, nil
}

// Load reads a character and its child rows, or nil when absent.
func (r *CharacterRepo) Load(ctx context.Context, id int) (*CharacterRow, error) {
	c, err := scanCharacter(r.db.Pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadByName reads a character by name, or nil when absent.
func (r *CharacterRepo) LoadByName(ctx context.Context, name string) (*CharacterRow, error) {
	c, err := scanCharacter(r.db.Pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE LOWER(name) = LOWER($1)`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CharacterRepo) loadChildren(ctx context.Context, c *CharacterRow) error {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT item_id, amount FROM inventory WHERE character_id = $1`, c.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var it ItemRow
		if err := rows.Scan(&it.ItemID, &it.Amount); err != nil {
			rows.Close()
			return err
		}
		c.Items = append(c.Items, it)
	}
	rows.Close()

	rows, err = r.db.Pool.Query(ctx,
		`SELECT item_id, amount FROM bank WHERE character_id = $1`, c.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var it ItemRow
		if err := rows.Scan(&it.ItemID, &it.Amount); err != nil {
			rows.Close()
			return err
		}
		c.Bank = append(c.Bank, it)
	}
	rows.Close()

	rows, err = r.db.Pool.Query(ctx,
		`SELECT slot, item_id FROM paperdoll WHERE character_id = $1`, c.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var p PaperdollRow
		if err := rows.Scan(&p.Slot, &p.ItemID); err != nil {
			rows.Close()
			return err
		}
		c.Paperdoll = append(c.Paperdoll, p)
	}
	rows.Close()

	rows, err = r.db.Pool.Query(ctx,
		`SELECT spell_id, level FROM spells WHERE character_id = $1`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var s SpellRow
		if err := rows.Scan(&s.SpellID, &s.Level); err != nil {
			return err
		}
		c.Spells = append(c.Spells, s)
	}
	return rows.Err()
}

// ListByAccount returns the account's characters oldest-first, child rows
// included so the login reply can render paperdolls.
func (r *CharacterRepo) ListByAccount(ctx context.Context, accountID int) ([]*CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	var out []*CharacterRow
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range out {
		if err := r.loadChildren(ctx, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CountByAccount returns how many characters the account owns.
func (r *CharacterRepo) CountByAccount(ctx context.Context, accountID int) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM characters WHERE account_id = $1`, accountID).Scan(&n)
	return n, err
}

// NameExists reports whether a character name is taken.
func (r *CharacterRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM characters WHERE LOWER(name) = LOWER($1)`, name).Scan(&n)
	return n > 0, err
}

// Create persists a brand-new character and its starting child rows.
func (r *CharacterRepo) Create(ctx context.Context, c *CharacterRow) error {
	questJSON, err := json.Marshal(c.Quests)
	if err != nil {
		return fmt.Errorf("encode quest state: %w", err)
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO characters
		   (account_id, name, title, home, fiance, partner, admin_level, class,
		    gender, race, hair_style, hair_color, map, x, y, direction, level,
		    exp, hp, tp, str, intl, wis, agi, con, cha, stat_points,
		    skill_points, karma, sit_state, hidden, gold_bank, bank_level,
		    guild_tag, guild_rank, guild_rank_string, quest_state)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
		         $18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,
		         $33,$34,$35,$36,$37)
		 RETURNING id, created_at`,
		c.AccountID, c.Name, c.Title, c.Home, c.Fiance, c.Partner, c.AdminLevel,
		c.Class, c.Gender, c.Race, c.HairStyle, c.HairColor, c.MapID, c.X, c.Y,
		c.Direction, c.Level, c.Exp, c.HP, c.TP, c.Str, c.Intl, c.Wis, c.Agi,
		c.Con, c.Cha, c.StatPoints, c.SkillPoints, c.Karma, c.SitState,
		c.Hidden, c.GoldBank, c.BankLevel, c.GuildTag, c.GuildRank,
		c.GuildRankString, questJSON,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}
	if err := writeChildren(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Save writes a full character snapshot in one transaction. Child rows are
// replaced wholesale; the snapshot is the single source of truth.
func (r *CharacterRepo) Save(ctx context.Context, c *CharacterRow) error {
	questJSON, err := json.Marshal(c.Quests)
	if err != nil {
		return fmt.Errorf("encode quest state: %w", err)
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE characters SET
		   title=$2, home=$3, fiance=$4, partner=$5, admin_level=$6, class=$7,
		   gender=$8, race=$9, hair_style=$10, hair_color=$11, map=$12, x=$13,
		   y=$14, direction=$15, level=$16, exp=$17, hp=$18, tp=$19, str=$20,
		   intl=$21, wis=$22, agi=$23, con=$24, cha=$25, stat_points=$26,
		   skill_points=$27, karma=$28, sit_state=$29, hidden=$30,
		   gold_bank=$31, bank_level=$32, guild_tag=$33, guild_rank=$34,
		   guild_rank_string=$35, quest_state=$36, logged_in_at=$37
		 WHERE id = $1`,
		c.ID, c.Title, c.Home, c.Fiance, c.Partner, c.AdminLevel, c.Class,
		c.Gender, c.Race, c.HairStyle, c.HairColor, c.MapID, c.X, c.Y,
		c.Direction, c.Level, c.Exp, c.HP, c.TP, c.Str, c.Intl, c.Wis, c.Agi,
		c.Con, c.Cha, c.StatPoints, c.SkillPoints, c.Karma, c.SitState,
		c.Hidden, c.GoldBank, c.BankLevel, c.GuildTag, c.GuildRank,
		c.GuildRankString, questJSON, c.LoggedInAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %d vanished during save", c.ID)
	}

	for _, table := range []string{"inventory", "bank", "paperdoll", "spells"} {
		if _, err := tx.Exec(ctx,
			`DELETE FROM `+table+` WHERE character_id = $1`, c.ID); err != nil {
			return err
		}
	}
	if err := writeChildren(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func writeChildren(ctx context.Context, tx pgx.Tx, c *CharacterRow) error {
	for _, it := range c.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO inventory (character_id, item_id, amount) VALUES ($1,$2,$3)`,
			c.ID, it.ItemID, it.Amount); err != nil {
			return err
		}
	}
	for _, it := range c.Bank {
		if _, err := tx.Exec(ctx,
			`INSERT INTO bank (character_id, item_id, amount) VALUES ($1,$2,$3)`,
			c.ID, it.ItemID, it.Amount); err != nil {
			return err
		}
	}
	for _, p := range c.Paperdoll {
		if _, err := tx.Exec(ctx,
			`INSERT INTO paperdoll (character_id, slot, item_id) VALUES ($1,$2,$3)`,
			c.ID, p.Slot, p.ItemID); err != nil {
			return err
		}
	}
	for _, s := range c.Spells {
		if _, err := tx.Exec(ctx,
			`INSERT INTO spells (character_id, spell_id, level) VALUES ($1,$2,$3)`,
			c.ID, s.SpellID, s.Level); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a character; child rows cascade.
func (r *CharacterRepo) Delete(ctx context.Context, id, accountID int) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM characters WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %d not owned by account %d", id, accountID)
	}
	return nil
}

// SetGuild updates the guild columns for every named member in one shot,
// used when a guild is created, renamed or disbanded.
func (r *CharacterRepo) SetGuild(ctx context.Context, names []string, tag, rankString string, rank int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET guild_tag = $2, guild_rank = $3, guild_rank_string = $4
		 WHERE LOWER(name) = ANY($1)`,
		lowered(names), tag, rank, rankString)
	return err
}

func lowered(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = toLower(n)
	}
	return out
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
