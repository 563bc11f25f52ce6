package world

import (
	"github.com/eogo/server/internal/config"
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/persist"
	"go.uber.org/zap"
)

// Deps bundles the read-only tables, tuning knobs and repositories every
// actor needs. Content tables are immutable after boot, so any goroutine may
// read them freely.
type Deps struct {
	Cfg *config.Config
	Log *zap.Logger

	Items        *data.ItemTable
	Npcs         *data.NpcTable
	Classes      *data.ClassTable
	Spells       *data.SpellTable
	Shops        *data.ShopTable
	Inns         *data.InnTable
	SkillMasters *data.SkillMasterTable
	Arenas       *data.ArenaTable
	Quests       *data.QuestTable
	Maps         *data.MapTable
	Lang         *data.Lang

	// Repos may be nil in tests; code paths that use them must tolerate
	// that by skipping persistence, never by panicking.
	Chars  *persist.CharacterRepo
	Boards *persist.BoardRepo
	Guilds *persist.GuildRepo
	Bans   *persist.BanRepo
}

// World returns the tuning section most map code cares about.
func (d *Deps) World() *config.WorldConfig {
	return &d.Cfg.World
}
