package handler

import (
	"context"

	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
	"go.uber.org/zap"
)

// Welcome reply sub-codes.
const (
	welcomeSelect = 1
	welcomeFile   = 2
)

// HandleWelcomeRequest selects a character: loads it, computes derived
// stats and answers with the full character sheet. The character is held by
// the player actor until Welcome.Msg installs it on its map.
func HandleWelcomeRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	charID := r.GetInt()

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
	defer cancel()
	row, err := deps.CharRepo.Load(ctx, charID)
	if err != nil {
		deps.Log.Warn("character load failed", zap.Error(err))
		p.Conn.Close()
		return
	}
	if row == nil || row.AccountID != p.AccountID {
		p.Log.Info("welcome request for foreign character")
		p.Conn.Close()
		return
	}

	c := world.CharacterFromRow(row)
	c.PlayerID = p.ID
	c.Client = p
	c.Recalculate(deps.Items, deps.Classes)
	if c.HP <= 0 {
		c.HP = 1
	}

	// Characters saved on maps that no longer load fall back to the
	// rescue point.
	mapFile := deps.Maps.Get(c.MapID)
	if mapFile == nil {
		w := deps.Config.World
		c.MapID, c.X, c.Y = w.RescueMap, w.RescueX, w.RescueY
		mapFile = deps.Maps.Get(c.MapID)
		if mapFile == nil {
			p.Log.Error("rescue map not loaded")
			p.Conn.Close()
			return
		}
	}

	p.Character = c
	p.MapID = c.MapID
	p.SetState(packet.StateSelected)

	w := packet.NewWriter(packet.ActionReply, packet.FamilyWelcome)
	w.AddShort(welcomeSelect).
		AddShort(p.ID).
		AddInt(c.ID).
		AddShort(c.MapID).
		AddShort(mapFile.RevisionID).
		AddThree(mapFile.ByteSize).
		AddBreakString(c.Name).
		AddBreakString(c.Title).
		AddBreakString(c.GuildTag).
		AddBreakString(c.GuildRankString).
		AddChar(c.Class)
	tag := c.GuildTag
	for len(tag) < 3 {
		tag += " "
	}
	w.AddString(tag).
		AddChar(int(c.AdminLevel)).
		AddChar(c.Level).
		AddInt(int(c.Exp)).
		AddInt(0). // usage minutes, tracked client side
		AddShort(c.HP).
		AddShort(c.Stats.MaxHP).
		AddShort(c.TP).
		AddShort(c.Stats.MaxTP).
		AddShort(c.Stats.MaxSP).
		AddShort(c.StatPoints).
		AddShort(c.SkillPoints).
		AddShort(c.Karma).
		AddShort(c.Str).
		AddShort(c.Intl).
		AddShort(c.Wis).
		AddShort(c.Agi).
		AddShort(c.Con).
		AddShort(c.Cha).
		AddShort(c.Stats.MinDam).
		AddShort(c.Stats.MaxDam).
		AddShort(c.Stats.Accuracy).
		AddShort(c.Stats.Evade).
		AddShort(c.Stats.Armor)
	for _, id := range c.Paperdoll {
		w.AddShort(id)
	}
	w.AddChar(c.GuildRank).
		AddShort(deps.Config.World.JailMap).
		AddBreakString("OK")
	p.Send(w.Bytes())
}

// HandleWelcomeAgree answers client file requests. Game data ships with the
// client in this deployment, so the reply just acknowledges the request.
func HandleWelcomeAgree(p *player.Player, r *packet.Reader, deps *Deps) {
	fileType := r.GetChar()
	p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyWelcome).
		AddShort(welcomeFile).
		AddChar(fileType).
		Bytes())
}

// HandleWelcomeMsg completes entry: the held character is installed on its
// map and the world directory learns about it.
func HandleWelcomeMsg(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetThree() // client-echoed session value, informational
	charID := r.GetInt()

	c := p.Character
	if c == nil || c.ID != charID {
		p.Log.Info("welcome msg without selected character")
		p.Conn.Close()
		return
	}
	m := deps.World.Map(c.MapID)
	if m == nil {
		p.Conn.Close()
		return
	}

	p.Character = nil
	p.MapID = c.MapID
	deps.World.SetInGame(p.ID, c.ID, c.Name, c.MapID, c.AdminLevel, c.GuildTag)
	p.SetState(packet.StateInGame)

	news := deps.News
	m.Do(func(mm *world.Map) {
		mm.EnterWorld(c, news)
	})
	p.Log.Info("entered world", zap.String("name", c.Name), zap.Int("map", c.MapID))
}
