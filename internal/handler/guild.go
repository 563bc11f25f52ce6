package handler

import (
	"context"

	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
	"go.uber.org/zap"
)

// HandleGuildOpen starts a guild-master dialog.
func HandleGuildOpen(p *player.Player, r *packet.Reader, deps *Deps) {
	npcIndex := r.GetShort()
	onMap(p, func(m *world.Map) {
		m.OpenGuild(p.ID, npcIndex)
	})
}

// HandleGuildRequest announces a founding attempt. Nearby players see an
// invitation they can accept; the final Guild.Create consumes the roster.
func HandleGuildRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetThree() // session, consumed by the final create
	tag := r.GetBreakString()
	name := r.GetBreakString()
	if tag == "" || name == "" {
		return
	}
	p.GuildCreate = player.GuildCreateState{Tag: tag, Name: name}
	onMap(p, func(m *world.Map) {
		m.AnnounceGuildCreate(p.ID, name)
	})
}

// HandleGuildAccept registers this player as a co-founder on the
// announcing player's roster.
func HandleGuildAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	creatorID := r.GetShort()
	creator, ok := deps.World.Entry(creatorID)
	if !ok || creatorID == p.ID {
		return
	}
	if cp, ok := creator.Client.(*player.Player); ok {
		cp.AddGuildFounder(p.ID)
		p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyGuild).
			AddShort(world.GuildReplyAccepted).
			Bytes())
	}
}

// HandleGuildCreate finalizes the founding with the collected roster.
func HandleGuildCreate(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetThree()
	tag := r.GetBreakString()
	name := r.GetBreakString()
	description := r.GetBreakString()

	roster := p.GuildCreate
	p.GuildCreate = player.GuildCreateState{}
	if tag != roster.Tag || name != roster.Name {
		return
	}
	members := roster.Members
	onMap(p, func(m *world.Map) {
		m.CreateGuild(p.ID, session, tag, name, description, members)
	})
}

// HandleGuildAgree joins an existing guild through an online recruiter.
func HandleGuildAgree(p *player.Player, r *packet.Reader, deps *Deps) {
	_ = r.GetThree() // guild-master session, already checked on open
	recruiterID := r.GetShort()
	recruiter, ok := deps.World.Entry(recruiterID)
	if !ok || recruiterID == p.ID {
		return
	}
	own := deps.World.Map(p.MapID)
	if own == nil {
		return
	}
	ownTag := world.Call(own, func(mm *world.Map) string {
		t, _ := mm.GuildInfo(p.ID)
		return t
	})
	if ownTag != "" {
		p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyGuild).
			AddShort(world.GuildReplyAlreadyIn).
			Bytes())
		return
	}
	rm := deps.World.Map(recruiter.MapID)
	if rm == nil {
		return
	}
	info := world.Call(rm, func(mm *world.Map) guildInfo {
		tag, rank := mm.GuildInfo(recruiterID)
		return guildInfo{tag: tag, rank: rank}
	})
	if info.tag == "" {
		p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyGuild).
			AddShort(world.GuildReplyNoCandidate).
			Bytes())
		return
	}
	deps.World.JoinGuild(p.ID, info.tag)
}

// HandleGuildBuy deposits gold into the guild bank.
func HandleGuildBuy(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetThree()
	amount := r.GetInt()
	onMap(p, func(m *world.Map) {
		m.GuildDeposit(p.ID, session, amount)
	})
}

// HandleGuildRemove leaves the guild.
func HandleGuildRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	onMap(p, func(m *world.Map) {
		m.LeaveGuild(p.ID)
	})
}

type guildInfo struct {
	tag  string
	rank int
}

// HandleGuildKick expels a named member; leaders and founders only.
func HandleGuildKick(p *player.Player, r *packet.Reader, deps *Deps) {
	name := r.GetBreakString()
	m := deps.World.Map(p.MapID)
	if m == nil || name == "" {
		return
	}
	info := world.Call(m, func(mm *world.Map) guildInfo {
		tag, rank := mm.GuildInfo(p.ID)
		return guildInfo{tag: tag, rank: rank}
	})
	if info.tag == "" || info.rank > 2 {
		return
	}
	deps.World.GuildKick(info.tag, name)
}

// HandleGuildTell lists the whole guild roster from persistence.
func HandleGuildTell(p *player.Player, r *packet.Reader, deps *Deps) {
	m := deps.World.Map(p.MapID)
	if m == nil || deps.GuildRepo == nil {
		return
	}
	tag := world.Call(m, func(mm *world.Map) string {
		t, _ := mm.GuildInfo(p.ID)
		return t
	})
	if tag == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
		defer cancel()
		names, err := deps.GuildRepo.MemberNames(ctx, tag)
		if err != nil {
			deps.Log.Warn("guild member list failed", zap.Error(err))
			return
		}
		w := packet.NewWriter(packet.ActionTell, packet.FamilyGuild).
			AddShort(len(names)).
			AddByte(packet.Break)
		for _, n := range names {
			w.AddBreakString(n)
		}
		p.Send(w.Bytes())
	}()
}
