package world

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/persist"
	"go.uber.org/zap"
)

// PlayerEntry is the registry's view of one live connection.
type PlayerEntry struct {
	ID          int
	AccountID   int
	CharacterID int
	Name        string // character name once in game
	MapID       int
	Admin       AdminLevel
	Client      Client
}

type connInfo struct {
	count    int
	lastSeen time.Time
}

// World is the process-wide registry: players, maps, parties, guild
// membership cache, mutes and the per-IP connection log. Lookups are
// mutex-guarded so map actors can read synchronously; the tick loop is the
// only long-lived goroutine.
type World struct {
	deps *Deps
	log  *zap.Logger

	maps map[int]*Map // immutable after NewWorld

	mu       sync.RWMutex
	players  map[int]*PlayerEntry
	names    map[string]int // lowercased character name -> player id
	accounts map[int]int    // account id -> player id
	guilds   map[string]map[int]bool
	mutes    map[string]time.Time
	connLog  map[string]*connInfo

	Parties *PartyList

	done     chan struct{}
	stopOnce sync.Once
}

// NewWorld builds the registry and one actor per loaded map.
func NewWorld(deps *Deps) *World {
	w := &World{
		deps:     deps,
		log:      deps.Log.Named("world"),
		maps:     make(map[int]*Map),
		players:  make(map[int]*PlayerEntry),
		names:    make(map[string]int),
		accounts: make(map[int]int),
		guilds:   make(map[string]map[int]bool),
		mutes:    make(map[string]time.Time),
		connLog:  make(map[string]*connInfo),
		Parties:  NewPartyList(),
		done:     make(chan struct{}),
	}
	deps.Maps.All(func(mf *data.MapFile) {
		w.maps[mf.ID] = newMap(mf.ID, mf, deps, w)
	})
	return w
}

// Run starts every map actor and drives the world clock until ctx ends.
func (w *World) Run(ctx context.Context) {
	for _, m := range w.maps {
		go m.Run(ctx)
	}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.tick()
		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown stops the clock and every map actor.
func (w *World) Shutdown() {
	w.stopOnce.Do(func() {
		close(w.done)
		for _, m := range w.maps {
			m.Stop()
		}
	})
}

// tick runs once per second: per-map timers, save flush, connection-log
// pruning and mute expiry.
func (w *World) tick() {
	for _, m := range w.maps {
		m.Do(func(mm *Map) {
			mm.Tick()
			w.flushSaves(mm.drainSaves())
		})
	}

	w.mu.Lock()
	cutoff := time.Now().Add(-time.Hour)
	for ip, info := range w.connLog {
		if info.count == 0 && info.lastSeen.Before(cutoff) {
			delete(w.connLog, ip)
		}
	}
	now := time.Now()
	for name, until := range w.mutes {
		if until.Before(now) {
			delete(w.mutes, name)
		}
	}
	w.mu.Unlock()
}

// flushSaves persists character snapshots off the actor goroutines.
func (w *World) flushSaves(saves []*characterSave) {
	if len(saves) == 0 || w.deps.Chars == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, s := range saves {
			if err := w.deps.Chars.Save(ctx, s.Row); err != nil {
				w.log.Warn("character save failed",
					zap.String("name", s.Name), zap.Error(err))
			}
		}
	}()
}

// Map returns the actor for a map id, or nil for unknown maps.
func (w *World) Map(id int) *Map {
	return w.maps[id]
}

// ── Connections and player ids ─────────────────────────────────────

// RegisterConnection admits an IP under the per-IP cap and the reconnect
// throttle. Returns false when the connection must be refused.
func (w *World) RegisterConnection(ip string) bool {
	cfg := w.deps.Cfg
	w.mu.Lock()
	defer w.mu.Unlock()
	info := w.connLog[ip]
	if info == nil {
		info = &connInfo{}
		w.connLog[ip] = info
	}
	if cfg.Server.MaxConnectionsPerIP > 0 && info.count >= cfg.Server.MaxConnectionsPerIP {
		return false
	}
	if cfg.Server.IPReconnectLimit > 0 &&
		time.Since(info.lastSeen) < cfg.Server.IPReconnectLimit &&
		info.count > 0 {
		return false
	}
	info.count++
	info.lastSeen = time.Now()
	return true
}

// UnregisterConnection releases one slot for the IP.
func (w *World) UnregisterConnection(ip string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if info := w.connLog[ip]; info != nil && info.count > 0 {
		info.count--
	}
}

// AddPlayer assigns the lowest free player id to a connection.
func (w *World) AddPlayer(client Client) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := 1
	for {
		if _, taken := w.players[id]; !taken {
			break
		}
		id++
	}
	w.players[id] = &PlayerEntry{ID: id, Client: client}
	return id
}

// RemovePlayer drops a connection's registry state: name map, account set,
// guild cache and party membership.
func (w *World) RemovePlayer(playerID int) {
	w.mu.Lock()
	e := w.players[playerID]
	delete(w.players, playerID)
	if e != nil {
		if e.Name != "" {
			delete(w.names, strings.ToLower(e.Name))
		}
		if e.AccountID != 0 && w.accounts[e.AccountID] == playerID {
			delete(w.accounts, e.AccountID)
		}
		for _, members := range w.guilds {
			delete(members, playerID)
		}
	}
	w.mu.Unlock()

	if e == nil {
		return
	}
	if remaining, was := w.Parties.Leave(playerID); was {
		w.sendPartyList(remaining)
	}
}

// SetLoggedIn claims the account for a connection. False means another
// connection already holds it.
func (w *World) SetLoggedIn(playerID, accountID int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, active := w.accounts[accountID]; active {
		return false
	}
	e := w.players[playerID]
	if e == nil {
		return false
	}
	e.AccountID = accountID
	w.accounts[accountID] = playerID
	return true
}

// SetInGame publishes the selected character to the directory.
func (w *World) SetInGame(playerID, characterID int, name string, mapID int, admin AdminLevel, guildTag string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e := w.players[playerID]
	if e == nil {
		return
	}
	e.CharacterID = characterID
	e.Name = name
	e.MapID = mapID
	e.Admin = admin
	w.names[strings.ToLower(name)] = playerID
	if guildTag != "" {
		w.cacheGuildMemberLocked(guildTag, playerID)
	}
}

func (w *World) cacheGuildMemberLocked(tag string, playerID int) {
	tag = strings.ToUpper(tag)
	if w.guilds[tag] == nil {
		w.guilds[tag] = make(map[int]bool)
	}
	w.guilds[tag][playerID] = true
}

// SetPlayerMap records a completed warp.
func (w *World) SetPlayerMap(playerID, mapID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e := w.players[playerID]; e != nil {
		e.MapID = mapID
	}
}

// Entry returns a copy of the registry row for a player id.
func (w *World) Entry(playerID int) (PlayerEntry, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e := w.players[playerID]
	if e == nil {
		return PlayerEntry{}, false
	}
	return *e, true
}

// FindByName resolves an in-game character name.
func (w *World) FindByName(name string) (PlayerEntry, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.names[strings.ToLower(name)]
	if !ok {
		return PlayerEntry{}, false
	}
	e := w.players[id]
	if e == nil {
		return PlayerEntry{}, false
	}
	return *e, true
}

// OnlineNames lists every in-game character name.
func (w *World) OnlineNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.names))
	for _, id := range w.names {
		if e := w.players[id]; e != nil && e.Name != "" {
			out = append(out, e.Name)
		}
	}
	return out
}

// PlayerCount returns the number of live connections.
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}

// ── Chat ───────────────────────────────────────────────────────────

// Muted reports whether a character name is muted.
func (w *World) Muted(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	until, ok := w.mutes[strings.ToLower(name)]
	return ok && until.After(time.Now())
}

// Mute silences a character name for a duration.
func (w *World) Mute(name string, d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mutes[strings.ToLower(name)] = time.Now().Add(d)
}

// clientsSnapshot copies the live send surfaces under the read lock.
func (w *World) clientsSnapshot(filter func(*PlayerEntry) bool) []Client {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Client
	for _, e := range w.players {
		if e.Client == nil || e.Name == "" {
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		out = append(out, e.Client)
	}
	return out
}

// GlobalChat sends to every in-game player except the speaker.
func (w *World) GlobalChat(fromID int, fromName, message string) {
	if w.Muted(fromName) {
		return
	}
	body := packet.NewWriter(packet.ActionMsg, packet.FamilyTalk).
		AddBreakString(fromName).
		AddString(message).
		Bytes()
	for _, cl := range w.clientsSnapshot(func(e *PlayerEntry) bool { return e.ID != fromID }) {
		cl.Send(body)
	}
}

// AdminChat reaches guardians and above.
func (w *World) AdminChat(fromID int, fromName, message string) {
	body := packet.NewWriter(packet.ActionAdmin, packet.FamilyTalk).
		AddBreakString(fromName).
		AddString(message).
		Bytes()
	for _, cl := range w.clientsSnapshot(func(e *PlayerEntry) bool {
		return e.ID != fromID && e.Admin >= AdminGuardian
	}) {
		cl.Send(body)
	}
}

const (
	reportKindTell   = 1
	reportKindReport = 2
)

// ReportToAdmins forwards a help request or a player report to every online
// guardian. target is empty for plain help requests.
func (w *World) ReportToAdmins(fromName, target, message string) {
	wtr := packet.NewWriter(packet.ActionReply, packet.FamilyAdminInteract)
	if target == "" {
		wtr.AddChar(reportKindTell)
	} else {
		wtr.AddChar(reportKindReport)
	}
	wtr.AddBreakString(fromName)
	if target != "" {
		wtr.AddBreakString(target)
	}
	wtr.AddString(message)
	body := wtr.Bytes()
	for _, cl := range w.clientsSnapshot(func(e *PlayerEntry) bool {
		return e.Admin >= AdminGuardian
	}) {
		cl.Send(body)
	}
}

// Announce reaches everyone including the speaker.
func (w *World) Announce(fromName, message string) {
	body := packet.NewWriter(packet.ActionAnnounce, packet.FamilyTalk).
		AddBreakString(fromName).
		AddString(message).
		Bytes()
	for _, cl := range w.clientsSnapshot(nil) {
		cl.Send(body)
	}
}

// Tell routes a private message cross-map. The sender gets a not-found
// reply when the target is offline.
func (w *World) Tell(fromID int, fromName, toName, message string) {
	if w.Muted(fromName) {
		return
	}
	target, ok := w.FindByName(toName)
	if !ok || target.Client == nil {
		from, okFrom := w.Entry(fromID)
		if okFrom && from.Client != nil {
			from.Client.Send(packet.NewWriter(packet.ActionReply, packet.FamilyTalk).
				AddShort(1).
				AddBreakString(toName).
				Bytes())
		}
		return
	}
	target.Client.Send(packet.NewWriter(packet.ActionTell, packet.FamilyTalk).
		AddBreakString(fromName).
		AddString(message).
		Bytes())
}

// ── Parties ────────────────────────────────────────────────────────

// PartyMemberIDs is read synchronously from map actors during group casts.
func (w *World) PartyMemberIDs(playerID int) []int {
	return w.Parties.MemberIDs(playerID)
}

// PartyForm starts a party of inviter and acceptor.
func (w *World) PartyForm(leaderID, memberID int) bool {
	p := w.Parties.Form(leaderID, memberID)
	if p == nil {
		return false
	}
	w.sendPartyList(p.Members)
	return true
}

// PartyJoin adds a player to an existing party led by leaderID.
func (w *World) PartyJoin(leaderID, memberID int) bool {
	p := w.Parties.Join(leaderID, memberID, w.deps.World().PartyMaxSize)
	if p == nil {
		return false
	}
	w.sendPartyList(p.Members)
	return true
}

// PartyLeave removes a player and refreshes the survivors.
func (w *World) PartyLeave(playerID int) {
	remaining, was := w.Parties.Leave(playerID)
	if !was {
		return
	}
	if e, ok := w.Entry(playerID); ok && e.Client != nil {
		e.Client.Send(packet.NewWriter(packet.ActionClose, packet.FamilyParty).
			AddShort(playerID).
			Bytes())
	}
	w.sendPartyList(remaining)
}

// PartyKick removes a member at the leader's request.
func (w *World) PartyKick(leaderID, memberID int) {
	p := w.Parties.Of(leaderID)
	if p == nil || p.Leader != leaderID || !p.Contains(memberID) {
		return
	}
	w.PartyLeave(memberID)
}

// RefreshParty resends the roster to the player's whole party.
func (w *World) RefreshParty(playerID int) {
	w.sendPartyList(w.Parties.MemberIDs(playerID))
}

// sendPartyList pushes the full roster to every listed member.
func (w *World) sendPartyList(memberIDs []int) {
	if len(memberIDs) == 0 {
		return
	}
	p := w.Parties.Of(memberIDs[0])
	body := packet.NewWriter(packet.ActionList, packet.FamilyParty)
	for _, id := range memberIDs {
		e, ok := w.Entry(id)
		if !ok {
			continue
		}
		isLeader := 0
		if p != nil && p.Leader == id {
			isLeader = 1
		}
		body.AddShort(id).
			AddChar(isLeader).
			AddChar(100). // hp percent refreshes on the next recover tick
			AddBreakString(e.Name)
	}
	raw := body.Bytes()
	for _, id := range memberIDs {
		if e, ok := w.Entry(id); ok && e.Client != nil {
			e.Client.Send(raw)
		}
	}
}

// NotifyPartyHP shares a member's hp bar with the rest of its party.
// Called from map actors after recovery and damage.
func (w *World) NotifyPartyHP(playerID, hp, maxHP int) {
	members := w.Parties.MemberIDs(playerID)
	if members == nil {
		return
	}
	percent := 0
	if maxHP > 0 {
		percent = hp * 100 / maxHP
	}
	body := packet.NewWriter(packet.ActionAgree, packet.FamilyParty).
		AddShort(playerID).
		AddChar(percent).
		Bytes()
	for _, id := range members {
		if id == playerID {
			continue
		}
		if e, ok := w.Entry(id); ok && e.Client != nil {
			e.Client.Send(body)
		}
	}
}

// ── Guilds ─────────────────────────────────────────────────────────

// FoundGuild persists a new guild and installs every founder. Called from
// a map actor after the fee was taken; failure refunds through the map.
func (w *World) FoundGuild(creatorID int, tag, name, description string, founderIDs []int, cost int) {
	creator, ok := w.Entry(creatorID)
	if !ok || w.deps.Guilds == nil {
		return
	}
	refund := func(code int) {
		if m := w.maps[creator.MapID]; m != nil {
			m.Do(func(mm *Map) { mm.refundGuildCost(creatorID, cost, code) })
		}
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		taken, err := w.deps.Guilds.TagOrNameTaken(ctx, tag, name)
		if err != nil {
			w.log.Warn("guild lookup failed", zap.Error(err))
			refund(GuildReplyBusy)
			return
		}
		if taken {
			refund(GuildReplyExists)
			return
		}
		row := &persist.GuildRow{Tag: tag, Name: name, Description: description}
		row.Ranks[0] = "Leader"
		row.Ranks[1] = "Founder"
		row.Ranks[8] = "Member"
		if err := w.deps.Guilds.Create(ctx, row); err != nil {
			w.log.Warn("guild create failed", zap.Error(err))
			refund(GuildReplyBusy)
			return
		}
		w.log.Info("guild founded", zap.String("tag", tag), zap.String("name", name))

		install := func(id int, rank int, rankString string) {
			e, ok := w.Entry(id)
			if !ok {
				return
			}
			w.mu.Lock()
			w.cacheGuildMemberLocked(tag, id)
			w.mu.Unlock()
			if w.deps.Chars != nil && e.Name != "" {
				if err := w.deps.Chars.SetGuild(ctx, []string{e.Name}, tag, rankString, rank); err != nil {
					w.log.Warn("guild member persist failed",
						zap.String("name", e.Name), zap.Error(err))
				}
			}
			if m := w.maps[e.MapID]; m != nil {
				m.Do(func(mm *Map) { mm.setGuild(id, tag, rankString, rank) })
			}
		}
		install(creatorID, 1, "Leader")
		for _, id := range founderIDs {
			install(id, 2, "Founder")
		}
	}()
}

// GuildBankDeposit credits the guild bank after the map took the gold.
func (w *World) GuildBankDeposit(playerID int, tag string, amount int) {
	if w.deps.Guilds == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		balance, err := w.deps.Guilds.AddBank(ctx, tag, amount)
		if err != nil {
			w.log.Warn("guild deposit failed", zap.String("tag", tag), zap.Error(err))
			return
		}
		if e, ok := w.Entry(playerID); ok && e.Client != nil {
			e.Client.Send(packet.NewWriter(packet.ActionBuy, packet.FamilyGuild).
				AddInt(balance).
				Bytes())
		}
	}()
}

// GuildMemberLeft updates the cache and persistence after a map removed
// the member.
func (w *World) GuildMemberLeft(playerID int, name, tag string) {
	w.mu.Lock()
	if members := w.guilds[strings.ToUpper(tag)]; members != nil {
		delete(members, playerID)
	}
	w.mu.Unlock()
	if w.deps.Chars == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.deps.Chars.SetGuild(ctx, []string{name}, "", "", 0); err != nil {
			w.log.Warn("guild leave persist failed", zap.String("name", name), zap.Error(err))
		}
	}()
}

// GuildKick removes a named member from a guild. Online members lose the
// tag through their map actor; offline members are updated in place.
func (w *World) GuildKick(tag, name string) {
	tag = strings.ToUpper(tag)
	if e, ok := w.FindByName(name); ok {
		w.mu.Lock()
		if members := w.guilds[tag]; members != nil {
			delete(members, e.ID)
		}
		w.mu.Unlock()
		if m := w.maps[e.MapID]; m != nil {
			id := e.ID
			m.Do(func(mm *Map) { mm.setGuild(id, "", "", 0) })
		}
	}
	if w.deps.Chars == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.deps.Chars.SetGuild(ctx, []string{name}, "", "", 0); err != nil {
			w.log.Warn("guild kick persist failed", zap.String("name", name), zap.Error(err))
		}
	}()
}

// JoinGuild recruits an online player into an existing guild at the
// lowest rank.
func (w *World) JoinGuild(playerID int, tag string) {
	tag = strings.ToUpper(tag)
	e, ok := w.Entry(playerID)
	if !ok || e.Name == "" || w.deps.Guilds == nil || w.deps.Chars == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		g, err := w.deps.Guilds.Load(ctx, tag)
		if err != nil || g == nil {
			return
		}
		rankString := g.Ranks[8]
		if rankString == "" {
			rankString = "Member"
		}
		if err := w.deps.Chars.SetGuild(ctx, []string{e.Name}, tag, rankString, 9); err != nil {
			w.log.Warn("guild join persist failed", zap.String("name", e.Name), zap.Error(err))
			return
		}
		w.mu.Lock()
		w.cacheGuildMemberLocked(tag, playerID)
		w.mu.Unlock()
		if m := w.Map(e.MapID); m != nil {
			m.Do(func(mm *Map) { mm.setGuild(playerID, tag, rankString, 9) })
		}
	}()
}

// GuildOnlineMembers lists the online players wearing a tag.
func (w *World) GuildOnlineMembers(tag string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []string
	for id := range w.guilds[strings.ToUpper(tag)] {
		if e := w.players[id]; e != nil && e.Name != "" {
			out = append(out, e.Name)
		}
	}
	return out
}

// Logout removes a resident character from its map, queues a final save,
// and drops the registry rows. Safe for connections that never got in game.
func (w *World) Logout(playerID int) {
	e, ok := w.Entry(playerID)
	if ok && e.Name != "" {
		if m := w.maps[e.MapID]; m != nil {
			m.Do(func(mm *Map) {
				if c := mm.Leave(playerID, 0); c != nil {
					w.flushSaves([]*characterSave{{Name: c.Name, Row: c.Snapshot()}})
				}
			})
		}
	}
	w.RemovePlayer(playerID)
}

// SaveCharacter persists one snapshot asynchronously. Used when the player
// actor holds the character outside any map (mid-warp disconnect).
func (w *World) SaveCharacter(name string, row *persist.CharacterRow) {
	w.flushSaves([]*characterSave{{Name: name, Row: row}})
}

// ── Administration ─────────────────────────────────────────────────

// Jail warps a player to the jail coordinates.
func (w *World) Jail(name string) bool {
	e, ok := w.FindByName(name)
	if !ok || e.Client == nil {
		return false
	}
	cfg := w.deps.World()
	e.Client.RequestWarp(cfg.JailMap, cfg.JailX, cfg.JailY, false)
	return true
}

// Free warps a jailed player to the rescue point.
func (w *World) Free(name string) bool {
	e, ok := w.FindByName(name)
	if !ok || e.Client == nil {
		return false
	}
	cfg := w.deps.World()
	e.Client.RequestWarp(cfg.RescueMap, cfg.RescueX, cfg.RescueY, false)
	return true
}

// Kick closes a player's connection.
func (w *World) Kick(name, reason string) bool {
	e, ok := w.FindByName(name)
	if !ok || e.Client == nil {
		return false
	}
	e.Client.CloseReason(reason)
	return true
}

// Ban records an IP ban and kicks the player. Zero minutes is permanent.
func (w *World) Ban(name, ip string, minutes int, byAccountID int) {
	if w.deps.Bans != nil {
		var expires *time.Time
		if minutes > 0 {
			t := time.Now().Add(time.Duration(minutes) * time.Minute)
			expires = &t
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := w.deps.Bans.Insert(ctx, ip, "", byAccountID, expires); err != nil {
				w.log.Warn("ban insert failed", zap.String("ip", ip), zap.Error(err))
			}
		}()
	}
	w.Kick(name, "banned")
}

// DivorceOffline clears the partner column of a character not currently
// resident anywhere.
func (w *World) DivorceOffline(name string) {
	if w.deps.Chars == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		row, err := w.deps.Chars.LoadByName(ctx, name)
		if err != nil || row == nil {
			return
		}
		row.Partner = ""
		row.Fiance = ""
		if err := w.deps.Chars.Save(ctx, row); err != nil {
			w.log.Warn("divorce persist failed", zap.String("name", name), zap.Error(err))
		}
	}()
}
