package handler

import (
	"context"
	"strings"

	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/persist"
	"github.com/eogo/server/internal/player"
	"go.uber.org/zap"
)

// Character reply codes.
const (
	charExists   = 1
	charFull     = 2
	charNotOK    = 4
	charOK       = 5
	charDeleted  = 6
	charContinue = 1000
)

// HandleCharacterRequest opens the create dialog with a fresh nonce.
func HandleCharacterRequest(p *player.Player, r *packet.Reader, deps *Deps) {
	p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyCharacter).
		AddShort(charContinue).
		AddShort(p.NewSessionID()).
		AddBreakString("OK").
		Bytes())
}

// HandleCharacterCreate validates the nonce and the name, enforces the
// per-account cap, and persists the new character.
func HandleCharacterCreate(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetShort()
	gender := r.GetShort()
	hairStyle := r.GetShort()
	hairColor := r.GetShort()
	race := r.GetShort()
	_ = r.GetByte()
	name := strings.ToLower(strings.TrimSpace(r.GetBreakString()))

	if !p.ConsumeSessionID(session) {
		p.Log.Info("character create with stale session")
		p.Conn.Close()
		return
	}
	if !validCharacterName(name) || gender > 1 || hairStyle > 20 || hairColor > 9 {
		sendCharacterReply(p, charNotOK)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
	defer cancel()

	count, err := deps.CharRepo.CountByAccount(ctx, p.AccountID)
	if err != nil {
		deps.Log.Warn("character count failed", zap.Error(err))
		sendCharacterReply(p, charNotOK)
		return
	}
	if count >= deps.Config.Account.MaxCharacters {
		sendCharacterReply(p, charFull)
		return
	}
	taken, err := deps.CharRepo.NameExists(ctx, name)
	if err != nil || taken {
		sendCharacterReply(p, charExists)
		return
	}

	row := newCharacterRow(p.AccountID, name, gender, hairStyle, hairColor, race, deps)
	if err := deps.CharRepo.Create(ctx, row); err != nil {
		deps.Log.Warn("character create failed", zap.Error(err))
		sendCharacterReply(p, charExists)
		return
	}

	chars, err := deps.CharRepo.ListByAccount(ctx, p.AccountID)
	if err != nil {
		deps.Log.Warn("character list failed", zap.Error(err))
	}
	reply := packet.NewWriter(packet.ActionReply, packet.FamilyCharacter).
		AddShort(charOK)
	appendCharacterList(reply, chars, deps)
	p.Send(reply.Bytes())
	p.Log.Info("character created", zap.String("name", name))
}

// HandleCharacterTake issues the delete-confirmation nonce for a character
// the account owns.
func HandleCharacterTake(p *player.Player, r *packet.Reader, deps *Deps) {
	charID := r.GetInt()

	if !ownsCharacter(p, charID, deps) {
		p.Conn.Close()
		return
	}
	p.Send(packet.NewWriter(packet.ActionPlayer, packet.FamilyCharacter).
		AddShort(p.NewSessionID()).
		AddInt(charID).
		Bytes())
}

// HandleCharacterRemove consumes the delete nonce and removes the
// character, answering with the updated roster.
func HandleCharacterRemove(p *player.Player, r *packet.Reader, deps *Deps) {
	session := r.GetShort()
	charID := r.GetInt()

	if !p.ConsumeSessionID(session) {
		p.Log.Info("character delete with stale session")
		p.Conn.Close()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
	defer cancel()
	if err := deps.CharRepo.Delete(ctx, charID, p.AccountID); err != nil {
		deps.Log.Warn("character delete failed", zap.Error(err))
		p.Conn.Close()
		return
	}

	chars, err := deps.CharRepo.ListByAccount(ctx, p.AccountID)
	if err != nil {
		deps.Log.Warn("character list failed", zap.Error(err))
	}
	reply := packet.NewWriter(packet.ActionReply, packet.FamilyCharacter).
		AddShort(charDeleted)
	appendCharacterList(reply, chars, deps)
	p.Send(reply.Bytes())
}

func sendCharacterReply(p *player.Player, code int) {
	p.Send(packet.NewWriter(packet.ActionReply, packet.FamilyCharacter).
		AddShort(code).
		AddBreakString("NO").
		Bytes())
}

func ownsCharacter(p *player.Player, charID int, deps *Deps) bool {
	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
	defer cancel()
	chars, err := deps.CharRepo.ListByAccount(ctx, p.AccountID)
	if err != nil {
		return false
	}
	for _, c := range chars {
		if c.ID == charID {
			return true
		}
	}
	return false
}

func validCharacterName(name string) bool {
	if len(name) < 4 || len(name) > 12 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 'a' || name[i] > 'z' {
			return false
		}
	}
	return true
}

// newCharacterRow builds a fresh level-0 character at the configured
// rescue point with the starter stat line.
func newCharacterRow(accountID int, name string, gender, hairStyle, hairColor, race int, deps *Deps) *persist.CharacterRow {
	w := deps.Config.World
	return &persist.CharacterRow{
		AccountID: accountID,
		Name:      name,
		Gender:    gender,
		HairStyle: hairStyle,
		HairColor: hairColor,
		Race:      race,

		MapID: w.RescueMap,
		X:     w.RescueX,
		Y:     w.RescueY,

		HP: 10,
		TP: 10,
	}
}
