package handler

import (
	"context"
	"math/rand"

	"github.com/eogo/server/internal/net"
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"go.uber.org/zap"
)

// Init reply codes.
const (
	initOutOfDate = 1
	initOK        = 2
	initBanned    = 3
)

// HandleInit answers the opening handshake: version gate, IP ban gate,
// sequence start, encryption multiples and the challenge response. The
// reply goes out raw because the client enables the cipher only after
// reading it.
func HandleInit(p *player.Player, r *packet.Reader, deps *Deps) {
	challenge := r.GetThree()
	version := r.GetChar()
	_ = r.GetChar() // protocol minor, unused
	_ = r.GetChar() // protocol patch, unused
	hdid := r.GetEndString()

	cfg := deps.Config.Server
	if cfg.EnforceVersion && (version < cfg.MinVersion || version > cfg.MaxVersion) {
		p.Conn.SendRaw(packet.NewWriter(packet.ActionInit, packet.FamilyInit).
			AddChar(initOutOfDate).
			AddChar(cfg.MinVersion).
			Bytes())
		p.Conn.Close()
		return
	}

	if deps.BanRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Database.QueryTimeout)
		minutes, err := deps.BanRepo.RemainingMinutes(ctx, p.Conn.IP)
		cancel()
		if err != nil {
			deps.Log.Warn("ban lookup failed", zap.Error(err))
		} else if minutes != 0 {
			reply := packet.NewWriter(packet.ActionInit, packet.FamilyInit).
				AddChar(initBanned)
			if minutes < 0 {
				reply.AddChar(2) // permanent
			} else {
				reply.AddChar(0).AddChar(minutes)
			}
			p.Conn.SendRaw(reply.Bytes())
			p.Conn.Close()
			return
		}
	}

	if !deps.World.RegisterConnection(p.Conn.IP) {
		p.Log.Info("connection refused by ip limits", zap.String("ip", p.Conn.IP))
		p.Conn.Close()
		return
	}
	p.MarkIPRegistered()

	start, seq1, seq2 := net.InitSequence()
	p.Sequencer().Set(start)

	serverMult := byte(rand.Intn(5) + 6)
	clientMult := byte(rand.Intn(5) + 6)
	p.Conn.SetMultiples(serverMult, clientMult)

	p.Conn.SendRaw(packet.NewWriter(packet.ActionInit, packet.FamilyInit).
		AddChar(initOK).
		AddByte(byte(seq1)).
		AddByte(byte(seq2)).
		AddByte(serverMult).
		AddByte(clientMult).
		AddShort(p.ID).
		AddThree(net.ServerVerificationHash(challenge)).
		Bytes())

	p.SetState(packet.StateInitialized)
	p.Log.Debug("handshake issued", zap.String("hdid", hdid))
}

// HandleConnectionAccept verifies the client echoed the assigned identity
// and multiples unchanged.
func HandleConnectionAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	serverMult := r.GetShort()
	clientMult := r.GetShort()
	playerID := r.GetShort()

	sm, cm := p.Conn.Multiples()
	if playerID != p.ID || serverMult != int(sm) || clientMult != int(cm) {
		p.Log.Info("handshake echo mismatch")
		p.Conn.Close()
		return
	}
	p.SetState(packet.StateAccepted)
}

// HandleConnectionPing is the client's pong. The sequence carried by this
// packet was already validated against the new start in the dispatch path.
func HandleConnectionPing(p *player.Player, r *packet.Reader, deps *Deps) {
	p.Pong()
}
