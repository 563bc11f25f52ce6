package handler

import (
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/player"
	"go.uber.org/zap"
)

// HandleWarpAccept completes a pending warp. A mismatched or expired warp
// session is a protocol violation and drops the connection.
func HandleWarpAccept(p *player.Player, r *packet.Reader, deps *Deps) {
	mapID := r.GetShort()
	session := r.GetShort()
	if err := p.AcceptWarp(mapID, session); err != nil {
		p.Log.Info("warp rejected", zap.Error(err))
		p.Conn.Close()
	}
}

// HandleWarpTake is the client asking for the destination map file before
// accepting. Map data ships with the client here, so answer with the
// header only.
func HandleWarpTake(p *player.Player, r *packet.Reader, deps *Deps) {
	mapID := r.GetShort()
	_ = r.GetShort() // warp session echo
	file := deps.Maps.Get(mapID)
	if file == nil {
		return
	}
	p.Send(packet.NewWriter(packet.ActionAgree, packet.FamilyWarp).
		AddChar(1).
		AddShort(mapID).
		AddShort(file.RevisionID).
		AddThree(file.ByteSize).
		Bytes())
}
