package player

import (
	"context"
	"errors"
	"time"

	"github.com/eogo/server/internal/config"
	"github.com/eogo/server/internal/net"
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/world"
	"go.uber.org/zap"
)

// Player is the per-connection actor. It owns the session state machine,
// the sequencer, the ephemeral dialog nonces and the character while it is
// not resident on a map (selected but not in game, or mid-warp). All fields
// are touched only from Run's goroutine; cross-goroutine access goes
// through the mailbox.
type Player struct {
	ID   int
	Conn *net.Conn

	World *world.World
	Deps  *world.Deps
	Cfg   *config.Config
	Log   *zap.Logger

	registry *packet.Registry
	mailbox  chan func(*Player)

	state packet.SessionState
	seq   net.Sequencer

	// Login-screen identity.
	AccountID   int
	AccountName string

	// Character held while not resident on a map.
	Character *world.Character
	MapID     int

	// One-shot nonce for login-screen dialogs (account and character
	// create/delete). In-game dialog nonces live on the Character.
	SessionID int

	Captcha     CaptchaState
	GuildCreate GuildCreateState

	warp           *pendingWarp
	pingStart      int
	needPong       bool
	registeredIP   bool
	closeRequested bool
}

type pendingWarp struct {
	Session  int // nonce echoed by Warp.Accept
	MapID    int
	X, Y     int
	Local    bool
	Anim     int
	IssuedAt time.Time
}

// CaptchaState tracks an issued anti-bot challenge.
type CaptchaState struct {
	Challenge string
	Attempts  int
	RewardExp int
}

// GuildCreateState is the roster of players who accepted an invitation to
// co-found a guild with this player.
type GuildCreateState struct {
	Tag     string
	Name    string
	Members []int
}

// New registers the connection with the world and builds its actor.
func New(conn *net.Conn, w *world.World, deps *world.Deps, reg *packet.Registry) *Player {
	p := &Player{
		Conn:     conn,
		World:    w,
		Deps:     deps,
		Cfg:      deps.Cfg,
		registry: reg,
		mailbox:  make(chan func(*Player), 32),
		state:    packet.StateUninitialized,
	}
	p.ID = w.AddPlayer(p)
	p.Log = deps.Log.Named("player").With(zap.Int("player", p.ID))
	return p
}

// Run is the actor's main loop: inbound packets, control messages, and the
// ping clock. Returns when the connection dies.
func (p *Player) Run(ctx context.Context) {
	defer p.cleanup()

	pingRate := p.Cfg.Server.PingRate
	if pingRate <= 0 {
		pingRate = 60 * time.Second
	}
	ping := time.NewTicker(pingRate)
	defer ping.Stop()

	for {
		select {
		case body := <-p.Conn.InQueue:
			if err := p.handle(body); err != nil {
				p.Log.Info("closing connection", zap.Error(err))
				p.Conn.Close()
				return
			}
			if p.closeRequested {
				p.Conn.Close()
				return
			}
		case fn := <-p.mailbox:
			fn(p)
			if p.closeRequested {
				p.Conn.Close()
				return
			}
		case <-ping.C:
			if !p.pingTick() {
				p.Conn.Close()
				return
			}
		case <-p.Conn.Closed():
			return
		case <-ctx.Done():
			p.Conn.Close()
			return
		}
	}
}

// handle decodes the sequence prefix and dispatches one packet body.
func (p *Player) handle(body []byte) error {
	if len(body) < 2 {
		return errors.New("truncated packet")
	}
	r := packet.NewReader(body)
	family := r.Family()
	action := r.Action()

	// Every post-handshake packet leads with the sequence short. The pong
	// applies the start issued by the preceding ping before validation.
	if family != packet.FamilyInit && p.state != packet.StateUninitialized {
		if family == packet.FamilyConnection && action == packet.ActionPing {
			p.seq.Set(p.pingStart)
		}
		got := r.GetShort()
		want := p.seq.Next()
		if p.Cfg.Server.EnforceSequence && got != want {
			return errors.New("sequence mismatch")
		}
	}

	err := p.registry.DispatchReader(p, p.state, r)
	var bad *packet.ErrBadState
	if errors.As(err, &bad) {
		return err
	}
	return err
}

// pingTick sends the keepalive with a fresh sequence start. A tick that
// finds the previous ping unanswered times the connection out.
func (p *Player) pingTick() bool {
	if p.state == packet.StateUninitialized {
		return true // client still in handshake, no pings yet
	}
	if p.needPong {
		p.Log.Info("ping timeout")
		return false
	}
	if p.warp != nil && p.warpExpired() {
		p.Log.Info("warp never accepted, dropping")
		return false
	}
	start, s1, s2 := net.PingSequence()
	p.pingStart = start
	p.needPong = true
	p.Conn.Send(packet.NewWriter(packet.ActionPlayer, packet.FamilyConnection).
		AddShort(s1).
		AddChar(s2).
		Bytes())
	return true
}

// Pong clears the keepalive flag. The new sequence start was already
// applied when the pong's own sequence was validated.
func (p *Player) Pong() {
	p.needPong = false
}

// State returns the session phase.
func (p *Player) State() packet.SessionState { return p.state }

// SetState advances the session machine.
func (p *Player) SetState(s packet.SessionState) {
	p.Log.Debug("session state",
		zap.Stringer("from", p.state), zap.Stringer("to", s))
	p.state = s
}

// Sequencer exposes the sequence generator to the init handler.
func (p *Player) Sequencer() *net.Sequencer { return &p.seq }

// MarkIPRegistered records that the connection log holds a slot for this
// connection's IP, released in cleanup.
func (p *Player) MarkIPRegistered() { p.registeredIP = true }

// post runs fn on the actor goroutine. Callable from any goroutine; a
// wedged actor is disconnected rather than blocked on.
func (p *Player) post(fn func(*Player)) {
	select {
	case p.mailbox <- fn:
	default:
		p.Log.Warn("player mailbox full, dropping connection")
		p.Conn.Close()
	}
}

// cleanup tears the session down: the map removes and saves the character,
// the registry forgets the player, and the socket dies.
func (p *Player) cleanup() {
	if p.Character != nil {
		// Held outside any map; snapshot directly.
		p.World.SaveCharacter(p.Character.Name, p.Character.Snapshot())
		p.Character = nil
	}
	p.World.Logout(p.ID)
	if p.registeredIP {
		p.World.UnregisterConnection(p.Conn.IP)
	}
	p.Conn.Close()
	p.state = packet.StateClosed
	p.Log.Info("session closed")
}
