package packet

import (
	"fmt"

	"go.uber.org/zap"
)

// SessionState represents the connection's current protocol phase.
type SessionState int

const (
	StateUninitialized SessionState = iota // before Init handshake
	StateInitialized                       // Init answered, awaiting Connection.Accept
	StateAccepted                          // handshake verified, at login screen
	StateLoggedIn                          // account authenticated, at character select
	StateSelected                          // character selected, loading world
	StateInGame                            // playing
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitialized:
		return "Initialized"
	case StateAccepted:
		return "Accepted"
	case StateLoggedIn:
		return "LoggedIn"
	case StateSelected:
		return "SelectedCharacter"
	case StateInGame:
		return "InGame"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for packet handlers. The session
// pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, r *Reader)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

type key struct {
	family Family
	action Action
}

// Registry maps (family, action) pairs to handlers with state-based access
// control. Packets outside their allowed states are protocol violations.
type Registry struct {
	handlers map[key]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[key]*handlerEntry),
		log:      log,
	}
}

// Register maps a (family, action) pair to a handler, restricted to the
// given session states.
func (reg *Registry) Register(family Family, action Action, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[key{family, action}] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// ErrBadState is returned when a known packet arrives outside its allowed
// session states. The caller closes the connection.
type ErrBadState struct {
	Family Family
	Action Action
	State  SessionState
}

func (e *ErrBadState) Error() string {
	return fmt.Sprintf("packet %s.%s not allowed in state %s", e.Family, e.Action, e.State)
}

// Dispatch finds the handler for the body's (family, action), validates the
// session state, and calls the handler. Unknown pairs are logged and
// ignored; known pairs in a wrong state return *ErrBadState.
func (reg *Registry) Dispatch(sess any, state SessionState, body []byte) error {
	if len(body) < 2 {
		return fmt.Errorf("truncated packet body (%d bytes)", len(body))
	}
	return reg.DispatchReader(sess, state, NewReader(body))
}

// DispatchReader dispatches from an already-positioned reader, letting the
// caller consume leading fields (the sequence number) first.
func (reg *Registry) DispatchReader(sess any, state SessionState, r *Reader) error {
	action := r.Action()
	family := r.Family()

	reg.log.Debug("rx",
		zap.Stringer("family", family),
		zap.Stringer("action", action),
		zap.Int("size", r.Remaining()),
		zap.Stringer("state", state),
	)

	entry, ok := reg.handlers[key{family, action}]
	if !ok {
		reg.log.Debug("unhandled packet",
			zap.Stringer("family", family),
			zap.Stringer("action", action),
		)
		return nil // silently ignore unknown packets
	}

	if !entry.allowedStates[state] {
		return &ErrBadState{Family: family, Action: action, State: state}
	}

	return reg.safeCall(entry.fn, sess, r, family, action)
}

// safeCall executes a handler with panic recovery so a single bad packet
// cannot take down the whole actor.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader, family Family, action Action) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Stringer("family", family),
				zap.Stringer("action", action),
				zap.Any("panic", rec),
			)
		}
	}()
	fn(sess, r)
	return nil
}
