package packet

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestDispatchStateGating(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	called := 0
	reg.Register(FamilyWalk, ActionPlayer, []SessionState{StateInGame}, func(sess any, r *Reader) {
		called++
	})
	body := NewWriter(ActionPlayer, FamilyWalk).AddChar(1).Bytes()

	if err := reg.Dispatch(nil, StateInGame, body); err != nil {
		t.Fatalf("in-game dispatch: %v", err)
	}
	if called != 1 {
		t.Fatalf("handler called %d times", called)
	}

	err := reg.Dispatch(nil, StateAccepted, body)
	var bad *ErrBadState
	if !errors.As(err, &bad) {
		t.Fatalf("wrong-state dispatch returned %v", err)
	}
	if bad.Family != FamilyWalk || bad.Action != ActionPlayer || bad.State != StateAccepted {
		t.Errorf("bad state details = %+v", bad)
	}
	if called != 1 {
		t.Errorf("handler ran in wrong state")
	}
}

func TestDispatchIgnoresUnknownPackets(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	body := NewWriter(ActionUse, FamilyJukebox).Bytes()
	if err := reg.Dispatch(nil, StateInGame, body); err != nil {
		t.Fatalf("unknown packet dispatch: %v", err)
	}
}

func TestDispatchRejectsTruncatedBody(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	if err := reg.Dispatch(nil, StateInGame, []byte{1}); err == nil {
		t.Fatal("one-byte body accepted")
	}
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(FamilyTalk, ActionReport, []SessionState{StateInGame}, func(sess any, r *Reader) {
		panic("bad payload")
	})
	body := NewWriter(ActionReport, FamilyTalk).Bytes()
	if err := reg.Dispatch(nil, StateInGame, body); err != nil {
		t.Fatalf("panicking handler returned %v", err)
	}
}

func TestDispatchReaderStartsAfterConsumedFields(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	var sawArg int
	reg.Register(FamilySit, ActionRequest, []SessionState{StateInGame}, func(sess any, r *Reader) {
		sawArg = r.GetChar()
	})

	// The session layer consumes the sequence short before dispatch.
	body := NewWriter(ActionRequest, FamilySit).AddShort(42).AddChar(7).Bytes()
	r := NewReader(body)
	if got := r.GetShort(); got != 42 {
		t.Fatalf("sequence short = %d", got)
	}
	if err := reg.DispatchReader(nil, StateInGame, r); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if sawArg != 7 {
		t.Errorf("handler read %d, want 7", sawArg)
	}
}
