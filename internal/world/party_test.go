package world

import (
	"reflect"
	"testing"
)

func TestPartyFormAndJoin(t *testing.T) {
	l := NewPartyList()
	p := l.Form(1, 2)
	if p == nil || p.Leader != 1 {
		t.Fatalf("form = %+v", p)
	}
	if !reflect.DeepEqual(p.Members, []int{1, 2}) {
		t.Fatalf("members = %v", p.Members)
	}

	if l.Form(1, 3) != nil {
		t.Fatal("partied leader formed a second party")
	}
	if l.Form(3, 2) != nil {
		t.Fatal("partied member joined a second party")
	}

	p = l.Join(1, 3, 9)
	if p == nil || !reflect.DeepEqual(p.Members, []int{1, 2, 3}) {
		t.Fatalf("join = %+v", p)
	}
	if l.Join(2, 4, 9) != nil {
		t.Fatal("non-leader accepted a join")
	}
}

func TestPartySizeCap(t *testing.T) {
	l := NewPartyList()
	l.Form(1, 2)
	if l.Join(1, 3, 3) == nil {
		t.Fatal("third member rejected under cap 3")
	}
	if l.Join(1, 4, 3) != nil {
		t.Fatal("cap exceeded")
	}
}

func TestPartyLeaveHandsOffLeadership(t *testing.T) {
	l := NewPartyList()
	l.Form(1, 2)
	l.Join(1, 3, 9)

	remaining, was := l.Leave(1)
	if !was {
		t.Fatal("leader not partied")
	}
	if !reflect.DeepEqual(remaining, []int{2, 3}) {
		t.Fatalf("remaining = %v", remaining)
	}
	p := l.Of(2)
	if p == nil || p.Leader != 2 {
		t.Fatalf("new leader = %+v", p)
	}
}

func TestPartyDisbandsBelowTwo(t *testing.T) {
	l := NewPartyList()
	l.Form(1, 2)

	remaining, was := l.Leave(2)
	if !was {
		t.Fatal("member not partied")
	}
	if !reflect.DeepEqual(remaining, []int{1}) {
		t.Fatalf("remaining = %v", remaining)
	}
	if l.Of(1) != nil {
		t.Fatal("single-member party survived")
	}

	if _, was := l.Leave(1); was {
		t.Fatal("leave on a disbanded party reported membership")
	}
}

func TestPartyOfReturnsCopy(t *testing.T) {
	l := NewPartyList()
	l.Form(1, 2)
	p := l.Of(1)
	p.Members[0] = 99
	if got := l.Of(1); got.Members[0] != 1 {
		t.Fatal("Of leaked internal state")
	}
}
