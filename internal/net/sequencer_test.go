package net

import "testing"

func TestInitSequenceSplit(t *testing.T) {
	for i := 0; i < 500; i++ {
		start, seq1, seq2 := InitSequence()
		if start < 0 || start >= sequenceStartMax {
			t.Fatalf("start out of range: %d", start)
		}
		if got := seq1*7 + seq2 - 13; got != start {
			t.Fatalf("client recovery %d*7+%d-13 = %d, want %d", seq1, seq2, got, start)
		}
		if seq2 < 0 || seq2 >= 7 {
			t.Fatalf("seq2 out of range: %d", seq2)
		}
	}
}

func TestPingSequenceSplit(t *testing.T) {
	for i := 0; i < 500; i++ {
		start, s1, s2 := PingSequence()
		if got := s1 - s2; got != start {
			t.Fatalf("client recovery %d-%d = %d, want %d", s1, s2, got, start)
		}
	}
}

func TestSequencerCounterCycles(t *testing.T) {
	var s Sequencer
	s.Set(100)
	for round := 0; round < 3; round++ {
		for i := 0; i < 10; i++ {
			if got := s.Next(); got != 100+i {
				t.Fatalf("round %d step %d: got %d, want %d", round, i, got, 100+i)
			}
		}
	}
	s.Set(7)
	if got := s.Next(); got != 7 {
		t.Fatalf("counter not reset on Set: got %d", got)
	}
}

func TestServerVerificationHash(t *testing.T) {
	cases := []struct{ challenge, want int }{
		{0, 114000},
		{1, 115191},
		{42, 876356},
		{1000, 141894},
		{2003, 237521},
	}
	for _, c := range cases {
		if got := ServerVerificationHash(c.challenge); got != c.want {
			t.Errorf("hash(%d) = %d, want %d", c.challenge, got, c.want)
		}
	}
}
