package net

import "math/rand"

// Sequencer tracks the per-connection sequence contract. The server hands
// the client a start value during the init handshake (and again on every
// ping); afterwards each sequenced client packet must carry start plus a
// counter that cycles 0..9.
type Sequencer struct {
	start   int
	counter int
}

const sequenceStartMax = 1757

// InitSequence generates a fresh start value and the two bytes that carry
// it in the init reply. The client recovers start as seq1*7 + seq2 - 13.
func InitSequence() (start, seq1, seq2 int) {
	start = rand.Intn(sequenceStartMax)
	seq1 = (start + 13) / 7
	seq2 = start + 13 - seq1*7
	return start, seq1, seq2
}

// PingSequence generates a fresh start value and the (short, char) pair
// carried by a ping. The client recovers start as s1 - s2.
func PingSequence() (start, s1, s2 int) {
	start = rand.Intn(sequenceStartMax)
	s2 = rand.Intn(253)
	s1 = start + s2
	return start, s1, s2
}

// Set installs a new start value and resets the counter.
func (s *Sequencer) Set(start int) {
	s.start = start
	s.counter = 0
}

// Start returns the current start value.
func (s *Sequencer) Start() int {
	return s.start
}

// Next returns the sequence value expected on the next sequenced packet and
// advances the counter.
func (s *Sequencer) Next() int {
	v := s.start + s.counter
	s.counter = (s.counter + 1) % 10
	return v
}

// ServerVerificationHash answers the init challenge. The constants are part
// of the client's handshake contract and must not change.
func ServerVerificationHash(challenge int) int {
	challenge++
	return 110905 +
		(challenge%9+1)*
			((11092004-challenge)%((challenge%11+1)*119))*
			119 +
		challenge%2004
}
