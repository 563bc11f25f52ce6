package net

import (
	"bytes"
	"testing"
)

func TestCipherIdentityBeforeHandshake(t *testing.T) {
	var c Cipher
	data := []byte{10, 20, 30, 40, 50}
	if !bytes.Equal(c.Encode(data), data) {
		t.Error("encode changed data with zero multiples")
	}
	if !bytes.Equal(c.Decode(data), data) {
		t.Error("decode changed data with zero multiples")
	}
}

func TestCipherDecodeInvertsEncode(t *testing.T) {
	payloads := [][]byte{
		{},
		{1},
		{1, 2},
		{1, 2, 3},
		{0, 255, 128, 7, 42, 99, 1, 2, 3, 4, 5, 6, 7},
		bytes.Repeat([]byte{0xAB, 0xCD, 5}, 20),
	}
	for m := byte(1); m <= 13; m++ {
		var c Cipher
		c.SetMultiples(m, m)
		for _, p := range payloads {
			got := c.Decode(c.Encode(p))
			if !bytes.Equal(got, p) {
				t.Errorf("multiple %d payload %v: decode(encode) = %v", m, p, got)
			}
		}
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	in := []byte{1, 2, 3, 4, 5, 6, 7}
	want := []byte{1, 7, 2, 6, 3, 5, 4}
	got := interleave(in)
	if !bytes.Equal(got, want) {
		t.Fatalf("interleave = %v, want %v", got, want)
	}
	if back := deinterleave(got); !bytes.Equal(back, in) {
		t.Fatalf("deinterleave = %v, want %v", back, in)
	}
}

func TestSwapPairsSelfInverse(t *testing.T) {
	for m := 1; m <= 12; m++ {
		in := []byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 11, 12}
		buf := make([]byte, len(in))
		copy(buf, in)
		swapPairs(buf, m)
		swapPairs(buf, m)
		if !bytes.Equal(buf, in) {
			t.Errorf("multiple %d: double swap = %v, want %v", m, buf, in)
		}
	}
}

func TestGenerateMultiplesInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		s, c := GenerateMultiples()
		if s < 6 || s > 12 || c < 6 || c > 12 {
			t.Fatalf("multiples out of range: %d, %d", s, c)
		}
	}
}
