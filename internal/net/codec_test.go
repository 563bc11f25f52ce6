package net

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{1, 2},
		{0xFF, 0x00, 0x7F},
		bytes.Repeat([]byte{0x42}, 1000),
	}
	var buf bytes.Buffer
	for _, p := range payloads {
		if err := WriteFrame(&buf, p); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	for _, p := range payloads {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(got, p) {
			t.Fatalf("frame = %v, want %v", got, p)
		}
	}
}

func TestReadFrameRejectsBadLength(t *testing.T) {
	// A length below 2 cannot hold the action and family bytes.
	if _, err := ReadFrame(bytes.NewReader([]byte{1, 0, 9})); err == nil {
		t.Error("one-byte frame accepted")
	}
	if _, err := ReadFrame(bytes.NewReader([]byte{0, 0})); err == nil {
		t.Error("zero-length frame accepted")
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	if _, err := ReadFrame(bytes.NewReader([]byte{5, 0, 1, 2})); err == nil {
		t.Error("truncated payload accepted")
	}
}
