package packet

import (
	"bytes"
	"testing"
)

func TestEncodeNumberKnownValues(t *testing.T) {
	cases := []struct {
		v     int
		width int
		want  []byte
	}{
		{0, 1, []byte{1}},
		{1, 1, []byte{2}},
		{252, 1, []byte{253}},
		{0, 2, []byte{1, 254}},
		{252, 2, []byte{253, 254}},
		{253, 2, []byte{1, 2}},
		{64008, 2, []byte{253, 253}},
		{64009, 3, []byte{1, 254, 2}},
		{0, 4, []byte{1, 254, 254, 254}},
		{MaxThree, 4, []byte{253, 253, 253, 254}},
		{MaxThree + 1, 4, []byte{1, 254, 254, 2}},
	}
	for _, c := range cases {
		got := EncodeNumber(c.v, c.width)
		if !bytes.Equal(got, c.want) {
			t.Errorf("EncodeNumber(%d, %d) = %v, want %v", c.v, c.width, got, c.want)
		}
	}
}

func TestNumberRoundTrip(t *testing.T) {
	values := []int{
		0, 1, 7, 251, 252, 253, 254, 255,
		64007, 64008, 64009, 64010,
		MaxThree - 1, MaxThree, MaxThree + 1,
		MaxInt,
	}
	for _, v := range values {
		width := 4
		switch {
		case v <= MaxChar:
			width = 1
		case v <= MaxShort:
			width = 2
		case v <= MaxThree:
			width = 3
		}
		got := DecodeNumber(EncodeNumber(v, width)...)
		if got != v {
			t.Errorf("round trip %d (width %d) = %d", v, width, got)
		}
	}
}

func TestDecodeNumberZeroMarkers(t *testing.T) {
	// 254 and a literal 0 both stand for a zero digit, and missing trailing
	// bytes count as zero digits too.
	cases := []struct {
		in   []byte
		want int
	}{
		{[]byte{254}, 0},
		{[]byte{0}, 0},
		{[]byte{254, 254, 254, 254}, 0},
		{[]byte{2}, 1},
		{[]byte{2, 254}, 1},
		{[]byte{254, 2}, 253},
		{[]byte{1, 2}, 253},
	}
	for _, c := range cases {
		if got := DecodeNumber(c.in...); got != c.want {
			t.Errorf("DecodeNumber(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEncodeNumberClampsOutOfRange(t *testing.T) {
	if got := EncodeNumber(-5, 2); !bytes.Equal(got, []byte{1, 254}) {
		t.Errorf("negative value encoded as %v", got)
	}
	// A value too big for the width saturates at the width's maximum.
	if got := DecodeNumber(EncodeNumber(MaxChar+10, 1)...); got != MaxChar {
		t.Errorf("width-1 overflow decoded as %d, want %d", got, MaxChar)
	}
	if got := DecodeNumber(EncodeNumber(MaxShort+10, 2)...); got != MaxShort {
		t.Errorf("width-2 overflow decoded as %d, want %d", got, MaxShort)
	}
}
