package packet

import (
	"golang.org/x/text/encoding/charmap"
)

// Reader reads protocol fields from a decoded packet body. Byte 0 is the
// action and byte 1 the family; field reads start at offset 2.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data, off: 2} // skip action + family
}

func (r *Reader) Action() Action {
	if len(r.data) < 1 {
		return 0
	}
	return Action(r.data[0])
}

func (r *Reader) Family() Family {
	if len(r.data) < 2 {
		return 0
	}
	return Family(r.data[1])
}

// GetByte reads one raw byte (no number decoding).
func (r *Reader) GetByte() byte {
	if r.off >= len(r.data) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

// GetChar reads a one-byte number.
func (r *Reader) GetChar() int {
	return DecodeNumber(r.take(1)...)
}

// GetShort reads a two-byte number.
func (r *Reader) GetShort() int {
	return DecodeNumber(r.take(2)...)
}

// GetThree reads a three-byte number.
func (r *Reader) GetThree() int {
	return DecodeNumber(r.take(3)...)
}

// GetInt reads a four-byte number.
func (r *Reader) GetInt() int {
	return DecodeNumber(r.take(4)...)
}

func (r *Reader) take(n int) []byte {
	if r.off >= len(r.data) {
		return nil
	}
	end := r.off + n
	if end > len(r.data) {
		end = len(r.data)
	}
	b := r.data[r.off:end]
	r.off = end
	return b
}

// GetBreakString reads bytes up to the next break byte and consumes the
// break. Runs to the end of the body when no break is present.
func (r *Reader) GetBreakString() string {
	start := r.off
	for r.off < len(r.data) {
		if r.data[r.off] == Break {
			s := r.data[start:r.off]
			r.off++
			return wireToUTF8(s)
		}
		r.off++
	}
	return wireToUTF8(r.data[start:r.off])
}

// GetEndString reads all remaining bytes as a string.
func (r *Reader) GetEndString() string {
	s := r.data[r.off:]
	r.off = len(r.data)
	return wireToUTF8(s)
}

// GetFixedString reads exactly n bytes as a string; short reads truncate.
func (r *Reader) GetFixedString(n int) string {
	return wireToUTF8(r.take(n))
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// wireToUTF8 converts code page 1252 wire bytes to a UTF-8 string. Pure
// ASCII passes through unchanged.
func wireToUTF8(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	allASCII := true
	for _, b := range raw {
		if b >= 0x80 {
			allASCII = false
			break
		}
	}
	if allASCII {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
