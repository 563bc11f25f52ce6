package packet

import (
	"golang.org/x/text/encoding/charmap"
)

// Writer builds a packet body. The first two bytes are always action and
// family; everything after is number bytes and strings.
type Writer struct {
	buf []byte
}

func NewWriter(action Action, family Family) *Writer {
	w := &Writer{buf: make([]byte, 0, 64)}
	w.buf = append(w.buf, byte(action), byte(family))
	return w
}

// NewRawWriter builds a headerless fragment for embedding into another
// packet with AddBytes.
func NewRawWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// AddByte appends one raw byte (no number encoding).
func (w *Writer) AddByte(v byte) *Writer {
	w.buf = append(w.buf, v)
	return w
}

// AddChar appends a one-byte number.
func (w *Writer) AddChar(v int) *Writer {
	w.buf = append(w.buf, EncodeNumber(v, 1)...)
	return w
}

// AddShort appends a two-byte number.
func (w *Writer) AddShort(v int) *Writer {
	w.buf = append(w.buf, EncodeNumber(v, 2)...)
	return w
}

// AddThree appends a three-byte number.
func (w *Writer) AddThree(v int) *Writer {
	w.buf = append(w.buf, EncodeNumber(v, 3)...)
	return w
}

// AddInt appends a four-byte number.
func (w *Writer) AddInt(v int) *Writer {
	w.buf = append(w.buf, EncodeNumber(v, 4)...)
	return w
}

// AddBytes appends raw bytes as-is.
func (w *Writer) AddBytes(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// AddString appends string bytes with no terminator, converting UTF-8 to
// code page 1252.
func (w *Writer) AddString(s string) *Writer {
	w.buf = append(w.buf, utf8ToWire(s)...)
	return w
}

// AddBreakString appends string bytes followed by the break byte. Any break
// bytes inside the string are rewritten to 'y' so the terminator stays
// unambiguous, matching the client's own sanitizer.
func (w *Writer) AddBreakString(s string) *Writer {
	raw := utf8ToWire(s)
	for i, b := range raw {
		if b == Break {
			raw[i] = 'y'
		}
	}
	w.buf = append(w.buf, raw...)
	w.buf = append(w.buf, Break)
	return w
}

// Bytes returns the finished body. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current body length.
func (w *Writer) Len() int {
	return len(w.buf)
}

// utf8ToWire converts a UTF-8 string to code page 1252 wire bytes. Pure
// ASCII passes through unchanged; unmappable runes fall back to raw bytes.
func utf8ToWire(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	allASCII := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			allASCII = false
			break
		}
	}
	if allASCII {
		return []byte(s)
	}
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return encoded
}
