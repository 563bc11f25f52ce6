package packet

import (
	"bytes"
	"testing"
)

func TestWriterReaderFields(t *testing.T) {
	w := NewWriter(ActionReply, FamilyItem)
	w.AddChar(5).AddShort(300).AddThree(70000).AddInt(17000000)
	w.AddBreakString("hello").AddString("tail")

	r := NewReader(w.Bytes())
	if r.Action() != ActionReply || r.Family() != FamilyItem {
		t.Fatalf("header = %v.%v", r.Family(), r.Action())
	}
	if got := r.GetChar(); got != 5 {
		t.Errorf("char = %d", got)
	}
	if got := r.GetShort(); got != 300 {
		t.Errorf("short = %d", got)
	}
	if got := r.GetThree(); got != 70000 {
		t.Errorf("three = %d", got)
	}
	if got := r.GetInt(); got != 17000000 {
		t.Errorf("int = %d", got)
	}
	if got := r.GetBreakString(); got != "hello" {
		t.Errorf("break string = %q", got)
	}
	if got := r.GetEndString(); got != "tail" {
		t.Errorf("end string = %q", got)
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining = %d", r.Remaining())
	}
}

func TestBreakStringSanitizesEmbeddedBreaks(t *testing.T) {
	w := NewRawWriter()
	w.AddBreakString(string([]byte{'a', Break, 'b'}))
	want := []byte{'a', 'y', 'b', Break}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("bytes = %v, want %v", w.Bytes(), want)
	}
}

func TestBreakStringWithoutTerminatorRunsToEnd(t *testing.T) {
	body := append([]byte{byte(ActionReply), byte(FamilyTalk)}, "no break here"...)
	r := NewReader(body)
	if got := r.GetBreakString(); got != "no break here" {
		t.Errorf("got %q", got)
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining = %d", r.Remaining())
	}
}

func TestStringCodePage1252RoundTrip(t *testing.T) {
	// Accented characters cross the wire as single 1252 bytes.
	const s = "café"
	w := NewRawWriter()
	w.AddBreakString(s)
	if w.Len() != len("cafe")+1 {
		t.Fatalf("wire length = %d", w.Len())
	}
	body := append([]byte{0, 0}, w.Bytes()...)
	if got := NewReader(body).GetBreakString(); got != s {
		t.Errorf("round trip = %q, want %q", got, s)
	}
}

func TestReaderPastEndReturnsZero(t *testing.T) {
	r := NewReader([]byte{byte(ActionPlayer), byte(FamilyWalk)})
	if got := r.GetShort(); got != 0 {
		t.Errorf("short past end = %d", got)
	}
	if got := r.GetFixedString(4); got != "" {
		t.Errorf("fixed string past end = %q", got)
	}
	if got := r.GetByte(); got != 0 {
		t.Errorf("byte past end = %d", got)
	}
}
