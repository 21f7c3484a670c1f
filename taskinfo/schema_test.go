package taskinfo

import (
	"encoding/binary"
	"testing"
)

func TestNewSchema_AlignmentPadding(t *testing.T) {
	s := NewSchema(U32("a"), U64("b"))

	if got := s.Offset("b"); got != 8 {
		t.Errorf("Offset(b) = %d, want 8", got)
	}
	if got := s.Size(); got != 16 {
		t.Errorf("Size() = %d, want 16", got)
	}
}

func TestNewSchema_CharsPackTight(t *testing.T) {
	s := NewSchema(U32("a"), Chars("c", 3), U32("b"))

	if got := s.Offset("c"); got != 4 {
		t.Errorf("Offset(c) = %d, want 4", got)
	}
	// 3 bytes of chars end at 7; the next 32-bit field aligns to 8
	if got := s.Offset("b"); got != 8 {
		t.Errorf("Offset(b) = %d, want 8", got)
	}
	if got := s.Size(); got != 12 {
		t.Errorf("Size() = %d, want 12", got)
	}
}

func TestNewSchema_TailPadding(t *testing.T) {
	s := NewSchema(U64("a"), U32("b"))

	if got := s.Size(); got != 16 {
		t.Errorf("Size() = %d, want 16", got)
	}
}

func TestNewSchema_DuplicateFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewSchema() accepted a duplicate field name")
		}
	}()
	NewSchema(U32("a"), U32("a"))
}

func TestView_Decode(t *testing.T) {
	s := NewSchema(
		U32("count"),
		I32("nice"),
		Chars("comm", 8),
		U64("size"),
	)

	buf := make([]byte, s.Size())
	binary.LittleEndian.PutUint32(buf[s.Offset("count"):], 7)
	binary.LittleEndian.PutUint32(buf[s.Offset("nice"):], 0xFFFFFFF6) // -10
	copy(buf[s.Offset("comm"):], "launchd\x00")
	binary.LittleEndian.PutUint64(buf[s.Offset("size"):], 1<<33)

	v := s.View(buf)
	if got := v.Uint32("count"); got != 7 {
		t.Errorf("Uint32(count) = %d, want 7", got)
	}
	if got := v.Int32("nice"); got != -10 {
		t.Errorf("Int32(nice) = %d, want -10", got)
	}
	if got := v.String("comm"); got != "launchd" {
		t.Errorf("String(comm) = %q, want launchd", got)
	}
	if got := v.Uint64("size"); got != 1<<33 {
		t.Errorf("Uint64(size) = %d, want %d", got, uint64(1)<<33)
	}
}

func TestView_StringWithoutTerminator(t *testing.T) {
	s := NewSchema(Chars("comm", 4))
	v := s.View([]byte("abcd"))

	if got := v.String("comm"); got != "abcd" {
		t.Errorf("String(comm) = %q, want abcd", got)
	}
}

func TestView_ShortBufferPanics(t *testing.T) {
	s := NewSchema(U64("a"))

	defer func() {
		if recover() == nil {
			t.Error("View() accepted a buffer shorter than the layout")
		}
	}()
	s.View(make([]byte, 4))
}

func TestView_WrongKindPanics(t *testing.T) {
	s := NewSchema(U32("a"))
	v := s.View(make([]byte, s.Size()))

	defer func() {
		if recover() == nil {
			t.Error("View allowed a 32-bit field to decode as 64-bit")
		}
	}()
	v.Uint64("a")
}

func TestSchema_UnknownFieldPanics(t *testing.T) {
	s := NewSchema(U32("a"))

	defer func() {
		if recover() == nil {
			t.Error("Offset() accepted an unknown field name")
		}
	}()
	s.Offset("missing")
}
