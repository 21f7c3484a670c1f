// Package taskinfo declares the kernel info struct layouts this module
// reads and decodes them generically from raw buffers. A layout is an
// ordered field list; byte offsets are computed once by walking the list
// with the C natural-alignment rules, so decode sites never hardcode
// offsets.
package taskinfo

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Kind selects how a field is decoded
type Kind int

const (
	KindUint32 Kind = iota
	KindInt32
	KindUint64
	KindChars // fixed-length byte array, readable as a null-terminated string
)

// Field describes one struct member: its name, how to decode it, its byte
// length, and the offset the layout walk assigned.
type Field struct {
	Name   string
	Kind   Kind
	Len    int
	Offset int
}

// U32 declares an unsigned 32-bit field
func U32(name string) Field { return Field{Name: name, Kind: KindUint32, Len: 4} }

// I32 declares a signed 32-bit field
func I32(name string) Field { return Field{Name: name, Kind: KindInt32, Len: 4} }

// U64 declares an unsigned 64-bit field
func U64(name string) Field { return Field{Name: name, Kind: KindUint64, Len: 8} }

// Chars declares a fixed-length byte array of n bytes
func Chars(name string, n int) Field { return Field{Name: name, Kind: KindChars, Len: n} }

func (f Field) align() int {
	switch f.Kind {
	case KindUint64:
		return 8
	case KindChars:
		return 1
	default:
		return 4
	}
}

// Schema is a computed struct layout
type Schema struct {
	fields []Field
	index  map[string]int
	size   int
}

func alignUp(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// NewSchema computes offsets for the declared fields in order, inserting
// padding per natural alignment and rounding the total size up to the
// widest member's alignment. Panics on a duplicate field name; layouts
// are package-level declarations, not runtime input.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{index: make(map[string]int, len(fields))}
	offset := 0
	maxAlign := 1
	for _, f := range fields {
		a := f.align()
		if a > maxAlign {
			maxAlign = a
		}
		offset = alignUp(offset, a)
		f.Offset = offset
		offset += f.Len

		if _, dup := s.index[f.Name]; dup {
			panic("taskinfo: duplicate field " + f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	s.size = alignUp(offset, maxAlign)
	return s
}

// Size returns the struct size in bytes, including tail padding
func (s *Schema) Size() int {
	return s.size
}

// Fields returns the layout in declaration order
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Offset returns the byte offset of the named field, panicking on an
// unknown name
func (s *Schema) Offset(name string) int {
	return s.lookup(name).Offset
}

func (s *Schema) lookup(name string) Field {
	i, ok := s.index[name]
	if !ok {
		panic("taskinfo: unknown field " + name)
	}
	return s.fields[i]
}

// View binds the schema to one raw buffer for reading. Panics when the
// buffer is smaller than the layout; buffers are allocated from Size so
// a short one is a caller bug, not kernel data.
func (s *Schema) View(data []byte) *View {
	if len(data) < s.size {
		panic(fmt.Sprintf("taskinfo: buffer is %d bytes, layout needs %d", len(data), s.size))
	}
	return &View{schema: s, data: data}
}

// View reads typed fields out of one buffer
type View struct {
	schema *Schema
	data   []byte
}

func (v *View) field(name string, kind Kind) Field {
	f := v.schema.lookup(name)
	if f.Kind != kind {
		panic("taskinfo: field " + name + " decoded as the wrong kind")
	}
	return f
}

// Uint32 decodes the named unsigned 32-bit field
func (v *View) Uint32(name string) uint32 {
	f := v.field(name, KindUint32)
	return binary.LittleEndian.Uint32(v.data[f.Offset:])
}

// Int32 decodes the named signed 32-bit field
func (v *View) Int32(name string) int32 {
	f := v.field(name, KindInt32)
	return int32(binary.LittleEndian.Uint32(v.data[f.Offset:]))
}

// Uint64 decodes the named unsigned 64-bit field
func (v *View) Uint64(name string) uint64 {
	f := v.field(name, KindUint64)
	return binary.LittleEndian.Uint64(v.data[f.Offset:])
}

// String decodes the named byte array as a null-terminated string,
// returning the whole array if no terminator is present
func (v *View) String(name string) string {
	f := v.field(name, KindChars)
	win := v.data[f.Offset : f.Offset+f.Len]
	if i := bytes.IndexByte(win, 0); i >= 0 {
		return string(win[:i])
	}
	return string(win)
}
