// Package rawblock provides bounds-checked typed reads over raw byte
// buffers returned by native calls.
package rawblock

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrOutOfBounds is returned when a read would cross the end of the block
var ErrOutOfBounds = errors.New("rawblock: offset out of bounds")

// Block is a read-only view of one native result buffer. Kernel structs
// arrive in native byte order; every darwin target this module supports
// is little endian.
type Block struct {
	data []byte
}

// New wraps data in a Block. The Block aliases data, it does not copy.
func New(data []byte) *Block {
	return &Block{data: data}
}

// Data returns the underlying buffer
func (b *Block) Data() []byte {
	return b.data
}

// Len returns the buffer length in bytes
func (b *Block) Len() int {
	return len(b.data)
}

func (b *Block) bytes(offset, size int) ([]byte, error) {
	if offset < 0 || size < 0 || offset+size > len(b.data) {
		return nil, ErrOutOfBounds
	}
	return b.data[offset : offset+size], nil
}

// Uint32 reads an unsigned 32-bit integer at the given byte offset
func (b *Block) Uint32(offset int) (uint32, error) {
	data, err := b.bytes(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// Int32 reads a signed 32-bit integer at the given byte offset
func (b *Block) Int32(offset int) (int32, error) {
	v, err := b.Uint32(offset)
	return int32(v), err
}

// Uint64 reads an unsigned 64-bit integer at the given byte offset
func (b *Block) Uint64(offset int) (uint64, error) {
	data, err := b.bytes(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// Int64 reads a signed 64-bit integer at the given byte offset
func (b *Block) Int64(offset int) (int64, error) {
	v, err := b.Uint64(offset)
	return int64(v), err
}

// NTS reads a null-terminated string starting at the given byte offset,
// scanning at most maxLength bytes. If no terminator is found the whole
// window is returned as the string.
func (b *Block) NTS(offset, maxLength int) (string, error) {
	if maxLength == 0 {
		return "", nil
	}
	data, err := b.bytes(offset, maxLength)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return string(data[:i]), nil
	}
	return string(data), nil
}
