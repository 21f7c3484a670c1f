package sysquery

import (
	"bytes"
	"encoding/binary"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Fetcher wraps a Gateway with the result shapes callers actually want.
// Failed calls degrade to the caller's default value or an absent result,
// never an error.
type Fetcher struct {
	gw  Gateway
	log *logger.Logger
}

// NewFetcher creates a Fetcher over the given gateway
func NewFetcher(gw Gateway) *Fetcher {
	return &Fetcher{
		gw:  gw,
		log: logger.NewLogger(coloransi.Foreground(coloransi.Cyan, "sysquery")),
	}
}

// Uint32 queries a named 32-bit value, returning def on failure
func (f *Fetcher) Uint32(name string, def uint32) uint32 {
	buf := make([]byte, 4)
	if _, err := f.gw.ByName(name, buf); err != nil {
		f.log.Warn("Failed sysctl call:", name, err)
		return def
	}
	return binary.LittleEndian.Uint32(buf)
}

// Uint64 queries a named 64-bit value, returning def on failure
func (f *Fetcher) Uint64(name string, def uint64) uint64 {
	buf := make([]byte, 8)
	if _, err := f.gw.ByName(name, buf); err != nil {
		f.log.Warn("Failed sysctl call:", name, err)
		return def
	}
	return binary.LittleEndian.Uint64(buf)
}

// Text queries a named string value, returning def on failure. The fill
// buffer is sized one byte past the discovered length so a terminator
// always fits.
func (f *Fetcher) Text(name, def string) string {
	size, err := f.gw.ByName(name, nil)
	if err != nil {
		f.log.Warn("Failed sysctl call:", name, err)
		return def
	}
	buf := make([]byte, size+1)
	if _, err := f.gw.ByName(name, buf); err != nil {
		return def
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

// Bytes queries a named variable-length value using size discovery
// followed by a fill at exactly the discovered size. Returns the buffer
// and false when either phase fails; the discovered size can change
// between the two calls, which surfaces as a fill failure.
func (f *Fetcher) Bytes(name string) ([]byte, bool) {
	size, err := f.gw.ByName(name, nil)
	if err != nil {
		return nil, false
	}
	buf := make([]byte, size)
	if _, err := f.gw.ByName(name, buf); err != nil {
		f.log.Warn("Failed sysctl call:", name, err)
		return nil, false
	}
	return buf, true
}

// BytesMIB queries a selector-addressed value into a buffer of the given
// capacity. On success the full buffer is returned; the kernel fills it
// from the front and leaves the tail zeroed.
func (f *Fetcher) BytesMIB(mib []int32, capacity int) ([]byte, bool) {
	buf := make([]byte, capacity)
	if _, err := f.gw.ByMIB(mib, buf); err != nil {
		f.log.Warn("Failed sysctl call:", mib, err)
		return nil, false
	}
	return buf, true
}
