package procargs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"procsnap/sysquery"
)

func buildBlock(nargs int32, execPath string, strs ...string) []byte {
	var buf bytes.Buffer
	count := make([]byte, 4)
	binary.LittleEndian.PutUint32(count, uint32(nargs))
	buf.Write(count)
	buf.WriteString(execPath)
	buf.WriteByte(0)
	for _, s := range strs {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func TestDecodeBlock(t *testing.T) {
	block := buildBlock(3, "/usr/bin/tool",
		"/usr/bin/tool", "-v", "--out=x",
		"HOME=/Users/demo", "TERM=xterm")

	args, env, ok := DecodeBlock(block)
	if !ok {
		t.Fatal("DecodeBlock() rejected a well-formed block")
	}

	wantArgs := []string{"/usr/bin/tool", "-v", "--out=x"}
	if len(args) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", args, wantArgs)
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], wantArgs[i])
		}
	}

	if env.Len() != 2 {
		t.Fatalf("env.Len() = %d, want 2", env.Len())
	}
	if v, _ := env.Get("HOME"); v != "/Users/demo" {
		t.Errorf("env[HOME] = %q, want /Users/demo", v)
	}
	if v, _ := env.Get("TERM"); v != "xterm" {
		t.Errorf("env[TERM] = %q, want xterm", v)
	}
}

func TestDecodeBlock_EnvOrder(t *testing.T) {
	block := buildBlock(1, "/bin/x", "/bin/x",
		"Z=1", "A=2", "M=3")

	_, env, ok := DecodeBlock(block)
	if !ok {
		t.Fatal("DecodeBlock() rejected a well-formed block")
	}

	want := []string{"Z", "A", "M"}
	keys := env.Keys()
	if len(keys) != len(want) {
		t.Fatalf("env keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("env key order [%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestDecodeBlock_ValueWithEquals(t *testing.T) {
	block := buildBlock(1, "/bin/x", "/bin/x", "OPTS=a=b=c")

	_, env, _ := DecodeBlock(block)
	if v, _ := env.Get("OPTS"); v != "a=b=c" {
		t.Errorf("env[OPTS] = %q, want a=b=c", v)
	}
}

func TestDecodeBlock_BadCounts(t *testing.T) {
	tests := []struct {
		name  string
		nargs int32
	}{
		{"zero", 0},
		{"negative", -1},
		{"over ceiling", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := buildBlock(tt.nargs, "/bin/x", "/bin/x", "A=1")
			args, env, ok := DecodeBlock(block)
			if ok {
				t.Error("DecodeBlock() accepted a block with a bad count")
			}
			if len(args) != 0 {
				t.Errorf("args = %v, want empty", args)
			}
			if env.Len() != 0 {
				t.Errorf("env.Len() = %d, want 0", env.Len())
			}
		})
	}
}

func TestDecodeBlock_TooShort(t *testing.T) {
	for _, block := range [][]byte{nil, {}, {3}, {3, 0, 0}} {
		args, env, ok := DecodeBlock(block)
		if ok || len(args) != 0 || env.Len() != 0 {
			t.Errorf("DecodeBlock(%v) = %v, %d entries, %v; want empty, false",
				block, args, env.Len(), ok)
		}
	}
}

func TestDecodeBlock_EntryWithoutEquals(t *testing.T) {
	block := buildBlock(1, "/bin/x", "/bin/x",
		"HOME=/root", "not-an-env-entry", "=headless")

	_, env, ok := DecodeBlock(block)
	if !ok {
		t.Fatal("DecodeBlock() rejected a well-formed block")
	}
	if env.Len() != 1 {
		t.Errorf("env.Len() = %d, want 1", env.Len())
	}
	if _, found := env.Get(""); found {
		t.Error("an entry with '=' at position zero produced an empty key")
	}
}

func TestDecodeBlock_TruncatedStopsAtEnd(t *testing.T) {
	// Count promises five arguments, block carries two
	block := buildBlock(5, "/bin/x", "one", "two")

	args, env, ok := DecodeBlock(block)
	if !ok {
		t.Fatal("DecodeBlock() rejected a truncated block")
	}
	if len(args) != 2 || args[0] != "one" || args[1] != "two" {
		t.Errorf("args = %v, want [one two]", args)
	}
	if env.Len() != 0 {
		t.Errorf("env.Len() = %d, want 0", env.Len())
	}
}

func TestDecodeBlock_ZeroTailPadsMissingArgs(t *testing.T) {
	// A kernel buffer keeps its full capacity; the tail past the last
	// entry stays zeroed and each zero byte reads as an empty string
	// while the count is still owed.
	block := buildBlock(4, "/bin/x", "one", "two")
	block = append(block, 0, 0)

	args, _, ok := DecodeBlock(block)
	if !ok {
		t.Fatal("DecodeBlock() rejected the block")
	}
	want := []string{"one", "two", "", ""}
	if len(args) != len(want) {
		t.Fatalf("args = %q, want %q", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

type fakeGateway struct {
	blocks map[string][]byte
	err    bool
}

func (f *fakeGateway) ByName(name string, out []byte) (int, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeGateway) ByMIB(mib []int32, out []byte) (int, error) {
	if f.err {
		return 0, errors.New("sysctl failed")
	}
	v, ok := f.blocks[fmt.Sprint(mib)]
	if !ok {
		return 0, errors.New("no such process")
	}
	return copy(out, v), nil
}

func (f *fakeGateway) PidInfo(pid, flavor int32, out []byte) (int, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeGateway) PidPath(pid int32, out []byte) (int, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeGateway) PidRusage(pid, flavor int32, out []byte) (int, error) {
	return 0, errors.New("not implemented")
}

func TestDecoder_ArgsEnv(t *testing.T) {
	block := buildBlock(2, "/bin/demo", "/bin/demo", "--fast", "USER=eve")
	gw := &fakeGateway{blocks: map[string][]byte{
		fmt.Sprint([]int32{sysquery.CTLKern, sysquery.KernProcargs2, 77}): block,
	}}

	d := NewDecoder(sysquery.NewFetcher(gw), 4096)
	args, env := d.ArgsEnv(77)

	if len(args) != 2 || args[0] != "/bin/demo" || args[1] != "--fast" {
		t.Errorf("args = %v, want [/bin/demo --fast]", args)
	}
	if v, _ := env.Get("USER"); v != "eve" {
		t.Errorf("env[USER] = %q, want eve", v)
	}
}

func TestDecoder_ArgsEnvFetchFailure(t *testing.T) {
	d := NewDecoder(sysquery.NewFetcher(&fakeGateway{err: true}), 4096)

	args, env := d.ArgsEnv(12345)
	if args == nil || len(args) != 0 {
		t.Errorf("args = %v, want empty non-nil", args)
	}
	if env == nil || env.Len() != 0 {
		t.Error("env should be empty and non-nil")
	}
}

func TestDecoder_ArgsEnvPidZero(t *testing.T) {
	d := NewDecoder(sysquery.NewFetcher(&fakeGateway{blocks: map[string][]byte{}}), 4096)

	args, env := d.ArgsEnv(0)
	if len(args) != 0 || env.Len() != 0 {
		t.Errorf("pid 0 should decode to empty, got %v and %d entries", args, env.Len())
	}
}
