// Package procargs decodes the argument and environment block the kernel
// keeps for each process.
package procargs

import (
	"strings"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"procsnap/procinfo"
	"procsnap/rawblock"
	"procsnap/sysquery"
)

// maxSaneArgs rejects blocks whose leading count cannot be real
const maxSaneArgs = 1024

// Decoder fetches and decodes argument blocks. The block capacity is the
// kernel's argument size limit, queried once and injected here so the
// decoder never reaches for global state.
type Decoder struct {
	fetcher *sysquery.Fetcher
	argmax  int
	log     *logger.Logger
}

// NewDecoder creates a Decoder using the given block capacity
func NewDecoder(fetcher *sysquery.Fetcher, argmax int) *Decoder {
	return &Decoder{
		fetcher: fetcher,
		argmax:  argmax,
		log:     logger.NewLogger(coloransi.Foreground(coloransi.ColorTeal, "procargs")),
	}
}

// ArgsEnv returns the argument vector and environment for pid. Failures
// and unparseable blocks yield empty results, never an error; a warning
// is logged unless the pid is 0, which never has an args block.
func (d *Decoder) ArgsEnv(pid procinfo.ProcessID) ([]string, *procinfo.Environment) {
	mib := []int32{sysquery.CTLKern, sysquery.KernProcargs2, int32(pid)}
	block, ok := d.fetcher.BytesMIB(mib, d.argmax)
	if !ok {
		return []string{}, procinfo.NewEnvironment()
	}

	args, env, ok := DecodeBlock(block)
	if !ok && pid > 0 {
		d.log.Warn("Failed to decode process arguments, process", pid, "may not exist")
	}
	return args, env
}

// DecodeBlock parses one raw args block. The layout is a 4-byte argument
// count, a null-terminated copy of the executable path (not counted, not
// re-emitted), the arguments, then environment entries of the form
// key=value, every string null terminated. The count is trusted once it
// passes a sanity ceiling; entries with no '=' past position zero are
// dropped. Returns false when the leading count is missing or insane.
func DecodeBlock(block []byte) ([]string, *procinfo.Environment, bool) {
	args := []string{}
	env := procinfo.NewEnvironment()

	blk := rawblock.New(block)
	nargs, err := blk.Int32(0)
	if err != nil || nargs <= 0 || nargs > maxSaneArgs {
		return args, env, false
	}

	// Skip the count, then the duplicated executable path
	offset := 4
	execPath, err := blk.NTS(offset, blk.Len()-offset)
	if err != nil {
		return args, env, false
	}
	offset += len(execPath) + 1

	remaining := int(nargs)
	for offset < blk.Len() {
		s, err := blk.NTS(offset, blk.Len()-offset)
		if err != nil {
			break
		}
		if remaining > 0 {
			args = append(args, s)
			remaining--
		} else if idx := strings.IndexByte(s, '='); idx > 0 {
			env.Set(s[:idx], s[idx+1:])
		}
		offset += len(s) + 1
	}
	return args, env, true
}
