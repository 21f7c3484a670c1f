// Package sysquery issues data requests to the kernel and decodes the
// common result shapes: fixed-width integers, text, and opaque byte blocks
// whose size is only discoverable by asking.
package sysquery

import "errors"

// ErrUnsupportedPlatform is returned when the native gateway is not
// available for the running operating system.
var ErrUnsupportedPlatform = errors.New("sysquery: native queries require darwin")

// Selector classes and items for MIB queries (sys/sysctl.h)
const (
	CTLKern       = 1  // kernel class
	KernProcargs2 = 49 // argument and environment block of a process
)

// proc_pidinfo flavors and related capacities (sys/proc_info.h)
const (
	ProcPidTaskAllInfo     = 2    // combined bsd and task info struct
	ProcPidPathInfoMaxSize = 4096 // buffer size for proc_pidpath
)

// RusageInfoV2 selects version 2 of the rusage_info accounting struct
const RusageInfoV2 = 2

// Gateway performs privileged kernel reads. Implementations report the
// number of bytes written into out and a non-nil error on failure; the
// error carries the OS error code for diagnostics only, callers must not
// branch on it.
type Gateway interface {
	// ByName queries a value by symbolic name, e.g. "kern.argmax".
	// A nil out performs size discovery: nothing is written and the
	// returned count is the size the kernel requires.
	ByName(name string, out []byte) (int, error)

	// ByMIB queries a value by numeric selector, e.g. {CTLKern,
	// KernProcargs2, pid}. The kernel writes at most len(out) bytes.
	ByMIB(mib []int32, out []byte) (int, error)

	// PidInfo fills out with the flavor-specific info struct for pid
	PidInfo(pid, flavor int32, out []byte) (int, error)

	// PidPath fills out with the executable path for pid
	PidPath(pid int32, out []byte) (int, error)

	// PidRusage fills out with the flavor-specific resource usage
	// accounting struct for pid
	PidRusage(pid, flavor int32, out []byte) (int, error)
}
