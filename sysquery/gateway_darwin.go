package sysquery

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/ebitengine/purego"
)

// libSystem re-exports both libc and libproc
const libSystemPath = "/usr/lib/libSystem.B.dylib"

// SystemGateway implements Gateway over libSystem. Each method locks the
// calling goroutine to its OS thread so the errno it reports belongs to
// the call that just failed.
type SystemGateway struct {
	sysctl       func(mib uintptr, namelen uint32, oldp, oldlenp, newp, newlen uintptr) int32
	sysctlbyname func(name string, oldp, oldlenp, newp, newlen uintptr) int32
	pidinfo      func(pid, flavor int32, arg uint64, buffer uintptr, buffersize int32) int32
	pidpath      func(pid int32, buffer uintptr, buffersize uint32) int32
	pidrusage    func(pid, flavor int32, buffer uintptr) int32
	errnoLoc     func() uintptr
}

var _ Gateway = (*SystemGateway)(nil)

// NewSystemGateway loads libSystem and resolves the query functions
func NewSystemGateway() (*SystemGateway, error) {
	lib, err := purego.Dlopen(libSystemPath, purego.RTLD_GLOBAL|purego.RTLD_NOW)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", libSystemPath, err)
	}

	g := &SystemGateway{}
	purego.RegisterLibFunc(&g.sysctl, lib, "sysctl")
	purego.RegisterLibFunc(&g.sysctlbyname, lib, "sysctlbyname")
	purego.RegisterLibFunc(&g.pidinfo, lib, "proc_pidinfo")
	purego.RegisterLibFunc(&g.pidpath, lib, "proc_pidpath")
	purego.RegisterLibFunc(&g.pidrusage, lib, "proc_pid_rusage")
	purego.RegisterLibFunc(&g.errnoLoc, lib, "__error")
	return g, nil
}

func (g *SystemGateway) ByName(name string, out []byte) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	length := uint64(len(out))
	var oldp uintptr
	if len(out) > 0 {
		oldp = uintptr(unsafe.Pointer(&out[0]))
	}
	res := g.sysctlbyname(name, oldp, uintptr(unsafe.Pointer(&length)), 0, 0)
	runtime.KeepAlive(out)
	if res != 0 {
		return 0, g.callError("sysctlbyname " + name)
	}
	return int(length), nil
}

func (g *SystemGateway) ByMIB(mib []int32, out []byte) (int, error) {
	if len(mib) == 0 {
		return 0, fmt.Errorf("sysctl: empty mib")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	length := uint64(len(out))
	var oldp uintptr
	if len(out) > 0 {
		oldp = uintptr(unsafe.Pointer(&out[0]))
	}
	res := g.sysctl(uintptr(unsafe.Pointer(&mib[0])), uint32(len(mib)), oldp,
		uintptr(unsafe.Pointer(&length)), 0, 0)
	runtime.KeepAlive(mib)
	runtime.KeepAlive(out)
	if res != 0 {
		return 0, g.callError(fmt.Sprintf("sysctl %v", mib))
	}
	return int(length), nil
}

// PidInfo returns the byte count proc_pidinfo reports. A zero count with
// a zero-filled buffer is how the kernel answers for a pid that is gone,
// so only a negative return is an error here; callers own the sentinel
// checks on the decoded struct.
func (g *SystemGateway) PidInfo(pid, flavor int32, out []byte) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var buf uintptr
	if len(out) > 0 {
		buf = uintptr(unsafe.Pointer(&out[0]))
	}
	ret := g.pidinfo(pid, flavor, 0, buf, int32(len(out)))
	runtime.KeepAlive(out)
	if ret < 0 {
		return int(ret), g.callError(fmt.Sprintf("proc_pidinfo pid %d flavor %d", pid, flavor))
	}
	return int(ret), nil
}

func (g *SystemGateway) PidPath(pid int32, out []byte) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var buf uintptr
	if len(out) > 0 {
		buf = uintptr(unsafe.Pointer(&out[0]))
	}
	ret := g.pidpath(pid, buf, uint32(len(out)))
	runtime.KeepAlive(out)
	if ret <= 0 {
		return 0, g.callError(fmt.Sprintf("proc_pidpath pid %d", pid))
	}
	return int(ret), nil
}

func (g *SystemGateway) PidRusage(pid, flavor int32, out []byte) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var buf uintptr
	if len(out) > 0 {
		buf = uintptr(unsafe.Pointer(&out[0]))
	}
	res := g.pidrusage(pid, flavor, buf)
	runtime.KeepAlive(out)
	if res != 0 {
		return 0, g.callError(fmt.Sprintf("proc_pid_rusage pid %d flavor %d", pid, flavor))
	}
	return len(out), nil
}

func (g *SystemGateway) callError(call string) error {
	if e := g.lastErrno(); e != 0 {
		return fmt.Errorf("%s: %w", call, e)
	}
	return fmt.Errorf("%s failed", call)
}

// lastErrno reads the calling thread's errno. Only meaningful while the
// goroutine is still locked to the thread that made the failing call.
func (g *SystemGateway) lastErrno() syscall.Errno {
	loc := g.errnoLoc()
	if loc == 0 {
		return 0
	}
	return syscall.Errno(*(*int32)(unsafe.Pointer(loc)))
}
