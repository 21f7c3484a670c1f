package snapshot

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Moonlight-Companies/gologger/logger"

	"procsnap/memoize"
	"procsnap/procinfo"
	"procsnap/sysquery"
	"procsnap/taskinfo"
)

// Process status codes reported in pbi_status
const (
	statusSleep   = 1 // awaiting an event
	statusWait    = 2 // sleeping on a short-term object
	statusRun     = 3 // runnable
	statusIdle    = 4 // created but not yet runnable
	statusZombie  = 5 // exited, awaiting collection by parent
	statusStopped = 6 // stopped by a signal or the debugger
)

// processFlag64Bit is set in pbi_flags when the process runs an LP64 image
const processFlag64Bit = 0x4

func stateFromStatus(status uint32) procinfo.State {
	switch status {
	case statusSleep:
		return procinfo.StateSleeping
	case statusWait:
		return procinfo.StateWaiting
	case statusRun:
		return procinfo.StateRunning
	case statusIdle:
		return procinfo.StateNew
	case statusZombie:
		return procinfo.StateZombie
	case statusStopped:
		return procinfo.StateStopped
	default:
		return procinfo.StateOther
	}
}

func nonNegative(v int32) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

// fields holds every refreshable attribute so a refresh can stage its
// results and publish them as a unit
type fields struct {
	name            string
	path            string
	state           procinfo.State
	user            string
	userID          string
	group           string
	groupID         string
	parentPID       procinfo.ProcessID
	priority        int
	bitness         int
	threadCount     int
	virtualSize     uint64
	residentSetSize uint64
	kernelTime      uint64
	userTime        uint64
	startTime       uint64
	upTime          uint64
	bytesRead       uint64
	bytesWritten    uint64
	openFiles       uint64
	minorFaults     uint64
	majorFaults     uint64
	contextSwitches uint64
}

// argsEnvResult pairs the decoded argument vector with the environment so
// both always come from the same raw block
type argsEnvResult struct {
	args []string
	env  *procinfo.Environment
}

// Snapshot holds one process's attributes as of its most recent refresh.
// Readers may query concurrently with a refresh; they observe either the
// previous field set or the new one, never a mix.
type Snapshot struct {
	pid procinfo.ProcessID
	src *Source
	log *logger.Logger

	mu  sync.RWMutex
	cur fields

	cpu     *memoize.Cell[float64]
	argsEnv *memoize.Cell[argsEnvResult]
	cmdline *memoize.Cell[string]
}

var _ procinfo.Attributes = (*Snapshot)(nil)

// Refresh samples the process again and replaces the published attributes.
// It returns false when the process cannot be sampled; in that case the
// state becomes StateInvalid and every other field keeps its prior value.
func (p *Snapshot) Refresh() bool {
	now := uint64(p.src.clock().UnixMilli())

	buf := make([]byte, taskinfo.TaskAllInfo.Size())
	if _, err := p.src.gw.PidInfo(int32(p.pid), sysquery.ProcPidTaskAllInfo, buf); err != nil {
		p.log.Debugln("Failed to query process info:", err)
		p.setInvalid()
		return false
	}
	view := taskinfo.TaskAllInfo.View(buf)

	// A dead pid can come back as a zero-filled buffer instead of an
	// error; no live process has zero threads.
	threads := view.Int32("pti_threadnum")
	if threads <= 0 {
		p.setInvalid()
		return false
	}

	p.mu.RLock()
	st := p.cur
	p.mu.RUnlock()

	pathBuf := make([]byte, sysquery.ProcPidPathInfoMaxSize)
	if _, err := p.src.gw.PidPath(int32(p.pid), pathBuf); err == nil {
		st.path = strings.TrimSpace(stringAtNul(pathBuf))
		if i := strings.LastIndexByte(st.path, '/'); i >= 0 {
			st.name = st.path[i+1:]
		} else {
			st.name = st.path
		}
	}
	if st.name == "" {
		st.name = view.String("pbi_comm")
	}

	st.state = stateFromStatus(view.Uint32("pbi_status"))
	st.parentPID = procinfo.ProcessID(view.Uint32("pbi_ppid"))

	uid := view.Uint32("pbi_uid")
	st.userID = strconv.FormatUint(uint64(uid), 10)
	if name, ok := p.src.identity.UserName(uid); ok {
		st.user = name
	} else {
		st.user = st.userID
	}
	gid := view.Uint32("pbi_gid")
	st.groupID = strconv.FormatUint(uint64(gid), 10)
	if name, ok := p.src.identity.GroupName(gid); ok {
		st.group = name
	} else {
		st.group = st.groupID
	}

	st.threadCount = int(threads)
	st.priority = int(view.Int32("pti_priority"))
	st.virtualSize = view.Uint64("pti_virtual_size")
	st.residentSetSize = view.Uint64("pti_resident_size")

	// The kernel reports CPU times in nanoseconds and the start time as
	// seconds plus a microsecond remainder; everything here is milliseconds.
	st.kernelTime = view.Uint64("pti_total_system") / 1_000_000
	st.userTime = view.Uint64("pti_total_user") / 1_000_000
	st.startTime = view.Uint64("pbi_start_tvsec")*1000 + view.Uint64("pbi_start_tvusec")/1000
	if st.startTime > now {
		p.log.Debugln("Process start time", st.startTime, "is after now", now)
		p.setInvalid()
		return false
	}
	st.upTime = now - st.startTime

	st.openFiles = uint64(view.Uint32("pbi_nfiles"))
	if view.Uint32("pbi_flags")&processFlag64Bit == 0 {
		st.bitness = 32
	} else {
		st.bitness = 64
	}

	// Faults come back as one combined counter plus the pageins that
	// required disk reads.
	faults := nonNegative(view.Int32("pti_faults"))
	st.majorFaults = nonNegative(view.Int32("pti_pageins"))
	if faults > st.majorFaults {
		st.minorFaults = faults - st.majorFaults
	} else {
		st.minorFaults = 0
	}
	st.contextSwitches = nonNegative(view.Int32("pti_csw"))

	rusageBuf := make([]byte, taskinfo.RusageV2.Size())
	if _, err := p.src.gw.PidRusage(int32(p.pid), sysquery.RusageInfoV2, rusageBuf); err == nil {
		rusage := taskinfo.RusageV2.View(rusageBuf)
		st.bytesRead = rusage.Uint64("ri_diskio_bytesread")
		st.bytesWritten = rusage.Uint64("ri_diskio_byteswritten")
	} else {
		p.log.Debugln("Failed to query process rusage:", err)
	}

	p.mu.Lock()
	p.cur = st
	p.mu.Unlock()
	return true
}

func (p *Snapshot) setInvalid() {
	p.mu.Lock()
	p.cur.state = procinfo.StateInvalid
	p.mu.Unlock()
}

// stringAtNul returns the bytes before the first NUL as a string
func stringAtNul(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// PID returns the process ID the snapshot was created for
func (p *Snapshot) PID() procinfo.ProcessID { return p.pid }

// ParentPID returns the parent process ID
func (p *Snapshot) ParentPID() procinfo.ProcessID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.parentPID
}

// Name returns the process name
func (p *Snapshot) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.name
}

// Path returns the full path to the executable
func (p *Snapshot) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.path
}

// State returns the execution state as of the last refresh
func (p *Snapshot) State() procinfo.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.state
}

// User returns the name of the user owning the process
func (p *Snapshot) User() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.user
}

// UserID returns the numeric user ID as a string
func (p *Snapshot) UserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.userID
}

// Group returns the name of the group owning the process
func (p *Snapshot) Group() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.group
}

// GroupID returns the numeric group ID as a string
func (p *Snapshot) GroupID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.groupID
}

// Priority returns the scheduling priority
func (p *Snapshot) Priority() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.priority
}

// Bitness returns 32 or 64
func (p *Snapshot) Bitness() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.bitness
}

// ThreadCount returns the number of threads at sampling time
func (p *Snapshot) ThreadCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.threadCount
}

// VirtualSize returns the virtual memory size in bytes
func (p *Snapshot) VirtualSize() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.virtualSize
}

// ResidentSetSize returns the resident memory size in bytes
func (p *Snapshot) ResidentSetSize() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.residentSetSize
}

// KernelTime returns milliseconds of CPU time spent in kernel mode
func (p *Snapshot) KernelTime() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.kernelTime
}

// UserTime returns milliseconds of CPU time spent in user mode
func (p *Snapshot) UserTime() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.userTime
}

// StartTime returns the process start time in milliseconds since the epoch
func (p *Snapshot) StartTime() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.startTime
}

// UpTime returns milliseconds elapsed between process start and the last
// refresh
func (p *Snapshot) UpTime() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.upTime
}

// BytesRead returns bytes read from disk
func (p *Snapshot) BytesRead() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.bytesRead
}

// BytesWritten returns bytes written to disk
func (p *Snapshot) BytesWritten() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.bytesWritten
}

// OpenFiles returns the number of open file descriptors
func (p *Snapshot) OpenFiles() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.openFiles
}

// MinorFaults returns page faults serviced without disk I/O
func (p *Snapshot) MinorFaults() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.minorFaults
}

// MajorFaults returns page faults serviced by reading from disk
func (p *Snapshot) MajorFaults() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.majorFaults
}

// ContextSwitches returns the number of context switches
func (p *Snapshot) ContextSwitches() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur.contextSwitches
}

// Arguments returns the command line arguments in order, excluding the
// duplicated executable path. The underlying block is decoded at most once
// per snapshot.
func (p *Snapshot) Arguments() []string {
	res := p.argsEnv.Get()
	return append([]string(nil), res.args...)
}

// Environment returns a copy of the environment variables in the order the
// kernel reported them
func (p *Snapshot) Environment() *procinfo.Environment {
	return p.argsEnv.Get().env.Clone()
}

// CommandLine returns the arguments joined into a single string
func (p *Snapshot) CommandLine() string {
	return p.cmdline.Get()
}

// CPULoadCumulative returns the fraction of CPU consumed since the process
// started, as of the last refresh. The value is memoized briefly so bursts
// of reads do not recompute it.
func (p *Snapshot) CPULoadCumulative() float64 {
	return p.cpu.Get()
}

// CPULoadBetweenTicks returns the fraction of CPU consumed between prior
// and this snapshot. The delta only makes sense against an older sample of
// the same process; anything else falls back to the cumulative value.
func (p *Snapshot) CPULoadBetweenTicks(prior procinfo.CPUTimes) float64 {
	// A nil *Snapshot still satisfies the interface; treat it as no sample.
	if s, ok := prior.(*Snapshot); ok && s == nil {
		prior = nil
	}
	if prior != nil && prior.PID() == p.pid && p.UpTime() > prior.UpTime() {
		return procinfo.CPULoadBetweenTicks(p, prior)
	}
	return p.CPULoadCumulative()
}

// AffinityMask returns a mask with one bit set per logical processor.
// Affinity cannot be pinned here, so every processor is reported eligible.
func (p *Snapshot) AffinityMask() uint64 {
	n := p.src.fetcher.Uint32("hw.logicalcpu", 1)
	if n < 64 {
		return uint64(1)<<n - 1
	}
	return ^uint64(0)
}

func (p *Snapshot) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fmt.Sprintf("pid=%d name=%q state=%s uptime=%dms", p.pid, p.cur.name, p.cur.state, p.cur.upTime)
}

func (p *Snapshot) queryCumulativeCPULoad() float64 {
	return procinfo.CPULoadCumulative(p)
}

func (p *Snapshot) queryArgsEnv() argsEnvResult {
	args, env := p.src.decoder.ArgsEnv(p.pid)
	return argsEnvResult{args: args, env: env}
}

func (p *Snapshot) queryCommandLine() string {
	return strings.TrimSpace(strings.Join(p.argsEnv.Get().args, " "))
}
