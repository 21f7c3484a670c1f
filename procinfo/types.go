package procinfo

// ProcessID represents a unique identifier for a process
type ProcessID int32

// CPUTimes is the subset of attributes the CPU load formulas read
type CPUTimes interface {
	// PID returns the process ID the sample was taken for
	PID() ProcessID

	// UpTime returns milliseconds elapsed between process start and the sample
	UpTime() uint64

	// KernelTime returns milliseconds of CPU time spent in kernel mode
	KernelTime() uint64

	// UserTime returns milliseconds of CPU time spent in user mode
	UserTime() uint64
}

// Attributes is the read-only view of one process sample
type Attributes interface {
	CPUTimes

	// ParentPID returns the parent process ID
	ParentPID() ProcessID

	// Name returns the process name
	Name() string

	// Path returns the full path to the executable
	Path() string

	// CommandLine returns the arguments joined into a single string
	CommandLine() string

	// Arguments returns the command line arguments in order, excluding
	// the duplicated executable path
	Arguments() []string

	// Environment returns the environment variables in the order the
	// kernel reported them
	Environment() *Environment

	// State returns the execution state at sampling time
	State() State

	// User returns the name of the user owning the process
	User() string

	// UserID returns the numeric user ID as a string
	UserID() string

	// Group returns the name of the group owning the process
	Group() string

	// GroupID returns the numeric group ID as a string
	GroupID() string

	// Priority returns the scheduling priority
	Priority() int

	// Bitness returns 32 or 64
	Bitness() int

	// ThreadCount returns the number of threads at sampling time
	ThreadCount() int

	// VirtualSize returns the virtual memory size in bytes
	VirtualSize() uint64

	// ResidentSetSize returns the resident memory size in bytes
	ResidentSetSize() uint64

	// StartTime returns the process start time in milliseconds since the epoch
	StartTime() uint64

	// BytesRead returns bytes read from disk
	BytesRead() uint64

	// BytesWritten returns bytes written to disk
	BytesWritten() uint64

	// OpenFiles returns the number of open file descriptors
	OpenFiles() uint64

	// MinorFaults returns page faults serviced without disk I/O
	MinorFaults() uint64

	// MajorFaults returns page faults serviced by reading from disk
	MajorFaults() uint64

	// ContextSwitches returns the number of context switches
	ContextSwitches() uint64
}
