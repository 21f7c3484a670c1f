package procinfo

// State represents the execution state of a process
type State string

const (
	StateNew      State = "NEW"      // In the object/create phase
	StateRunning  State = "RUNNING"  // Executing or runnable
	StateSleeping State = "SLEEPING" // Sleeping on an address
	StateWaiting  State = "WAITING"  // Process debugging or suspension
	StateStopped  State = "STOPPED"  // Stopped on a signal
	StateZombie   State = "ZOMBIE"   // Exited but not yet reaped
	StateOther    State = "OTHER"    // A state not covered above
	StateInvalid  State = "INVALID"  // The sample failed; no field is meaningful
)
