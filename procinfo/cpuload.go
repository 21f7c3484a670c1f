package procinfo

// CPULoadCumulative returns the fraction of its lifetime the process has
// spent executing: (kernelTime + userTime) / upTime. Returns 0 when the
// sample carries no uptime.
func CPULoadCumulative(p CPUTimes) float64 {
	up := p.UpTime()
	if up == 0 {
		return 0
	}
	return float64(p.KernelTime()+p.UserTime()) / float64(up)
}

// CPULoadBetweenTicks returns CPU usage as the ratio of CPU time consumed
// to wall time elapsed between a prior sample and the current one. The
// delta is only meaningful against a strictly older sample of the same
// process; when prior is nil, identifies a different process, or is not
// strictly older by uptime, the cumulative load is returned instead. The
// nil check is on the interface value itself; a typed nil pointer must be
// unwrapped by the caller.
func CPULoadBetweenTicks(current CPUTimes, prior CPUTimes) float64 {
	if prior != nil && current.PID() == prior.PID() && current.UpTime() > prior.UpTime() {
		user := float64(current.UserTime()) - float64(prior.UserTime())
		kernel := float64(current.KernelTime()) - float64(prior.KernelTime())
		return (user + kernel) / float64(current.UpTime()-prior.UpTime())
	}
	return CPULoadCumulative(current)
}
