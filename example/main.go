package main

import (
	"fmt"
	"os"
	"time"

	"procsnap/procinfo"
	"procsnap/snapshot"
	"procsnap/sysquery"
)

func main() {
	// This example samples the current process twice and derives the CPU
	// load between the two samples.

	// 1. Open the native gateway. On an unsupported platform this returns
	// an error and nothing below can run.
	gw, err := sysquery.NewSystemGateway()
	if err != nil {
		fmt.Printf("Failed to open system gateway: %v\n", err)
		return
	}

	// 2. A Source queries the kernel's argument block capacity once and
	// hands out snapshots that share it.
	src := snapshot.NewSource(gw)

	// 3. Construction performs the first refresh. A pid that cannot be
	// sampled yields StateInvalid rather than an error.
	prior := src.Snapshot(procinfo.ProcessID(os.Getpid()))
	if prior.State() == procinfo.StateInvalid {
		fmt.Println("Could not sample this process")
		return
	}

	fmt.Printf("name:         %s\n", prior.Name())
	fmt.Printf("path:         %s\n", prior.Path())
	fmt.Printf("command line: %s\n", prior.CommandLine())
	fmt.Printf("state:        %s\n", prior.State())
	fmt.Printf("user:         %s\n", prior.User())
	fmt.Printf("threads:      %d\n", prior.ThreadCount())
	fmt.Printf("started:      %s\n", time.UnixMilli(int64(prior.StartTime())).Format(time.RFC3339))

	// 4. The environment comes from the same decode as the arguments.
	env := prior.Environment()
	if home, ok := env.Get("HOME"); ok {
		fmt.Printf("HOME:         %s\n", home)
	}

	// 5. Burn a little CPU, then take a second sample and compare.
	spin(200 * time.Millisecond)

	current := src.Snapshot(prior.PID())
	fmt.Printf("cpu since start:     %.2f%%\n", current.CPULoadCumulative()*100)
	fmt.Printf("cpu between samples: %.2f%%\n", current.CPULoadBetweenTicks(prior)*100)
}

func spin(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
