package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"procsnap/procinfo"
	"procsnap/snapshot"
	"procsnap/sysquery"
	"procsnap/taskinfo"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to sample")
	watchFlag := flag.Duration("watch", 0, "Resample at this interval (e.g. 1s) and report CPU between samples")
	schemaFlag := flag.Bool("schema", false, "Print the native struct layouts and exit")
	flag.Parse()

	if *schemaFlag {
		printSchema("proc_taskallinfo", taskinfo.TaskAllInfo)
		printSchema("rusage_info_v2", taskinfo.RusageV2)
		return
	}

	if *pidFlag == 0 {
		fmt.Println("Error: --pid is required")
		flag.Usage()
		os.Exit(1)
	}

	gw, err := sysquery.NewSystemGateway()
	if err != nil {
		fmt.Printf("Error opening system gateway: %v\n", err)
		os.Exit(1)
	}

	src := snapshot.NewSource(gw)
	p := src.Snapshot(procinfo.ProcessID(*pidFlag))
	if p.State() == procinfo.StateInvalid {
		fmt.Printf("Error: process %d cannot be sampled\n", *pidFlag)
		os.Exit(1)
	}

	printSnapshot(p)

	if *watchFlag <= 0 {
		return
	}

	prior := p
	for {
		time.Sleep(*watchFlag)
		current := src.Snapshot(prior.PID())
		if current.State() == procinfo.StateInvalid {
			fmt.Printf("Process %d is gone\n", *pidFlag)
			return
		}
		fmt.Printf("%s  cpu=%5.1f%%  rss=%-10s  threads=%-3d  state=%s\n",
			time.Now().Format("15:04:05"),
			current.CPULoadBetweenTicks(prior)*100,
			formatBytes(current.ResidentSetSize()),
			current.ThreadCount(),
			current.State())
		prior = current
	}
}

func printSnapshot(p *snapshot.Snapshot) {
	fmt.Printf("pid:              %d\n", p.PID())
	fmt.Printf("parent pid:       %d\n", p.ParentPID())
	fmt.Printf("name:             %s\n", p.Name())
	fmt.Printf("path:             %s\n", p.Path())
	fmt.Printf("command line:     %s\n", p.CommandLine())
	fmt.Printf("state:            %s\n", p.State())
	fmt.Printf("user:             %s (%s)\n", p.User(), p.UserID())
	fmt.Printf("group:            %s (%s)\n", p.Group(), p.GroupID())
	fmt.Printf("priority:         %d\n", p.Priority())
	fmt.Printf("bitness:          %d-bit\n", p.Bitness())
	fmt.Printf("threads:          %d\n", p.ThreadCount())
	fmt.Printf("open files:       %d\n", p.OpenFiles())
	fmt.Printf("virtual size:     %s\n", formatBytes(p.VirtualSize()))
	fmt.Printf("resident size:    %s\n", formatBytes(p.ResidentSetSize()))
	fmt.Printf("started:          %s (up %s)\n",
		time.UnixMilli(int64(p.StartTime())).Format(time.RFC3339),
		(time.Duration(p.UpTime()) * time.Millisecond).Round(time.Second))
	fmt.Printf("kernel time:      %s\n", time.Duration(p.KernelTime())*time.Millisecond)
	fmt.Printf("user time:        %s\n", time.Duration(p.UserTime())*time.Millisecond)
	fmt.Printf("cpu cumulative:   %.2f%%\n", p.CPULoadCumulative()*100)
	fmt.Printf("disk read:        %s\n", formatBytes(p.BytesRead()))
	fmt.Printf("disk written:     %s\n", formatBytes(p.BytesWritten()))
	fmt.Printf("minor faults:     %d\n", p.MinorFaults())
	fmt.Printf("major faults:     %d\n", p.MajorFaults())
	fmt.Printf("context switches: %d\n", p.ContextSwitches())
	fmt.Printf("affinity mask:    0x%x\n", p.AffinityMask())
}

func printSchema(name string, schema *taskinfo.Schema) {
	fmt.Printf("%s (%d bytes)\n", name, schema.Size())
	for _, field := range schema.Fields() {
		fmt.Printf("  %4d  %-24s %s\n", field.Offset, field.Name, kindName(field))
	}
	fmt.Println()
}

func kindName(field taskinfo.Field) string {
	switch field.Kind {
	case taskinfo.KindUint32:
		return "uint32"
	case taskinfo.KindInt32:
		return "int32"
	case taskinfo.KindUint64:
		return "uint64"
	case taskinfo.KindChars:
		return fmt.Sprintf("char[%d]", field.Len)
	}
	return "unknown"
}

func formatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
