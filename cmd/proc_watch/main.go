package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/unix"

	"procsnap/procinfo"
	"procsnap/snapshot"
	"procsnap/sysquery"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using defaults")
	}

	pidsFlag := flag.String("pids", getEnv("PROCWATCH_PIDS", ""), "Comma separated process IDs to watch")
	intervalFlag := flag.Duration("interval", getEnvDuration("PROCWATCH_INTERVAL", 2*time.Second), "Sampling interval")
	flag.Parse()

	pids, err := parsePids(*pidsFlag)
	if err != nil {
		fmt.Printf("Error parsing --pids: %v\n", err)
		os.Exit(1)
	}
	if len(pids) == 0 {
		fmt.Println("Error: --pids is required (or set PROCWATCH_PIDS)")
		flag.Usage()
		os.Exit(1)
	}

	gw, err := sysquery.NewSystemGateway()
	if err != nil {
		fmt.Printf("Error opening system gateway: %v\n", err)
		os.Exit(1)
	}
	src := snapshot.NewSource(gw)

	cores, err := cpu.Counts(true)
	if err != nil || cores < 1 {
		cores = 1
	}
	fmt.Printf("Watching %d processes every %s across %d logical CPUs\n", len(pids), *intervalFlag, cores)

	prior := make(map[procinfo.ProcessID]*snapshot.Snapshot, len(pids))
	for _, pid := range pids {
		prior[pid] = src.Snapshot(pid)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGINT, unix.SIGTERM)

	ticker := time.NewTicker(*intervalFlag)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			fmt.Println("Shutting down")
			return
		case <-ticker.C:
			if vm, err := mem.VirtualMemory(); err == nil {
				fmt.Printf("%s host memory %.1f%% used\n", time.Now().Format("15:04:05"), vm.UsedPercent)
			}
			for _, pid := range pids {
				current := src.Snapshot(pid)
				if current.State() == procinfo.StateInvalid {
					fmt.Printf("  %6d gone\n", pid)
					continue
				}
				load := current.CPULoadBetweenTicks(prior[pid])
				fmt.Printf("  %6d %-20s %6.1f%% cpu  %5.1f%% of machine  rss %-10s threads %d\n",
					pid,
					current.Name(),
					load*100,
					load/float64(cores)*100,
					formatBytes(current.ResidentSetSize()),
					current.ThreadCount())
				prior[pid] = current
			}
		}
	}
}

func parsePids(s string) ([]procinfo.ProcessID, error) {
	var pids []procinfo.ProcessID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pid, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid pid %q", part)
		}
		pids = append(pids, procinfo.ProcessID(pid))
	}
	return pids, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
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
