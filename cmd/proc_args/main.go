package main

import (
	"flag"
	"fmt"
	"os"

	"procsnap/hexdump"
	"procsnap/procargs"
	"procsnap/sysquery"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to read the argument block of")
	hexFlag := flag.Bool("hex", false, "Dump the raw block instead of decoding it")
	findFlag := flag.String("find", "", "Highlight this text in the hex dump")
	envFlag := flag.Bool("env", false, "Print environment entries after the arguments")
	flag.Parse()

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
	fetcher := sysquery.NewFetcher(gw)

	argmax := fetcher.Uint32("kern.argmax", 0)
	if argmax == 0 {
		fmt.Println("Error: kernel did not report an argument block capacity")
		os.Exit(1)
	}

	mib := []int32{sysquery.CTLKern, sysquery.KernProcargs2, int32(*pidFlag)}
	block, ok := fetcher.BytesMIB(mib, int(argmax))
	if !ok {
		fmt.Printf("Error: no argument block for process %d\n", *pidFlag)
		os.Exit(1)
	}

	if *hexFlag {
		options := hexdump.DefaultOptions()
		options.CollapseZeroLines = true
		options.HighlightPattern = []byte(*findFlag)
		fmt.Print(hexdump.Dump(block, options))
		return
	}

	args, env, decoded := procargs.DecodeBlock(block)
	if !decoded {
		fmt.Printf("Error: block for process %d did not decode, try --hex\n", *pidFlag)
		os.Exit(1)
	}

	fmt.Printf("%d arguments:\n", len(args))
	for i, arg := range args {
		fmt.Printf("  [%d] %s\n", i, arg)
	}

	if *envFlag {
		fmt.Printf("%d environment entries:\n", env.Len())
		for _, key := range env.Keys() {
			value, _ := env.Get(key)
			fmt.Printf("  %s=%s\n", key, value)
		}
	}
}
