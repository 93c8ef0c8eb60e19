// perft counts legal move trees to verify the move generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("perft version %s\n", programVersion)
		os.Exit(0)
	}
	if *depth < 1 {
		fmt.Fprintf(os.Stderr, "Error: depth must be at least 1\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if *suiteFile != "" {
		os.Exit(suiteMain(ctx))
	}

	if _, err := runPerft(ctx, os.Stdout, *fenFlag, *depth, *divide); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Time: %v\n", time.Since(start).Round(time.Millisecond))
}

func suiteMain(ctx context.Context) int {
	f, err := os.Open(*suiteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	entries, err := loadSuite(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", *suiteFile, err)
		return 1
	}

	failures, err := runSuite(ctx, os.Stdout, entries, *depth, *workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d positions failed\n", failures, len(entries))
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: perft [options]\n\n")
	fmt.Fprintf(os.Stderr, "Counts leaf nodes of the legal move tree.\n\n")
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  perft -depth 5\n")
	fmt.Fprintf(os.Stderr, "  perft -fen \"<fen>\" -depth 3 -divide\n")
	fmt.Fprintf(os.Stderr, "  perft -suite perftsuite.epd -depth 4 -workers 8\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}
