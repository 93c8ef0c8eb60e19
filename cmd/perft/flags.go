// flags.go - Command-line flag definitions
package main

import (
	"flag"
	"runtime"

	"github.com/lgbarn/chess-platform-go/internal/engine"
)

var (
	fenFlag   = flag.String("fen", engine.InitialFEN, "Position to count from")
	depth     = flag.Int("depth", 3, "Search depth (maximum depth in suite mode)")
	divide    = flag.Bool("divide", false, "Print the node count below each root move")
	suiteFile = flag.String("suite", "", "EPD suite file with ;D<n> <count> expectations")
	workers   = flag.Int("workers", runtime.NumCPU(), "Suite worker count")
	version   = flag.Bool("version", false, "Print version and exit")
)
