package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/solen/qflick/internal/demo"
	"github.com/solen/qflick/pkg/logger"
)

const demoTimeout = 1 * time.Minute

func main() {
	var (
		query   = flag.String("query", "", "Query to rank (default: built-in query set)")
		mode    = flag.String("mode", "both", "Ranking mode: classical, quantum or both")
		compare = flag.Bool("compare", false, "Also run the mode comparator for every query")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		demo.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), demoTimeout)
	defer cancel()

	config := &demo.Config{
		Query:   *query,
		Mode:    *mode,
		Compare: *compare,
		Verbose: *verbose,
	}
	if err := demo.Run(ctx, config); err != nil {
		os.Stderr.WriteString("demo failed: " + err.Error() + "\n")
		return
	}
}
