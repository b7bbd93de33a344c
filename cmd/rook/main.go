package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/hailam/rook/internal/board"
	"github.com/hailam/rook/internal/storage"
	"github.com/hailam/rook/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	useCache   = flag.Bool("cache", false, "answer repeated perft runs from the on-disk cache")
	verbose    = flag.Bool("v", false, "log diagnostics to stderr")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	start := time.Now()
	board.DefaultTables()
	if *verbose {
		log.Printf("attack tables built in %v", time.Since(start))
	}

	var opts []uci.Option
	if *verbose {
		opts = append(opts, uci.WithLogger(log.Default()))
	}
	if *useCache {
		cache, err := storage.NewStorage()
		if err != nil {
			log.Fatal("could not open perft cache: ", err)
		}
		defer cache.Close()
		opts = append(opts, uci.WithCache(cache))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	protocol := uci.New(os.Stdin, os.Stdout, opts...)
	if err := protocol.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("uci: %v", err)
	}
}
