package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/hailam/rook/internal/board"
	"github.com/hailam/rook/internal/oracle"
	"github.com/hailam/rook/internal/perft"
	"github.com/hailam/rook/internal/render"
	"github.com/hailam/rook/internal/storage"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	moves := flag.String("moves", "", "Space separated moves (coordinate or SAN) applied before counting")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Root moves counted in parallel")
	hashMB := flag.Int("hash", 0, "Subtree hash table size in MB (0 disables)")
	useCache := flag.Bool("cache", false, "Read and write results in the on-disk cache")
	clearCache := flag.Bool("clear-cache", false, "Drop every cached result before running")
	oraclePath := flag.String("oracle", os.Getenv("ROOK_ORACLE"), "Reference engine to compare the divide against")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	svgOut := flag.String("svg", "", "Write an SVG diagram of the position to file")
	pngOut := flag.String("png", "", "Write a PNG diagram of the position to file")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("perft: ")

	if *depth <= 0 && *svgOut == "" && *pngOut == "" {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	start := time.Now()
	tables := board.DefaultTables()
	log.Printf("attack tables built in %v", time.Since(start))

	b, err := board.ParseFENWithTables(*fen, tables)
	if err != nil {
		log.Fatalf("ParseFEN error: %v", err)
	}
	if err := applyMoves(b, *moves); err != nil {
		log.Fatal(err)
	}

	if err := writeDiagrams(b, *svgOut, *pngOut); err != nil {
		log.Fatal(err)
	}
	if *depth <= 0 {
		return
	}

	// Optional CPU profiling
	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatalf("creating cpuprofile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("start cpu profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	opts := []perft.Option{
		perft.WithWorkers(*workers),
		perft.WithHashTable(*hashMB),
		perft.WithLogger(log.Default()),
	}
	if *useCache {
		cache, err := storage.NewStorage()
		if err != nil {
			log.Fatal(err)
		}
		defer cache.Close()
		if *clearCache {
			if err := cache.Clear(); err != nil {
				log.Fatal(err)
			}
		}
		opts = append(opts, perft.WithCache(cache))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := perft.NewRunner(opts...).Run(ctx, b, *depth)
	if err != nil {
		log.Fatal(err)
	}

	if *divide {
		if err := res.Report(os.Stdout); err != nil {
			log.Fatal(err)
		}
	} else {
		fmt.Printf("Nodes: %d\n", res.Nodes)
	}
	if !res.Cached {
		fmt.Printf("Time: %v\n", res.Elapsed)
		fmt.Printf("NPS: %.0f\n", res.NodesPerSecond())
	}

	if *oraclePath != "" {
		if err := compare(ctx, *oraclePath, b, res); err != nil {
			log.Fatal(err)
		}
	}
}

// applyMoves plays each move, accepting coordinate notation first and SAN
// otherwise.
func applyMoves(b *board.Board, list string) error {
	for _, s := range strings.Fields(list) {
		m, err := b.ParseMove(s)
		if err != nil {
			m, err = b.ParseSAN(s)
		}
		if err != nil {
			return fmt.Errorf("move %q in %s: %w", s, b.FEN(), err)
		}
		b.MakeMove(m)
	}
	return nil
}

func writeDiagrams(b *board.Board, svgPath, pngPath string) error {
	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		err = render.SVG(f, b, render.Options{Coordinates: true})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", svgPath, err)
		}
	}
	if pngPath != "" {
		f, err := os.Create(pngPath)
		if err != nil {
			return err
		}
		err = render.PNG(f, b, 480, render.Options{})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", pngPath, err)
		}
	}
	return nil
}

// compare runs the same divide on a reference engine and reports every
// root move whose count differs.
func compare(ctx context.Context, path string, b *board.Board, res *perft.Result) error {
	c, err := oracle.Start(ctx, path)
	if err != nil {
		return err
	}
	defer c.Close()

	want, err := c.Divide(ctx, b.FEN(), res.Depth)
	if err != nil {
		return err
	}

	mismatches := 0
	for _, m := range res.Moves() {
		if n, ok := want[m]; !ok {
			fmt.Printf("%s: %d, oracle does not generate it\n", m, res.Divide[m])
			mismatches++
		} else if n != res.Divide[m] {
			fmt.Printf("%s: %d, oracle %d\n", m, res.Divide[m], n)
			mismatches++
		}
	}
	for m, n := range want {
		if _, ok := res.Divide[m]; !ok {
			fmt.Printf("%s: missing, oracle %d\n", m, n)
			mismatches++
		}
	}

	if mismatches > 0 {
		return fmt.Errorf("%d root moves differ from %s", mismatches, path)
	}
	log.Printf("divide matches %s", path)
	return nil
}
