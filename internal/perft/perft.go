// Package perft runs divided perft counts over root moves in parallel,
// optionally backed by a persistent result cache and a shared hash table.
package perft

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/rook/internal/board"
	"github.com/hailam/rook/internal/storage"
)

// Cache stores finished results between runs.
type Cache interface {
	LoadPerft(fen string, depth int) (*storage.PerftResult, bool, error)
	SavePerft(r *storage.PerftResult) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds how many root moves are counted at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithCache answers repeated runs from c and records new results in it.
func WithCache(c Cache) Option {
	return func(r *Runner) { r.cache = c }
}

// WithLogger sets where timings and cache events are logged.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHashTable shares subtree counts through a table of sizeMB megabytes.
func WithHashTable(sizeMB int) Option {
	return func(r *Runner) {
		if sizeMB > 0 {
			r.table = NewHashTable(sizeMB)
		}
	}
}

// Runner counts perft trees.
type Runner struct {
	workers int
	cache   Cache
	logger  *log.Logger
	table   *HashTable
}

// NewRunner creates a Runner using every CPU and no cache by default.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		workers: runtime.GOMAXPROCS(0),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is a divided perft count.
type Result struct {
	FEN     string
	Depth   int
	Nodes   uint64
	Divide  map[string]uint64
	Elapsed time.Duration
	Cached  bool
}

// Moves returns the root moves in sorted order.
func (res *Result) Moves() []string {
	moves := maps.Keys(res.Divide)
	slices.Sort(moves)
	return moves
}

// NodesPerSecond returns the counting speed, or 0 for instant results.
func (res *Result) NodesPerSecond() float64 {
	if res.Elapsed <= 0 {
		return 0
	}
	return float64(res.Nodes) / res.Elapsed.Seconds()
}

// Report writes one "move: count" line per root move, a blank line and
// the total.
func (res *Result) Report(w io.Writer) error {
	for _, m := range res.Moves() {
		if _, err := fmt.Fprintf(w, "%s: %d\n", m, res.Divide[m]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nNodes searched: %d\n", res.Nodes)
	return err
}

// Run counts the leaves below b at depth, splitting the work by root move.
// b is not modified. Cancellation is noticed between second-ply subtrees,
// so a cancelled run returns after at most one depth-2 count per worker.
func (r *Runner) Run(ctx context.Context, b *board.Board, depth int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fen := b.FEN()
	if r.cache != nil {
		cached, ok, err := r.cache.LoadPerft(fen, depth)
		if err != nil {
			return nil, err
		}
		if ok {
			r.logger.Printf("perft(%d) cache hit for %s", depth, fen)
			return &Result{
				FEN:     fen,
				Depth:   depth,
				Nodes:   cached.Total,
				Divide:  cached.Divide,
				Elapsed: cached.Elapsed,
				Cached:  true,
			}, nil
		}
	}

	start := time.Now()
	res := &Result{FEN: fen, Depth: depth, Divide: make(map[string]uint64)}
	if depth <= 0 {
		res.Nodes = 1
	} else {
		moves := b.GenerateMoves().Slice()
		counts := make([]uint64, len(moves))

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for i, m := range moves {
			child := b.Clone()
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				child.MakeMove(m)
				n, err := r.countSplit(ctx, child, depth-1)
				counts[i] = n
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i, m := range moves {
			res.Divide[m.String()] = counts[i]
			res.Nodes += counts[i]
		}
	}
	res.Elapsed = time.Since(start)

	r.logger.Printf("perft(%d) = %d in %v (%.0f nps)", depth, res.Nodes, res.Elapsed, res.NodesPerSecond())
	if r.table != nil {
		r.logger.Printf("hash table hit rate %.1f%% over %d entries", r.table.HitRate(), r.table.Size())
	}

	if r.cache != nil {
		err := r.cache.SavePerft(&storage.PerftResult{
			FEN:     fen,
			Depth:   depth,
			Total:   res.Nodes,
			Divide:  res.Divide,
			Elapsed: res.Elapsed,
		})
		if err != nil {
			return res, fmt.Errorf("save perft result: %w", err)
		}
	}
	return res, nil
}

// countSplit counts below b one move at a time, checking ctx before each.
func (r *Runner) countSplit(ctx context.Context, b *board.Board, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	var ml board.MoveList
	b.GenerateMovesInto(&ml)
	var nodes uint64
	for _, m := range ml.Slice() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		b.MakeMove(m)
		nodes += r.count(b, depth-1)
		b.UndoMove(m)
	}
	return nodes, nil
}

func (r *Runner) count(b *board.Board, depth int) uint64 {
	if r.table != nil {
		return r.table.count(b, depth)
	}
	return b.Perft(depth)
}
