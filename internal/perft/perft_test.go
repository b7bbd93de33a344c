package perft

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/hailam/rook/internal/board"
	"github.com/hailam/rook/internal/storage"
	"github.com/hailam/rook/internal/testutil"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustParse(t *testing.T, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	testutil.AssertNoError(t, err, fen)
	return b
}

func TestRunnerMatchesBoardPerft(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		fen   string
		depth int
		want  uint64
	}{
		{"serial start", []Option{WithWorkers(1)}, board.StartFEN, 3, 8902},
		{"parallel start", []Option{WithWorkers(4)}, board.StartFEN, 4, 197281},
		{"parallel kiwipete", nil, kiwipeteFEN, 3, 97862},
		{"hashed kiwipete", []Option{WithHashTable(16)}, kiwipeteFEN, 3, 97862},
		{"hashed start", []Option{WithHashTable(1), WithWorkers(2)}, board.StartFEN, 4, 197281},
		{"depth zero", nil, board.StartFEN, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			before := b.FEN()

			res, err := NewRunner(tc.opts...).Run(context.Background(), b, tc.depth)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, res.Nodes, tc.want)
			testutil.AssertFalse(t, res.Cached)
			testutil.AssertEqual(t, b.FEN(), before, "board modified")
			testutil.AssertEqual(t, b.Ply(), 0)

			var sum uint64
			for _, n := range res.Divide {
				sum += n
			}
			if tc.depth > 0 {
				testutil.AssertEqual(t, sum, tc.want)
				testutil.AssertEqual(t, len(res.Divide), b.GenerateMoves().Len())
			}
		})
	}
}

func TestRunnerDivideMatchesBoard(t *testing.T) {
	b := mustParse(t, kiwipeteFEN)
	res, err := NewRunner(WithWorkers(3)).Run(context.Background(), b, 2)
	testutil.AssertNoError(t, err)

	want := make(map[string]uint64)
	for _, e := range b.Divide(2) {
		want[e.Move.String()] = e.Nodes
	}
	testutil.AssertEqual(t, res.Divide, want)
}

func TestRunnerCache(t *testing.T) {
	cache, err := storage.OpenInMemory()
	testutil.AssertNoError(t, err)
	defer cache.Close()

	var logs bytes.Buffer
	r := NewRunner(WithCache(cache), WithLogger(log.New(&logs, "", 0)))
	b := board.NewBoard()

	first, err := r.Run(context.Background(), b, 3)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, first.Cached)

	stored, ok, err := cache.LoadPerft(board.StartFEN, 3)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ok, "result not written to the cache")
	testutil.AssertEqual(t, stored.Total, uint64(8902))

	second, err := r.Run(context.Background(), b, 3)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, second.Cached)
	testutil.AssertEqual(t, second.Nodes, first.Nodes)
	testutil.AssertEqual(t, second.Divide, first.Divide)
	testutil.AssertContains(t, logs.String(), "cache hit")
}

type failingCache struct{}

var errBroken = errors.New("broken cache")

func (failingCache) LoadPerft(string, int) (*storage.PerftResult, bool, error) {
	return nil, false, errBroken
}

func (failingCache) SavePerft(*storage.PerftResult) error { return errBroken }

func TestRunnerCacheErrors(t *testing.T) {
	_, err := NewRunner(WithCache(failingCache{})).Run(context.Background(), board.NewBoard(), 1)
	testutil.AssertErrorIs(t, err, errBroken)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner().Run(ctx, board.NewBoard(), 3)
	testutil.AssertErrorIs(t, err, context.Canceled)
}

func TestRunnerStopsMidRun(t *testing.T) {
	if testing.Short() {
		t.Skip("deep perft")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewRunner(WithWorkers(1)).Run(ctx, mustParse(t, kiwipeteFEN), 6)
	testutil.AssertErrorIs(t, err, context.DeadlineExceeded)
	testutil.AssertTrue(t, time.Since(start) < 5*time.Second, "cancelled run took %v", time.Since(start))
}

func TestReport(t *testing.T) {
	res, err := NewRunner().Run(context.Background(), board.NewBoard(), 1)
	testutil.AssertNoError(t, err)

	var out strings.Builder
	testutil.AssertNoError(t, res.Report(&out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	testutil.AssertEqual(t, len(lines), 22)
	testutil.AssertEqual(t, lines[0], "a2a3: 1")
	testutil.AssertEqual(t, lines[20], "")
	testutil.AssertEqual(t, lines[21], "Nodes searched: 20")
	testutil.AssertEqual(t, res.Moves()[19], "h2h4")
}

func TestHashTable(t *testing.T) {
	ht := NewHashTable(1)
	testutil.AssertEqual(t, ht.Size()&(ht.Size()-1), uint64(0), "size is a power of two")

	_, ok := ht.Probe(42, 3)
	testutil.AssertFalse(t, ok)

	ht.Store(42, 3, 1000)
	n, ok := ht.Probe(42, 3)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, n, uint64(1000))

	_, ok = ht.Probe(42, 2)
	testutil.AssertFalse(t, ok, "depth is part of the entry")
	testutil.AssertTrue(t, ht.HitRate() > 33 && ht.HitRate() < 34, "hit rate %.2f", ht.HitRate())

	ht.Clear()
	_, ok = ht.Probe(42, 3)
	testutil.AssertFalse(t, ok)
}

func BenchmarkRunnerParallel(b *testing.B) {
	pos := board.NewBoard()
	r := NewRunner()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(context.Background(), pos, 4); err != nil {
			b.Fatal(err)
		}
	}
}
