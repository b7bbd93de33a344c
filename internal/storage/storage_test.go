package storage

import (
	"testing"
	"time"

	"github.com/hailam/rook/internal/testutil"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPerftRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	_, ok, err := s.LoadPerft(startFEN, 2)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, ok, "empty cache reported a hit")

	want := &PerftResult{
		FEN:     startFEN,
		Depth:   1,
		Total:   20,
		Divide:  map[string]uint64{"e2e4": 1, "g1f3": 1},
		Elapsed: 3 * time.Millisecond,
	}
	testutil.AssertNoError(t, s.SavePerft(want))
	testutil.AssertFalse(t, want.Timestamp.IsZero(), "timestamp not set")

	got, ok, err := s.LoadPerft(startFEN, 1)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, got.Total, want.Total)
	testutil.AssertEqual(t, got.Divide, want.Divide)
	testutil.AssertEqual(t, got.Elapsed, want.Elapsed)
	testutil.AssertTrue(t, got.Timestamp.Equal(want.Timestamp))

	_, ok, err = s.LoadPerft(startFEN, 2)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, ok, "depth is part of the key")
}

func TestResultsAndClear(t *testing.T) {
	s := newTestStorage(t)

	for depth, total := range []uint64{1, 20, 400} {
		testutil.AssertNoError(t, s.SavePerft(&PerftResult{FEN: startFEN, Depth: depth, Total: total}))
	}

	results, err := s.Results()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(results), 3)
	testutil.AssertEqual(t, results[2].Total, uint64(400))

	testutil.AssertNoError(t, s.DeletePerft(startFEN, 0))
	results, err = s.Results()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(results), 2)

	testutil.AssertNoError(t, s.Clear())
	results, err = s.Results()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(results), 0)
}

func TestReopenKeepsResults(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.SavePerft(&PerftResult{FEN: startFEN, Depth: 3, Total: 8902}))
	testutil.AssertNoError(t, s.Close())

	s, err = Open(dir)
	testutil.AssertNoError(t, err)
	defer s.Close()

	got, ok, err := s.LoadPerft(startFEN, 3)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, got.Total, uint64(8902))
}

func TestInMemory(t *testing.T) {
	s, err := OpenInMemory()
	testutil.AssertNoError(t, err)
	defer s.Close()

	testutil.AssertNoError(t, s.SavePerft(&PerftResult{FEN: startFEN, Depth: 1, Total: 20}))
	got, ok, err := s.LoadPerft(startFEN, 1)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, got.Total, uint64(20))
}

func TestGetDataDirHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("APPDATA", dir)
	t.Setenv("HOME", dir)

	got, err := GetCacheDir()
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, got, appName)
}

func TestDataBase(t *testing.T) {
	tests := []struct {
		goos     string
		env      string
		fallback []string
	}{
		{"darwin", "", []string{"Library", "Application Support"}},
		{"windows", "APPDATA", []string{"AppData", "Roaming"}},
		{"linux", "XDG_DATA_HOME", []string{".local", "share"}},
		{"freebsd", "XDG_DATA_HOME", []string{".local", "share"}},
	}
	for _, tc := range tests {
		t.Run(tc.goos, func(t *testing.T) {
			env, fallback := dataBase(tc.goos)
			testutil.AssertEqual(t, env, tc.env)
			testutil.AssertEqual(t, fallback, tc.fallback)
		})
	}
}
