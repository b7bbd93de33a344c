package oracle

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hailam/rook/internal/board"
	"github.com/hailam/rook/internal/testutil"
	"github.com/hailam/rook/internal/uci"
)

// TestMain doubles as a fake engine when the test binary is started by
// Start with ROOK_FAKE_ENGINE set.
func TestMain(m *testing.M) {
	if os.Getenv("ROOK_FAKE_ENGINE") == "hang" {
		fmt.Println("uciok")
		time.Sleep(time.Hour)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

var crossCheckPositions = []struct {
	name  string
	fen   string
	depth int
}{
	{"start", board.StartFEN, 3},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 2},
	{"en passant pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", 2},
}

// startInProcess connects a client to this module's own protocol server.
func startInProcess(t *testing.T) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmdR, cmdW := io.Pipe()
	outR, outW := io.Pipe()
	go func() {
		err := uci.New(cmdR, outW).Run(context.Background())
		outW.CloseWithError(err)
		cmdR.Close()
	}()

	c, err := New(ctx, outR, cmdW)
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func divide(t *testing.T, fen string, depth int) map[string]uint64 {
	t.Helper()
	b, err := board.ParseFEN(fen)
	testutil.AssertNoError(t, err, fen)
	out := make(map[string]uint64)
	for _, e := range b.Divide(depth) {
		out[e.Move.String()] = e.Nodes
	}
	return out
}

func TestInProcessDivide(t *testing.T) {
	c := startInProcess(t)
	ctx := context.Background()

	for _, tc := range crossCheckPositions {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Divide(ctx, tc.fen, tc.depth)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, divide(t, tc.fen, tc.depth))
		})
	}

	total, err := c.Perft(ctx, board.StartFEN, 2)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, total, uint64(400))
}

// TestExternalOracle cross-checks against the engine named by ROOK_ORACLE.
func TestExternalOracle(t *testing.T) {
	path := os.Getenv("ROOK_ORACLE")
	if path == "" {
		t.Skip("ROOK_ORACLE not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := Start(ctx, path)
	testutil.AssertNoError(t, err)
	defer func() { testutil.AssertNoError(t, c.Close()) }()

	for _, tc := range crossCheckPositions {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Divide(ctx, tc.fen, tc.depth)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, divide(t, tc.fen, tc.depth))
		})
	}
}

func TestDivideParsing(t *testing.T) {
	script := strings.Join([]string{
		"id name Fake",
		"uciok",
		"info string NNUE evaluation using nn.nnue",
		"e2e4: 20",
		"a7a8q: 3",
		"",
		"Nodes searched: 23",
	}, "\n")

	c, err := New(context.Background(), strings.NewReader(script), io.Discard)
	testutil.AssertNoError(t, err)

	got, err := c.Divide(context.Background(), board.StartFEN, 2)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, map[string]uint64{"e2e4": 20, "a7a8q": 3})
}

func TestDivideErrors(t *testing.T) {
	t.Run("bad count", func(t *testing.T) {
		c, err := New(context.Background(), strings.NewReader("uciok\ne2e4: many\n"), io.Discard)
		testutil.AssertNoError(t, err)
		_, err = c.Divide(context.Background(), board.StartFEN, 1)
		testutil.AssertErrorIs(t, err, ErrProtocol)
	})

	t.Run("early end", func(t *testing.T) {
		c, err := New(context.Background(), strings.NewReader("uciok\ne2e4: 1\n"), io.Discard)
		testutil.AssertNoError(t, err)
		_, err = c.Divide(context.Background(), board.StartFEN, 1)
		testutil.AssertErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("no handshake", func(t *testing.T) {
		r, w := io.Pipe()
		defer w.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := New(ctx, r, io.Discard)
		testutil.AssertErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestDivideResyncsAfterBadReply(t *testing.T) {
	script := strings.Join([]string{
		"uciok",
		"e2e4: many",
		"e2e4: 1",
		"",
		"Nodes searched: 1",
		"d2d4: 5",
		"",
		"Nodes searched: 5",
	}, "\n")

	c, err := New(context.Background(), strings.NewReader(script), io.Discard)
	testutil.AssertNoError(t, err)

	_, err = c.Divide(context.Background(), board.StartFEN, 1)
	testutil.AssertErrorIs(t, err, ErrProtocol)

	got, err := c.Divide(context.Background(), board.StartFEN, 1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, map[string]uint64{"d2d4": 5})
}

func TestDivideResyncsAfterTimeout(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	go io.WriteString(w, "uciok\ne2e4: 1\n")

	c, err := New(context.Background(), r, io.Discard)
	testutil.AssertNoError(t, err)

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Divide(short, board.StartFEN, 1)
	testutil.AssertErrorIs(t, err, context.DeadlineExceeded)

	go io.WriteString(w, "\nNodes searched: 1\nd2d4: 5\n\nNodes searched: 5\n")
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	got, err := c.Divide(ctx, board.StartFEN, 1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, map[string]uint64{"d2d4": 5})
}

func TestStartKillsEngineOnCancel(t *testing.T) {
	t.Setenv("ROOK_FAKE_ENGINE", "hang")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := Start(ctx, os.Args[0])
	testutil.AssertNoError(t, err)
	cancel()

	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("engine still running after its context was cancelled")
	}
}

func TestIsMove(t *testing.T) {
	for s, want := range map[string]bool{
		"e2e4":   true,
		"e7e8q":  true,
		"info":   false,
		"Nodes":  false,
		"i9e2":   false,
		"e2e4e5": false,
	} {
		testutil.AssertEqual(t, isMove(s), want, s)
	}
}
