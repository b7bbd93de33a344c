// Package uci serves the text protocol used to drive move generators from
// test harnesses: position setup, divided perft and a board dump.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/rook/internal/board"
	"github.com/hailam/rook/internal/perft"
)

const (
	defaultHashMB  = 0
	defaultThreads = 1
)

// Option configures a UCI handler.
type Option func(*UCI)

// WithCache passes a persistent result cache to every perft run.
func WithCache(c perft.Cache) Option {
	return func(u *UCI) { u.cache = c }
}

// WithLogger sets the diagnostic logger. Protocol output never goes there.
func WithLogger(l *log.Logger) Option {
	return func(u *UCI) {
		if l != nil {
			u.logger = l
		}
	}
}

// UCI implements the protocol over a reader and writer pair.
type UCI struct {
	in     io.Reader
	out    *bufio.Writer
	board  *board.Board
	tables *board.Tables
	cache  perft.Cache
	logger *log.Logger

	hashMB  int
	threads int
}

// New creates a protocol handler reading commands from in and writing
// responses to out.
func New(in io.Reader, out io.Writer, opts ...Option) *UCI {
	u := &UCI{
		in:      in,
		out:     bufio.NewWriter(out),
		tables:  board.DefaultTables(),
		logger:  log.New(io.Discard, "", 0),
		hashMB:  defaultHashMB,
		threads: defaultThreads,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.board = board.NewBoardWithTables(u.tables)
	return u
}

// Run processes commands until quit, end of input or ctx is done.
func (u *UCI) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.board = board.NewBoardWithTables(u.tables)
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(ctx, args)
		case "setoption":
			u.handleSetOption(args)
		case "quit":
			return u.out.Flush()
		// Debug commands
		case "d":
			u.println(u.board.String())
		case "perft":
			u.handlePerft(ctx, args)
		default:
			u.printf("info string Unknown command: %s\n", cmd)
		}

		if err := u.out.Flush(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read command: %w", err)
	}
	return u.out.Flush()
}

func (u *UCI) println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name Rook")
	u.println("id author Rook Team")
	u.println()
	u.println("option name Hash type spin default 0 min 0 max 4096")
	u.println("option name Threads type spin default 1 min 1 max 256")
	u.println("uciok")
}

// handlePosition takes "startpos" or "fen <fields>", optionally followed by
// "moves" and coordinate moves. Playback stops at the first illegal move.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	setup, moves := args, []string(nil)
	if at := slices.Index(args, "moves"); at >= 0 {
		setup, moves = args[:at], args[at+1:]
	}
	if len(setup) == 0 {
		return
	}

	var b *board.Board
	switch setup[0] {
	case "startpos":
		b = board.NewBoardWithTables(u.tables)
	case "fen":
		fen := strings.Join(setup[1:], " ")
		var err error
		if b, err = board.ParseFENWithTables(fen, u.tables); err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			u.logger.Printf("invalid fen %q: %v", fen, err)
			return
		}
	default:
		return
	}

	for _, text := range moves {
		m, err := b.ParseMove(text)
		if err != nil {
			u.printf("info string Invalid move: %s\n", text)
			break
		}
		b.MakeMove(m)
	}
	u.board = b
}

// handleGo runs "go perft <depth>". Searching is not supported.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	if len(args) < 2 || args[0] != "perft" {
		u.printf("info string Unsupported go command: %s\n", strings.Join(args, " "))
		return
	}

	depth, err := strconv.Atoi(args[1])
	if err != nil || depth < 0 {
		u.printf("info string Invalid depth: %s\n", args[1])
		return
	}

	res, err := u.runner().Run(ctx, u.board, depth)
	if err != nil {
		u.printf("info string perft failed: %v\n", err)
		return
	}
	if err := res.Report(u.out); err != nil {
		u.logger.Printf("write perft report: %v", err)
	}
}

// handlePerft runs a perft test and prints timing.
func (u *UCI) handlePerft(ctx context.Context, args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			u.printf("info string Invalid depth: %s\n", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	res, err := u.runner().Run(ctx, u.board, depth)
	if err != nil {
		u.printf("info string perft failed: %v\n", err)
		return
	}
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", res.Nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(res.Nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

func (u *UCI) runner() *perft.Runner {
	opts := []perft.Option{
		perft.WithWorkers(u.threads),
		perft.WithHashTable(u.hashMB),
		perft.WithLogger(u.logger),
	}
	if u.cache != nil {
		opts = append(opts, perft.WithCache(u.cache))
	}
	return perft.NewRunner(opts...)
}

// handleSetOption applies "setoption name <name> [value <value>]".
// Names may contain spaces and compare case-insensitively.
func (u *UCI) handleSetOption(args []string) {
	if len(args) == 0 || args[0] != "name" {
		u.printf("info string Malformed setoption\n")
		return
	}
	name, value := strings.Join(args[1:], " "), ""
	if at := slices.Index(args, "value"); at > 0 {
		name = strings.Join(args[1:at], " ")
		value = strings.Join(args[at+1:], " ")
	}

	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb >= 0 {
			u.hashMB = mb
		}
	case "threads":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			u.threads = n
		}
	default:
		u.printf("info string Unknown option: %s\n", name)
	}
}
