// Package oracle drives a reference engine over the UCI text protocol to
// obtain divided perft counts for cross-checking.
package oracle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/hailam/rook/internal/board"
)

// ErrProtocol is returned when the engine output cannot be understood.
var ErrProtocol = errors.New("oracle: protocol error")

// Client talks to one engine. Calls are serialized.
type Client struct {
	mu    sync.Mutex
	w     io.Writer
	lines chan string
	err   error // set before lines is closed

	// stale counts replies abandoned before their "Nodes searched" line;
	// their remainder is skipped before the next request.
	stale int

	cmd   *exec.Cmd
	stdin io.Closer
}

// Start launches the engine at path and completes the handshake. The
// engine is killed when ctx is done.
func Start(ctx context.Context, path string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("oracle stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("oracle stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start oracle %s: %w", path, err)
	}

	c := newClient(stdout, stdin)
	c.cmd = cmd
	c.stdin = stdin
	if err := c.handshake(ctx); err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}
	return c, nil
}

// New wraps an engine already connected through r and w and completes
// the handshake.
func New(ctx context.Context, r io.Reader, w io.Writer) (*Client, error) {
	c := newClient(r, w)
	if err := c.handshake(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(r io.Reader, w io.Writer) *Client {
	c := &Client{w: w, lines: make(chan string, 64)}
	go c.pump(r)
	return c
}

func (c *Client) pump(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	c.err = scanner.Err()
	if c.err == nil {
		c.err = io.ErrUnexpectedEOF
	}
	close(c.lines)
}

func (c *Client) send(cmd string) error {
	if _, err := io.WriteString(c.w, cmd+"\n"); err != nil {
		return fmt.Errorf("oracle write %q: %w", cmd, err)
	}
	return nil
}

func (c *Client) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", fmt.Errorf("oracle read: %w", c.err)
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Client) handshake(ctx context.Context) error {
	if err := c.send("uci"); err != nil {
		return err
	}
	for {
		line, err := c.readLine(ctx)
		if err != nil {
			return err
		}
		if line == "uciok" {
			return nil
		}
	}
}

// Divide returns the engine's perft count below each root move of fen.
// A malformed count is reported only after the whole reply is consumed.
func (c *Client) Divide(ctx context.Context, fen string, depth int) (map[string]uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.resync(ctx); err != nil {
		return nil, err
	}
	if err := c.send("position fen " + fen); err != nil {
		return nil, err
	}
	if err := c.send("go perft " + strconv.Itoa(depth)); err != nil {
		return nil, err
	}

	divide := make(map[string]uint64)
	var bad error
	for {
		line, err := c.readLine(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.stale++
			}
			return nil, errors.Join(bad, err)
		}
		if isSentinel(line) {
			if bad != nil {
				return nil, bad
			}
			return divide, nil
		}

		move, count, ok := strings.Cut(line, ":")
		if !ok || !isMove(move) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
		if err != nil {
			if bad == nil {
				bad = fmt.Errorf("%w: %q", ErrProtocol, line)
			}
			continue
		}
		divide[move] = n
	}
}

// resync discards what is left of abandoned replies.
func (c *Client) resync(ctx context.Context) error {
	for c.stale > 0 {
		line, err := c.readLine(ctx)
		if err != nil {
			return fmt.Errorf("oracle resync: %w", err)
		}
		if isSentinel(line) {
			c.stale--
		}
	}
	return nil
}

func isSentinel(line string) bool {
	return strings.HasPrefix(line, "Nodes searched")
}

// Perft returns the engine's total node count for fen at depth.
func (c *Client) Perft(ctx context.Context, fen string, depth int) (uint64, error) {
	divide, err := c.Divide(ctx, fen, depth)
	if err != nil {
		return 0, err
	}
	if depth == 0 {
		return 1, nil
	}
	var total uint64
	for _, n := range divide {
		total += n
	}
	return total, nil
}

// isMove reports whether s looks like a coordinate move such as e7e8q.
func isMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if _, err := board.ParseSquare(s[0:2]); err != nil {
		return false
	}
	_, err := board.ParseSquare(s[2:4])
	return err == nil
}

// Close asks the engine to quit and waits for a started process to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.send("quit")
	if c.stdin != nil {
		err = errors.Join(err, c.stdin.Close())
	}
	if c.cmd != nil {
		for range c.lines {
		}
		err = errors.Join(err, c.cmd.Wait())
	}
	return err
}
