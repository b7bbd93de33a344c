// Package render draws board diagrams as SVG documents and PNG images.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/rook/internal/board"
)

const defaultSquareSize = 45

// Options controls diagram output.
type Options struct {
	SquareSize  int            // Pixels per square (default 45)
	Coordinates bool           // Draw file and rank labels
	Flip        bool           // Black at the bottom
	Highlight   board.Bitboard // Squares drawn in the highlight color

	// pieces as letters; the raster path draws them separately
	noLetters bool
}

const (
	lightSquare     = "#f0d9b5"
	darkSquare      = "#b58863"
	lightHighlight  = "#cdd26a"
	darkHighlight   = "#aaa23a"
	whitePieceFill  = "#ffffff"
	blackPieceFill  = "#202020"
	pieceOutline    = "#000000"
	coordinateColor = "#404040"
)

// errWriter records the first write error so the drawing code can ignore it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return len(p), nil
	}
	if _, err := ew.w.Write(p); err != nil {
		ew.err = err
	}
	return len(p), nil
}

// squareOrigin returns the top-left pixel of sq.
func squareOrigin(sq board.Square, size int, flip bool) (x, y int) {
	file, rank := sq.File(), sq.Rank()
	if flip {
		return (7 - file) * size, rank * size
	}
	return file * size, (7 - rank) * size
}

func fill(color string) string {
	return "fill:" + color
}

// SVG writes a diagram of b.
func SVG(w io.Writer, b *board.Board, opts Options) error {
	size := opts.SquareSize
	if size <= 0 {
		size = defaultSquareSize
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	total := 8 * size
	canvas.Startview(total, total, 0, 0, total, total)

	canvas.Gid("squares")
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := squareOrigin(sq, size, opts.Flip)
		light := (sq.File()+sq.Rank())%2 == 1
		color := darkSquare
		switch {
		case light && opts.Highlight.IsSet(sq):
			color = lightHighlight
		case opts.Highlight.IsSet(sq):
			color = darkHighlight
		case light:
			color = lightSquare
		}
		canvas.Rect(x, y, size, size, fill(color))
	}
	canvas.Gend()

	canvas.Gid("pieces")
	radius := size * 2 / 5
	for sq := range b.Occupied().All() {
		p := b.PieceAt(sq)
		x, y := squareOrigin(sq, size, opts.Flip)
		cx, cy := x+size/2, y+size/2

		body, letter := whitePieceFill, blackPieceFill
		if p.Color() == board.Black {
			body, letter = blackPieceFill, whitePieceFill
		}
		canvas.Circle(cx, cy, radius, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", body, pieceOutline))
		if !opts.noLetters {
			canvas.Text(cx, cy+size/6, string(pieceLetter(p)),
				fmt.Sprintf("fill:%s;font-family:sans-serif;font-weight:bold;font-size:%dpx;text-anchor:middle", letter, size/2))
		}
	}
	canvas.Gend()

	if opts.Coordinates {
		canvas.Gid("coordinates")
		style := fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%dpx", coordinateColor, size/5)
		for i := 0; i < 8; i++ {
			fileSq := board.NewSquare(i, 0)
			rankSq := board.NewSquare(0, i)
			if opts.Flip {
				fileSq = board.NewSquare(i, 7)
				rankSq = board.NewSquare(7, i)
			}
			x, y := squareOrigin(fileSq, size, opts.Flip)
			canvas.Text(x+size-size/5, y+size-size/12, string(rune('a'+i)), style)
			x, y = squareOrigin(rankSq, size, opts.Flip)
			canvas.Text(x+size/20, y+size/4, string(rune('1'+i)), style)
		}
		canvas.Gend()
	}

	canvas.End()
	return ew.err
}

// pieceLetter returns the upper-case type letter drawn on a piece.
func pieceLetter(p board.Piece) byte {
	return "PNBRQK"[p.Type()]
}
