package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/hailam/rook/internal/testutil"
)

// referencePerft counts leaves with an independent move generator.
func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}

func referenceDivide(fen string, depth int) map[string]uint64 {
	b := dragontoothmg.ParseFen(fen)
	out := make(map[string]uint64)
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		if depth == 1 {
			out[m.String()] = 1
		} else {
			out[m.String()] = referencePerft(&b, depth-1)
		}
		unapply()
	}
	return out
}

func TestDivideMatchesReferenceGenerator(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
	}{
		{"start", StartFEN, 3},
		{"kiwipete", kiwipeteFEN, 2},
		{"position3", position3FEN, 3},
		{"position4", position4FEN, 2},
		{"position5", position5FEN, 2},
		{"position6", position6FEN, 2},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 2},
		{"promotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			got := make(map[string]uint64)
			for _, e := range b.Divide(tc.depth) {
				got[e.Move.String()] = e.Nodes
			}
			testutil.AssertEqual(t, got, referenceDivide(tc.fen, tc.depth))
		})
	}
}
