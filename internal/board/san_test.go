package board

import (
	"testing"

	"github.com/hailam/rook/internal/testutil"
)

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{StartFEN, "e2e4", "e4"},
		{StartFEN, "g1f3", "Nf3"},
		{kiwipeteFEN, "e1g1", "O-O"},
		{kiwipeteFEN, "e1c1", "O-O-O"},
		{kiwipeteFEN, "d5e6", "dxe6"},
		{kiwipeteFEN, "e5f7", "Nxf7"},
		{kiwipeteFEN, "c3b5", "Nb5"},
		{"k7/8/8/3pP3/8/8/8/7K w - d6 0 2", "e5d6", "exd6"},
		{"1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7b8q", "axb8=Q+"},
		{"R6k/6pp/8/8/8/8/8/K7 w - - 0 1", "a8a7", "Ra7"},
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1a8", "Ra8+"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1d1", "Rad1"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "h1f1", "Rhf1"},
		{"4k3/R7/8/8/8/8/8/R3K3 w - - 0 1", "a1a4", "R1a4"},
		{"4k3/8/8/8/8/Q1Q5/8/Q3K3 w - - 0 1", "a3b2", "Qa3b2"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			m, err := b.ParseMove(tc.move)
			testutil.AssertNoError(t, err, tc.move)
			testutil.AssertEqual(t, b.SAN(m), tc.want)

			back, err := b.ParseSAN(tc.want)
			testutil.AssertNoError(t, err, tc.want)
			testutil.AssertEqual(t, back, m)
		})
	}
}

func TestParseSANRejects(t *testing.T) {
	b := NewBoard()
	for _, s := range []string{"", "e5", "Ke2", "O-O", "Xe4", "Nf4"} {
		_, err := b.ParseSAN(s)
		testutil.AssertErrorIs(t, err, ErrIllegalMove, s)
	}
}

func TestMovesToSAN(t *testing.T) {
	b := NewBoard()
	fen := b.FEN()

	var moves []Move
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := b.ParseMove(s)
		testutil.AssertNoError(t, err, s)
		moves = append(moves, m)
		b.MakeMove(m)
	}
	for i := len(moves) - 1; i >= 0; i-- {
		b.UndoMove(moves[i])
	}

	testutil.AssertEqual(t, b.MovesToSAN(moves), []string{"f3", "e5", "g4", "Qh4#"})
	testutil.AssertEqual(t, b.FEN(), fen)
}
