package board

import "sync"

// Tables holds every position-independent lookup used by move generation.
// A Tables value is immutable once built and may be shared by any number of
// boards and goroutines.
type Tables struct {
	knight [64]Bitboard
	king   [64]Bitboard
	pawn   [2][64]Bitboard // [Color][Square]

	// Lines through each square, excluding the square itself.
	rankMask [64]Bitboard
	fileMask [64]Bitboard
	diagMask [64]Bitboard
	antiMask [64]Bitboard

	// Kindergarten attack sets indexed by [square][compressed occupancy].
	rankAttacks [64][64]Bitboard
	fileAttacks [64][64]Bitboard
	diagAttacks [64][64]Bitboard
	antiAttacks [64][64]Bitboard

	between [64][64]Bitboard // Squares strictly between two aligned squares
	line    [64][64]Bitboard // Full line through two aligned squares
}

// DefaultTables returns the process-wide tables, built on first use.
var DefaultTables = sync.OnceValue(NewTables)

// NewTables builds a fresh set of tables.
func NewTables() *Tables {
	t := &Tables{}
	t.initLeapers()
	t.initLineMasks()
	t.initSliders()
	t.initBetween()
	return t
}

func (t *Tables) initLeapers() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		// Knight moves: 2+1 or 1+2 in any direction
		knight := Empty
		knight |= (bb << 17) & NotFileA  // NNE
		knight |= (bb << 15) & NotFileH  // NNW
		knight |= (bb >> 17) & NotFileH  // SSW
		knight |= (bb >> 15) & NotFileA  // SSE
		knight |= (bb << 10) & NotFileAB // ENE
		knight |= (bb << 6) & NotFileGH  // WNW
		knight |= (bb >> 10) & NotFileGH // WSW
		knight |= (bb >> 6) & NotFileAB  // ESE
		t.knight[sq] = knight

		king := bb.North() | bb.South()
		king |= bb.East() | bb.West()
		king |= bb.NorthEast() | bb.NorthWest()
		king |= bb.SouthEast() | bb.SouthWest()
		t.king[sq] = king

		t.pawn[White][sq] = bb.NorthEast() | bb.NorthWest()
		t.pawn[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func (t *Tables) initLineMasks() {
	for sq := A1; sq <= H8; sq++ {
		file, rank := sq.File(), sq.Rank()
		bb := SquareBB(sq)

		t.rankMask[sq] = RankMask[rank] &^ bb
		t.fileMask[sq] = FileMask[file] &^ bb
		t.diagMask[sq] = shiftRanks(MainDiagonal, rank-file) &^ bb
		t.antiMask[sq] = shiftRanks(MainAntiDiagonal, rank+file-7) &^ bb
	}
}

// shiftRanks moves every bit n ranks up (n > 0) or down (n < 0).
func shiftRanks(b Bitboard, n int) Bitboard {
	if n >= 0 {
		return b << (8 * n)
	}
	return b >> (-8 * n)
}

func (t *Tables) initBetween() {
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			t.between[a][b] = betweenClosedForm(a, b)

			bb := SquareBB(b)
			switch {
			case a == b:
			case t.rankMask[a]&bb != 0:
				t.line[a][b] = t.rankMask[a] | SquareBB(a)
			case t.fileMask[a]&bb != 0:
				t.line[a][b] = t.fileMask[a] | SquareBB(a)
			case t.diagMask[a]&bb != 0:
				t.line[a][b] = t.diagMask[a] | SquareBB(a)
			case t.antiMask[a]&bb != 0:
				t.line[a][b] = t.antiMask[a] | SquareBB(a)
			}
		}
	}
}

// betweenClosedForm computes the squares strictly between a and b without
// walking the ray. The (file, rank) deltas select one of four line patterns,
// which the lowest set bit of the span then moves into place.
func betweenClosedForm(a, b Square) Bitboard {
	const (
		m1         = ^uint64(0)
		aFileInner = 0x0001010101010100
		diagInner  = 0x0040201008040200
		antiInner  = 0x0002040810204080
	)
	sq1, sq2 := uint64(a), uint64(b)

	span := (m1 << sq1) ^ (m1 << sq2)
	file := (sq2 & 7) - (sq1 & 7)
	rank := ((sq2 | 7) - sq1) >> 3

	line := ((file & 7) - 1) & aFileInner
	line += 2 * (((rank & 7) - 1) >> 58)
	line += (((rank - file) & 15) - 1) & diagInner
	line += (((rank + file) & 15) - 1) & antiInner
	line *= span & -span

	return Bitboard(line & span)
}

// Knight returns the knight attack bitboard for a square.
func (t *Tables) Knight(sq Square) Bitboard {
	return t.knight[sq]
}

// King returns the king attack bitboard for a square.
func (t *Tables) King(sq Square) Bitboard {
	return t.king[sq]
}

// Pawn returns the diagonal capture squares of a pawn of color c on sq.
func (t *Tables) Pawn(c Color, sq Square) Bitboard {
	return t.pawn[c][sq]
}

// Rook returns the rook attack bitboard for a square with given occupancy.
func (t *Tables) Rook(sq Square, occupied Bitboard) Bitboard {
	return t.rankAttack(sq, occupied) | t.fileAttack(sq, occupied)
}

// Bishop returns the bishop attack bitboard for a square with given occupancy.
func (t *Tables) Bishop(sq Square, occupied Bitboard) Bitboard {
	return t.diagAttack(sq, occupied) | t.antiAttack(sq, occupied)
}

// Queen returns the queen attack bitboard for a square with given occupancy.
func (t *Tables) Queen(sq Square, occupied Bitboard) Bitboard {
	return t.Rook(sq, occupied) | t.Bishop(sq, occupied)
}

// Attacks returns every square piece p could reach standing alone on sq,
// friendly and enemy occupied squares included. Occupancy is ignored for
// kings, knights and pawns.
func (t *Tables) Attacks(p Piece, sq Square, occupied Bitboard) Bitboard {
	switch p.Type() {
	case Pawn:
		return t.pawn[p.Color()][sq]
	case Knight:
		return t.knight[sq]
	case Bishop:
		return t.Bishop(sq, occupied)
	case Rook:
		return t.Rook(sq, occupied)
	case Queen:
		return t.Queen(sq, occupied)
	case King:
		return t.king[sq]
	}
	return Empty
}

// Between returns the squares strictly between two squares.
// Returns empty if the squares do not share a rank, file or diagonal.
func (t *Tables) Between(a, b Square) Bitboard {
	return t.between[a][b]
}

// Line returns the full line through two squares, endpoints included.
// Returns empty if the squares are not aligned.
func (t *Tables) Line(a, b Square) Bitboard {
	return t.line[a][b]
}
