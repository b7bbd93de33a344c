// Package board implements the bitboard position, its precomputed attack
// tables and a strictly legal move generator with exact make/undo.
package board

import "fmt"

// Square indexes the board rank by rank from a1 (0) to h8 (63).
type Square uint8

// One row per rank; iota counts ranks.
const (
	A1, B1, C1, D1, E1, F1, G1, H1 Square = iota*8 + 0, iota*8 + 1, iota*8 + 2, iota*8 + 3, iota*8 + 4, iota*8 + 5, iota*8 + 6, iota*8 + 7
	A2, B2, C2, D2, E2, F2, G2, H2
	A3, B3, C3, D3, E3, F3, G3, H3
	A4, B4, C4, D4, E4, F4, G4, H4
	A5, B5, C5, D5, E5, F5, G5, H5
	A6, B6, C6, D6, E6, F6, G6, H6
	A7, B7, C7, D7, E7, F7, G7, H7
	A8, B8, C8, D8, E8, F8, G8, H8
)

// NoSquare marks an absent square, such as no en passant target.
const NoSquare Square = 64

func (sq Square) File() int { return int(sq & 7) }
func (sq Square) Rank() int { return int(sq >> 3) }

// String is the lowercase coordinate, or "-" for NoSquare as FEN writes it.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// NewSquare takes a zero-based file and rank.
func NewSquare(file, rank int) Square { return Square(rank<<3 | file) }

// ParseSquare reads a coordinate such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8' {
		return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
	}
	return NoSquare, fmt.Errorf("board: bad square %q", s)
}
