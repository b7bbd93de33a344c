package board

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit n standing for Square(n): a1 is the
// low bit, h1 bit 7, a8 bit 56 and h8 the high bit.
type Bitboard uint64

const (
	Empty    Bitboard = 0
	Universe Bitboard = ^Empty

	FileA Bitboard = 0x0101010101010101
	FileB          = FileA << 1
	FileC          = FileA << 2
	FileD          = FileA << 3
	FileE          = FileA << 4
	FileF          = FileA << 5
	FileG          = FileA << 6
	FileH          = FileA << 7

	Rank1 Bitboard = 0xff
	Rank2          = Rank1 << (8 * 1)
	Rank3          = Rank1 << (8 * 2)
	Rank4          = Rank1 << (8 * 3)
	Rank5          = Rank1 << (8 * 4)
	Rank6          = Rank1 << (8 * 5)
	Rank7          = Rank1 << (8 * 6)
	Rank8          = Rank1 << (8 * 7)

	NotFileA  = ^FileA
	NotFileH  = ^FileH
	NotFileAB = ^(FileA | FileB)
	NotFileGH = ^(FileG | FileH)

	// a1-h8 and h1-a8.
	MainDiagonal     Bitboard = 0x8040201008040201
	MainAntiDiagonal Bitboard = 0x0102040810204080
)

var (
	FileMask = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}
	RankMask = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}
)

func SquareBB(sq Square) Bitboard { return 1 << sq }

func (b Bitboard) IsSet(sq Square) bool { return b&SquareBB(sq) != 0 }

func (b Bitboard) PopCount() int { return bits.OnesCount64(uint64(b)) }

// LSB is the lowest square in the set, or NoSquare when empty.
func (b Bitboard) LSB() Square {
	if b == Empty {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes the lowest square and returns it.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Square unwraps a one-square set. Any other population is a caller bug
// and panics.
func (b Bitboard) Square() Square {
	if b.PopCount() != 1 {
		panic(fmt.Sprintf("board: bitboard %#016x is not a single square", uint64(b)))
	}
	return b.LSB()
}

// All yields the squares of the set in ascending order.
func (b Bitboard) All() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		for b != Empty {
			if !yield(b.PopLSB()) {
				return
			}
		}
	}
}

// Single-step shifts. Bits leaving the board are dropped; the file masks
// stop the sideways steps from wrapping to the opposite edge.

func (b Bitboard) North() Bitboard { return b << 8 }
func (b Bitboard) South() Bitboard { return b >> 8 }
func (b Bitboard) East() Bitboard { return b << 1 & NotFileA }
func (b Bitboard) West() Bitboard { return b >> 1 & NotFileH }
func (b Bitboard) NorthEast() Bitboard { return b << 9 & NotFileA }
func (b Bitboard) NorthWest() Bitboard { return b << 7 & NotFileH }
func (b Bitboard) SouthEast() Bitboard { return b >> 7 & NotFileA }
func (b Bitboard) SouthWest() Bitboard { return b >> 9 & NotFileH }

// String draws the set as an 8x8 grid, rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		sb.WriteByte(byte('1' + r))
		for f := 0; f < 8; f++ {
			if b.IsSet(NewSquare(f, r)) {
				sb.WriteString(" x")
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
