package board

import (
	"errors"
	"fmt"
)

// Move packs origin (low 6 bits), destination (next 6) and a MoveFlag
// (top 4). It only means something in the position that produced it.
type Move uint16

// MoveFlag classifies the special handling a move needs.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagEnPassant
	FlagCastle
	FlagPawnDoubleAdvance
	FlagPromoteQueen
	FlagPromoteRook
	FlagPromoteBishop
	FlagPromoteKnight
)

// NoMove is a1a1, which no generator emits.
const NoMove Move = 0

// ErrIllegalMove wraps every failure to match text against the legal moves.
var ErrIllegalMove = errors.New("illegal move")

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

func (m Move) From() Square { return Square(m & 63) }
func (m Move) To() Square { return Square(m >> 6 & 63) }
func (m Move) Flag() MoveFlag { return MoveFlag(m >> 12) }
func (m Move) IsCastle() bool { return m.Flag() == FlagCastle }
func (m Move) IsEnPassant() bool { return m.Flag() == FlagEnPassant }

func (m Move) IsPromotion() bool { return m.Flag() >= FlagPromoteQueen }

// Promotion returns the piece type a pawn becomes, or NoPieceType.
func (f MoveFlag) Promotion() PieceType {
	switch f {
	case FlagPromoteQueen:
		return Queen
	case FlagPromoteRook:
		return Rook
	case FlagPromoteBishop:
		return Bishop
	case FlagPromoteKnight:
		return Knight
	}
	return NoPieceType
}

// String returns the flag name.
func (f MoveFlag) String() string {
	switch f {
	case FlagNone:
		return "None"
	case FlagEnPassant:
		return "EnPassant"
	case FlagCastle:
		return "Castle"
	case FlagPawnDoubleAdvance:
		return "PawnDoubleAdvance"
	case FlagPromoteQueen:
		return "PromoteQueen"
	case FlagPromoteRook:
		return "PromoteRook"
	case FlagPromoteBishop:
		return "PromoteBishop"
	case FlagPromoteKnight:
		return "PromoteKnight"
	}
	return fmt.Sprintf("MoveFlag(%d)", uint8(f))
}

// String is long algebraic form: "e2e4", "e7e8q", "0000" for NoMove.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if promo := m.Flag().Promotion(); promo != NoPieceType {
		s += string(promo.Char())
	}
	return s
}

// ParseMove finds the legal move written in coordinate notation.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	var ml MoveList
	b.GenerateMovesInto(&ml)
	for _, m := range ml.Slice() {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
}

// MoveList holds one position's moves without allocating; 256 exceeds the
// largest known legal move count.
type MoveList struct {
	moves [256]Move
	count int
}

func NewMoveList() *MoveList { return new(MoveList) }

func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int { return ml.count }
func (ml *MoveList) Clear() { ml.count = 0 }
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }
