package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation.
func (b *Board) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From(), m.To()
	piece := b.squares[from]
	if piece == NoPiece {
		return m.String()
	}

	if m.IsCastle() {
		if to > from {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	pt := piece.Type()
	if pt != Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(b.disambiguation(m, piece))
	}

	if m.IsEnPassant() || b.squares[to] != NoPiece {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())

	if promo := m.Flag().Promotion(); promo != NoPieceType {
		sb.WriteByte('=')
		sb.WriteByte("PNBRQK"[promo])
	}

	b.MakeMove(m)
	switch {
	case b.IsCheckmate():
		sb.WriteByte('#')
	case b.InCheck():
		sb.WriteByte('+')
	}
	b.UndoMove(m)

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from moves of identical pieces to the same square.
func (b *Board) disambiguation(m Move, piece Piece) string {
	from, to := m.From(), m.To()

	var ml MoveList
	b.GenerateMovesInto(&ml)

	var sameFile, sameRank, ambiguous bool
	for _, other := range ml.Slice() {
		if other.To() != to || other.From() == from || b.squares[other.From()] != piece {
			continue
		}
		ambiguous = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN finds the legal move written in Standard Algebraic Notation.
func (b *Board) ParseSAN(s string) (Move, error) {
	san := strings.TrimSpace(s)
	san = strings.TrimRight(san, "+#")

	var ml MoveList
	b.GenerateMovesInto(&ml)

	switch san {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		kingSide := len(san) == 3
		for _, m := range ml.Slice() {
			if m.IsCastle() && (m.To() > m.From()) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(san, '='); idx >= 0 && idx+1 < len(san) {
		promo = PieceFromChar(san[idx+1]).Type()
		san = san[:idx]
	}
	capture := strings.Contains(san, "x")
	san = strings.ReplaceAll(san, "x", "")

	pt := Pawn
	if len(san) > 0 && san[0] >= 'A' && san[0] <= 'Z' {
		pt = PieceFromChar(san[0]).Type()
		san = san[1:]
	}
	if len(san) < 2 || pt == NoPieceType {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	dest, err := ParseSquare(san[len(san)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}

	file, rank := -1, -1
	for _, c := range san[:len(san)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		}
	}

	for _, m := range ml.Slice() {
		from := m.From()
		switch {
		case m.To() != dest,
			b.squares[from].Type() != pt,
			file >= 0 && from.File() != file,
			rank >= 0 && from.Rank() != rank,
			capture && !m.IsEnPassant() && b.squares[dest] == NoPiece,
			m.Flag().Promotion() != promo:
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
}

// MovesToSAN converts a sequence of moves, each legal after the previous,
// to SAN. The board is left unchanged.
func (b *Board) MovesToSAN(moves []Move) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = b.SAN(m)
		b.MakeMove(m)
	}
	for i := len(moves) - 1; i >= 0; i-- {
		b.UndoMove(moves[i])
	}
	return result
}
