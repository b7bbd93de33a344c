package board

// castle describes one castling option.
type castle struct {
	right    CastlingRights
	king     Square
	dest     Square
	rookFrom Square
	rookTo   Square
	empty    Bitboard // Must be free of pieces
	safe     Bitboard // Must not be attacked
}

var castles = [2][2]castle{
	White: {
		{WhiteKingSideCastle, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), SquareBB(E1) | SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSideCastle, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(E1) | SquareBB(D1) | SquareBB(C1)},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), SquareBB(E8) | SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSideCastle, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(E8) | SquareBB(D8) | SquareBB(C8)},
	},
}

// promotionFlags lists promotions in emission order.
var promotionFlags = [4]MoveFlag{FlagPromoteQueen, FlagPromoteRook, FlagPromoteBishop, FlagPromoteKnight}

// GenerateMoves returns every legal move for the side to move.
func (b *Board) GenerateMoves() *MoveList {
	ml := NewMoveList()
	b.GenerateMovesInto(ml)
	return ml
}

// GenerateMovesInto appends every legal move for the side to move to ml.
// It relies only on the board's derived state: attacked squares, pin lines
// and check state.
func (b *Board) GenerateMovesInto(ml *MoveList) {
	us := b.turn
	them := us.Other()
	own := b.colors[us]
	ksq := b.pieces[NewPiece(King, us)].Square()
	check := b.checks[us]

	// The opponent's attack set was built with our king lifted, so squares
	// behind the king on a checking ray are already excluded.
	b.addMoves(ml, ksq, b.tables.King(ksq)&^own&^b.attacks[them], false)
	if check == DoubleCheck {
		return
	}
	if check == NoCheck {
		b.generateCastles(ml, us)
	}

	evasion := Universe
	if check.IsSingle() {
		checker := check.Checker()
		evasion = b.tables.Between(checker, ksq) | SquareBB(checker)
	}

	occupied := b.Occupied()
	pinned := b.pinLines[us] & own
	for pt := Pawn; pt < King; pt++ {
		p := NewPiece(pt, us)
		for bb := b.pieces[p]; bb != 0; {
			from := bb.PopLSB()

			var targets Bitboard
			mask := evasion
			if pt == Pawn {
				targets = b.pawnTargets(from, us, occupied)
				if check.IsSingle() && b.enPassant != NoSquare && check.Checker() == enPassantVictim(b.enPassant, us) {
					mask |= SquareBB(b.enPassant)
				}
			} else {
				targets = b.tables.Attacks(p, from, occupied) &^ own
			}

			targets &= mask
			if pinned.IsSet(from) {
				targets &= b.pinLines[us] & b.tables.Line(ksq, from)
			}
			b.addMoves(ml, from, targets, pt == Pawn)
		}
	}
}

// pawnTargets returns the captures, en passant capture and pushes of the
// pawn on from, before check and pin restrictions.
func (b *Board) pawnTargets(from Square, us Color, occupied Bitboard) Bitboard {
	attacks := b.tables.Pawn(us, from)
	targets := attacks & b.colors[us.Other()]

	if b.enPassant != NoSquare && attacks.IsSet(b.enPassant) && b.enPassantIsSafe(from, us) {
		targets |= SquareBB(b.enPassant)
	}

	bb := SquareBB(from)
	var push Bitboard
	if us == White {
		push = bb.North() &^ occupied
		if push != 0 && from.Rank() == 1 {
			push |= push.North() &^ occupied
		}
	} else {
		push = bb.South() &^ occupied
		if push != 0 && from.Rank() == 6 {
			push |= push.South() &^ occupied
		}
	}
	return targets | push
}

// enPassantIsSafe tests an en passant capture by the pawn on from against
// the king's lines with both pawns lifted and the target filled. Only then
// does a rook or queen on the shared rank show up.
func (b *Board) enPassantIsSafe(from Square, us Color) bool {
	ksq := b.King(us)
	them := us.Other()
	victim := enPassantVictim(b.enPassant, us)
	occupied := b.Occupied() ^ SquareBB(from) ^ SquareBB(victim) | SquareBB(b.enPassant)

	queens := b.pieces[NewPiece(Queen, them)]
	if b.tables.Rook(ksq, occupied)&(b.pieces[NewPiece(Rook, them)]|queens) != 0 {
		return false
	}
	return b.tables.Bishop(ksq, occupied)&(b.pieces[NewPiece(Bishop, them)]|queens) == 0
}

// enPassantVictim returns the square of the pawn taken by an en passant
// capture onto target by color us.
func enPassantVictim(target Square, us Color) Square {
	if us == White {
		return target - 8
	}
	return target + 8
}

func (b *Board) generateCastles(ml *MoveList, us Color) {
	rook := NewPiece(Rook, us)
	occupied := b.Occupied()
	for _, c := range castles[us] {
		if b.castling&c.right == 0 ||
			b.squares[c.king] != NewPiece(King, us) ||
			b.squares[c.rookFrom] != rook ||
			occupied&c.empty != 0 ||
			b.attacks[us.Other()]&c.safe != 0 {
			continue
		}
		ml.Add(NewMove(c.king, c.dest, FlagCastle))
	}
}

// addMoves emits one move per target, flagging pawn specials.
func (b *Board) addMoves(ml *MoveList, from Square, targets Bitboard, pawn bool) {
	for targets != 0 {
		to := targets.PopLSB()
		if !pawn {
			ml.Add(NewMove(from, to, FlagNone))
			continue
		}
		switch {
		case to.Rank() == 0 || to.Rank() == 7:
			for _, f := range promotionFlags {
				ml.Add(NewMove(from, to, f))
			}
		case to == from+16 || from == to+16:
			ml.Add(NewMove(from, to, FlagPawnDoubleAdvance))
		case to == b.enPassant && to.File() != from.File():
			ml.Add(NewMove(from, to, FlagEnPassant))
		default:
			ml.Add(NewMove(from, to, FlagNone))
		}
	}
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (b *Board) HasLegalMoves() bool {
	var ml MoveList
	b.GenerateMovesInto(&ml)
	return ml.Len() > 0
}

// IsCheckmate returns true if the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate returns true if the side to move is stalemated.
func (b *Board) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}
