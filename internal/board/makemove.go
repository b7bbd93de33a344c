package board

// castlingRevoke lists the rights lost when a piece leaves or lands on a square.
var castlingRevoke = func() [64]CastlingRights {
	var r [64]CastlingRights
	r[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	r[H1] = WhiteKingSideCastle
	r[A1] = WhiteQueenSideCastle
	r[E8] = BlackKingSideCastle | BlackQueenSideCastle
	r[H8] = BlackKingSideCastle
	r[A8] = BlackQueenSideCastle
	return r
}()

var colorCastling = [2]CastlingRights{
	White: WhiteKingSideCastle | WhiteQueenSideCastle,
	Black: BlackKingSideCastle | BlackQueenSideCastle,
}

// castleRook returns the rook relocation for a castling king landing on dest.
func castleRook(dest Square) (from, to Square) {
	switch dest {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	}
	panic("board: castle to " + dest.String())
}

// MakeMove applies a move produced by GenerateMoves for the current
// position. The move is not validated; anything else corrupts the board.
func (b *Board) MakeMove(m Move) {
	from, to, flag := m.From(), m.To(), m.Flag()
	us := b.turn

	victim := to
	if flag == FlagEnPassant {
		victim = enPassantVictim(to, us)
	}
	captured := b.squares[victim]

	b.stack = append(b.stack, state{
		castling:  b.castling,
		enPassant: b.enPassant,
		halfmove:  b.halfmove,
		fullmove:  b.fullmove,
		captured:  captured,
	})

	moving := b.remove(from)
	if captured != NoPiece {
		b.remove(victim)
	}
	if promo := flag.Promotion(); promo != NoPieceType {
		b.put(NewPiece(promo, us), to)
	} else {
		b.put(moving, to)
	}
	if flag == FlagCastle {
		rookFrom, rookTo := castleRook(to)
		b.put(b.remove(rookFrom), rookTo)
	}

	if flag == FlagPawnDoubleAdvance {
		b.enPassant = (from + to) / 2
	} else {
		b.enPassant = NoSquare
	}

	b.castling &^= castlingRevoke[from] | castlingRevoke[to]
	if moving.Type() == King {
		b.castling &^= colorCastling[us]
	}

	if moving.Type() == Pawn || captured != NoPiece {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if us == Black {
		b.fullmove++
	}

	b.turn = us.Other()
	b.update()
}

// UndoMove reverses the most recent MakeMove, which must have been called
// with the same move. It panics when there is nothing to undo.
func (b *Board) UndoMove(m Move) {
	n := len(b.stack)
	if n == 0 {
		panic("board: undo " + m.String() + " without a matching make")
	}
	st := b.stack[n-1]
	b.stack = b.stack[:n-1]

	from, to, flag := m.From(), m.To(), m.Flag()
	us := b.turn.Other()

	if flag == FlagCastle {
		rookFrom, rookTo := castleRook(to)
		b.put(b.remove(rookTo), rookFrom)
	}

	moving := b.remove(to)
	if flag.Promotion() != NoPieceType {
		moving = NewPiece(Pawn, us)
	}
	b.put(moving, from)

	if st.captured != NoPiece {
		victim := to
		if flag == FlagEnPassant {
			victim = enPassantVictim(to, us)
		}
		b.put(st.captured, victim)
	}

	b.castling = st.castling
	b.enPassant = st.enPassant
	b.halfmove = st.halfmove
	b.fullmove = st.fullmove
	b.turn = us
	b.update()
}
