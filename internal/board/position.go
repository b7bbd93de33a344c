package board

import (
	"fmt"
	"slices"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// CheckState describes how a king is attacked: not at all, by a single
// piece on a known square, or by two pieces at once.
type CheckState uint8

const (
	// Values 0-63 mean a single checker on that square.
	NoCheck     CheckState = 64
	DoubleCheck CheckState = 65
)

// IsSingle reports whether exactly one piece gives check.
func (cs CheckState) IsSingle() bool {
	return cs < NoCheck
}

// Checker returns the square of the single checking piece.
func (cs CheckState) Checker() Square {
	if !cs.IsSingle() {
		panic(fmt.Sprintf("board: check state %s has no single checker", cs))
	}
	return Square(cs)
}

// String returns "none", "double" or the checker's square.
func (cs CheckState) String() string {
	switch {
	case cs == NoCheck:
		return "none"
	case cs == DoubleCheck:
		return "double"
	case cs.IsSingle():
		return Square(cs).String()
	default:
		return "invalid"
	}
}

// state is one entry of the undo stack. Placement is not saved here;
// undo rebuilds it by reversing the move's edits.
type state struct {
	castling  CastlingRights
	enPassant Square
	halfmove  int
	fullmove  int
	captured  Piece
}

// Board is a mutable chess position with derived attack, pin and check
// information kept current after every change. A Board must not be used
// from more than one goroutine at a time; use Clone for parallel work.
type Board struct {
	tables *Tables

	squares [64]Piece
	pieces  [12]Bitboard
	colors  [2]Bitboard

	turn      Color
	castling  CastlingRights
	enPassant Square // Target square for en passant, NoSquare if none
	halfmove  int    // Moves since last pawn move or capture
	fullmove  int    // Full move counter, starts at 1

	// Derived state, rebuilt by update.
	attacks  [2]Bitboard
	pinLines [2]Bitboard
	checks   [2]CheckState

	stack []state
}

// NewBoard creates the starting position.
func NewBoard() *Board {
	return NewBoardWithTables(DefaultTables())
}

// NewBoardWithTables creates the starting position sharing t.
func NewBoardWithTables(t *Tables) *Board {
	b, err := ParseFENWithTables(StartFEN, t)
	if err != nil {
		panic(err)
	}
	return b
}

func newEmptyBoard(t *Tables) *Board {
	b := &Board{
		tables:    t,
		enPassant: NoSquare,
		fullmove:  1,
		checks:    [2]CheckState{NoCheck, NoCheck},
	}
	for sq := range b.squares {
		b.squares[sq] = NoPiece
	}
	return b
}

// Clone returns an independent copy sharing only the read-only tables.
func (b *Board) Clone() *Board {
	c := *b
	c.stack = slices.Clone(b.stack)
	return &c
}

// Equal reports whether two boards hold identical placement, game state,
// derived state and undo history.
func (b *Board) Equal(o *Board) bool {
	return b.squares == o.squares &&
		b.pieces == o.pieces &&
		b.colors == o.colors &&
		b.turn == o.turn &&
		b.castling == o.castling &&
		b.enPassant == o.enPassant &&
		b.halfmove == o.halfmove &&
		b.fullmove == o.fullmove &&
		b.attacks == o.attacks &&
		b.pinLines == o.pinLines &&
		b.checks == o.checks &&
		slices.Equal(b.stack, o.stack)
}

// Tables returns the lookup tables the board was built with.
func (b *Board) Tables() *Tables { return b.tables }

// Turn returns the side to move.
func (b *Board) Turn() Color { return b.turn }

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }

// Pieces returns the bitboard of the given piece.
func (b *Board) Pieces(p Piece) Bitboard { return b.pieces[p] }

// Colors returns every square occupied by the given color.
func (b *Board) Colors(c Color) Bitboard { return b.colors[c] }

// Occupied returns every occupied square.
func (b *Board) Occupied() Bitboard { return b.colors[White] | b.colors[Black] }

// Castling returns the castling rights.
func (b *Board) Castling() CastlingRights { return b.castling }

// EnPassant returns the en passant target, or NoSquare.
func (b *Board) EnPassant() Square { return b.enPassant }

// HalfmoveClock returns the number of plies since the last pawn move or capture.
func (b *Board) HalfmoveClock() int { return b.halfmove }

// FullmoveNumber returns the full move counter.
func (b *Board) FullmoveNumber() int { return b.fullmove }

// Attacks returns every square attacked by color c.
func (b *Board) Attacks(c Color) Bitboard { return b.attacks[c] }

// PinLines returns the union of the pin lines against color c's king.
func (b *Board) PinLines(c Color) Bitboard { return b.pinLines[c] }

// CheckState returns how color c's king is attacked.
func (b *Board) CheckState(c Color) CheckState { return b.checks[c] }

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool { return b.checks[b.turn] != NoCheck }

// Ply returns the number of moves that can currently be undone.
func (b *Board) Ply() int { return len(b.stack) }

// King returns the square of color c's king, or NoSquare if it has none.
func (b *Board) King(c Color) Square {
	return b.pieces[NewPiece(King, c)].LSB()
}

// put places a piece on an empty square.
func (b *Board) put(p Piece, sq Square) {
	bb := SquareBB(sq)
	b.squares[sq] = p
	b.pieces[p] |= bb
	b.colors[p.Color()] |= bb
}

// remove takes the piece off a square and returns it.
func (b *Board) remove(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		panic(fmt.Sprintf("board: remove from empty square %s", sq))
	}
	bb := SquareBB(sq)
	b.squares[sq] = NoPiece
	b.pieces[p] &^= bb
	b.colors[p.Color()] &^= bb
	return p
}

// update rebuilds attacks, check states and pin lines for both colors.
func (b *Board) update() {
	b.checks = [2]CheckState{NoCheck, NoCheck}
	b.updateAttacks(White)
	b.updateAttacks(Black)
	b.updatePinLines(White)
	b.updatePinLines(Black)
}

// updateAttacks recomputes the squares attacked by color c. The enemy king
// is lifted from occupancy first so that a slider's ray continues through
// it, which keeps the king from retreating along the line of attack.
func (b *Board) updateAttacks(c Color) {
	them := c.Other()
	enemyKing := b.pieces[NewPiece(King, them)]
	occupied := b.Occupied() &^ enemyKing

	var attacks Bitboard
	for pt := Pawn; pt <= King; pt++ {
		p := NewPiece(pt, c)
		for bb := b.pieces[p]; bb != 0; {
			sq := bb.PopLSB()
			a := b.tables.Attacks(p, sq, occupied)
			if a&enemyKing != 0 {
				b.addCheck(them, sq)
			}
			attacks |= a
		}
	}
	b.attacks[c] = attacks
}

// addCheck records a checker on sq against color c's king.
func (b *Board) addCheck(c Color, sq Square) {
	switch cs := b.checks[c]; {
	case cs == NoCheck:
		b.checks[c] = CheckState(sq)
	case cs.IsSingle():
		b.checks[c] = DoubleCheck
	default:
		panic(fmt.Sprintf("board: third checker on %s against %s king\n%s", sq, c, b))
	}
}

// updatePinLines finds every enemy slider pinning one of color c's pieces
// to its king, on both axes.
func (b *Board) updatePinLines(c Color) {
	ksq := b.King(c)
	if ksq == NoSquare {
		b.pinLines[c] = Empty
		return
	}
	them := c.Other()
	queens := b.pieces[NewPiece(Queen, them)]
	orthogonal := b.pieces[NewPiece(Rook, them)] | queens
	diagonal := b.pieces[NewPiece(Bishop, them)] | queens

	b.pinLines[c] = b.xrayPins(ksq, c, orthogonal, b.tables.Rook) |
		b.xrayPins(ksq, c, diagonal, b.tables.Bishop)
}

// xrayPins returns the pin lines created by sliders along one axis. The
// king's own blockers are removed and the attack recomputed; sliders seen
// only in the second pass are pinning those blockers.
func (b *Board) xrayPins(ksq Square, c Color, sliders Bitboard, attack func(Square, Bitboard) Bitboard) Bitboard {
	occupied := b.Occupied()
	direct := attack(ksq, occupied)
	blockers := direct & b.colors[c]
	pinners := (direct ^ attack(ksq, occupied^blockers)) & sliders

	var lines Bitboard
	for pinners != 0 {
		sq := pinners.PopLSB()
		lines |= b.tables.Between(sq, ksq) | SquareBB(sq)
	}
	return lines
}

// Validate checks that the per-square and per-piece views agree and that
// both kings are present.
func (b *Board) Validate() error {
	if b.colors[White]&b.colors[Black] != 0 {
		return fmt.Errorf("colors overlap on %s", (b.colors[White] & b.colors[Black]).LSB())
	}

	var union [2]Bitboard
	for p := WhitePawn; p < NoPiece; p++ {
		union[p.Color()] |= b.pieces[p]
		for bb := b.pieces[p]; bb != 0; {
			sq := bb.PopLSB()
			if b.squares[sq] != p {
				return fmt.Errorf("square %s holds %q but %q bitboard has it", sq, b.squares[sq], p)
			}
		}
	}
	if union != b.colors {
		return fmt.Errorf("color bitboards do not match piece bitboards")
	}
	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p != NoPiece && !b.pieces[p].IsSet(sq) {
			return fmt.Errorf("square %s holds %q missing from its bitboard", sq, p)
		}
	}

	for c := White; c <= Black; c++ {
		if n := b.pieces[NewPiece(King, c)].PopCount(); n != 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}
	return nil
}

// String returns a box-drawn diagram followed by the game state.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ╔═══╦═══╦═══╦═══╦═══╦═══╦═══╦═══╗\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ║", rank+1)
		for file := 0; file < 8; file++ {
			fmt.Fprintf(&sb, " %s ║", b.squares[NewSquare(file, rank)])
		}
		sb.WriteByte('\n')
		if rank > 0 {
			sb.WriteString("  ╠═══╬═══╬═══╬═══╬═══╬═══╬═══╬═══╣\n")
		}
	}
	sb.WriteString("  ╚═══╩═══╩═══╩═══╩═══╩═══╩═══╩═══╝\n")
	sb.WriteString("    a   b   c   d   e   f   g   h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.turn)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	fmt.Fprintf(&sb, "Check: %s\n", b.checks[b.turn])
	fmt.Fprintf(&sb, "Fen: %s\n", b.FEN())
	return sb.String()
}
