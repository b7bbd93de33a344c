package board

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Sentinel errors for FEN parsing. Every parse error wraps ErrInvalidFEN
// and one of the more specific errors below.
var (
	ErrInvalidFEN = errors.New("invalid FEN")

	ErrMissingField    = fmt.Errorf("%w: missing field", ErrInvalidFEN)
	ErrTrailingData    = fmt.Errorf("%w: trailing characters", ErrInvalidFEN)
	ErrRankCount       = fmt.Errorf("%w: wrong number of ranks", ErrInvalidFEN)
	ErrRankSquares     = fmt.Errorf("%w: wrong number of squares in rank", ErrInvalidFEN)
	ErrUnknownPiece    = fmt.Errorf("%w: unknown piece letter", ErrInvalidFEN)
	ErrDuplicateKing   = fmt.Errorf("%w: duplicate king", ErrInvalidFEN)
	ErrMissingKing     = fmt.Errorf("%w: missing king", ErrInvalidFEN)
	ErrSideToMove      = fmt.Errorf("%w: bad side to move", ErrInvalidFEN)
	ErrCastlingField   = fmt.Errorf("%w: bad castling rights", ErrInvalidFEN)
	ErrEnPassantSquare = fmt.Errorf("%w: bad en passant square", ErrInvalidFEN)
	ErrClock           = fmt.Errorf("%w: bad move counter", ErrInvalidFEN)
)

// ParseFEN parses a FEN string into a Board using the default tables.
// The halfmove clock and fullmove number may be omitted together.
func ParseFEN(fen string) (*Board, error) {
	return ParseFENWithTables(fen, DefaultTables())
}

// ParseFENWithTables parses a FEN string into a Board sharing t.
func ParseFENWithTables(fen string, t *Tables) (*Board, error) {
	if strings.TrimSpace(fen) != fen {
		return nil, fmt.Errorf("%w: surrounding whitespace in %q", ErrTrailingData, fen)
	}
	parts := strings.Split(fen, " ")
	if fen == "" {
		parts = nil
	}
	if slices.Contains(parts, "") {
		return nil, fmt.Errorf("%w: fields must be separated by one space", ErrMissingField)
	}
	switch {
	case len(parts) < 4:
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrMissingField, len(parts))
	case len(parts) == 5:
		return nil, fmt.Errorf("%w: halfmove clock %q without fullmove number", ErrMissingField, parts[4])
	case len(parts) > 6:
		return nil, fmt.Errorf("%w: %q", ErrTrailingData, strings.Join(parts[6:], " "))
	}

	b := newEmptyBoard(t)
	if err := parsePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.turn = White
	case "b":
		b.turn = Black
	default:
		return nil, fmt.Errorf("%w: %q", ErrSideToMove, parts[1])
	}

	cr, err := parseCastlingRights(parts[2])
	if err != nil {
		return nil, err
	}
	b.castling = cr

	if b.enPassant, err = parseEnPassant(parts[3], b.turn); err != nil {
		return nil, err
	}

	if len(parts) == 6 {
		if b.halfmove, err = strconv.Atoi(parts[4]); err != nil || b.halfmove < 0 {
			return nil, fmt.Errorf("%w: halfmove clock %q", ErrClock, parts[4])
		}
		if b.fullmove, err = strconv.Atoi(parts[5]); err != nil || b.fullmove < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrClock, parts[5])
		}
	}

	b.update()
	return b, nil
}

// parsePlacement fills b from the first FEN field, rank 8 first.
func parsePlacement(b *Board, field string) error {
	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return fmt.Errorf("%w: need 8, got %d", ErrRankCount, len(rows))
	}
	for i, row := range rows {
		if err := parseRank(b, row, 7-i); err != nil {
			return err
		}
	}
	for c := White; c <= Black; c++ {
		if b.pieces[NewPiece(King, c)] == Empty {
			return fmt.Errorf("%w: no %s king", ErrMissingKing, c)
		}
	}
	return nil
}

func parseRank(b *Board, row string, rank int) error {
	file := 0
	for _, ch := range []byte(row) {
		if file >= 8 {
			return fmt.Errorf("%w: rank %d overflows", ErrRankSquares, rank+1)
		}
		if '0' <= ch && ch <= '9' {
			if ch == '0' || ch == '9' {
				return fmt.Errorf("%w: run of %c in rank %d", ErrRankSquares, ch, rank+1)
			}
			file += int(ch - '0')
			continue
		}
		p := PieceFromChar(ch)
		if p == NoPiece {
			return fmt.Errorf("%w: %q in rank %d", ErrUnknownPiece, ch, rank+1)
		}
		sq := NewSquare(file, rank)
		if p.Type() == King && b.pieces[p] != Empty {
			return fmt.Errorf("%w: second %s king on %s", ErrDuplicateKing, p.Color(), sq)
		}
		b.put(p, sq)
		file++
	}
	if file != 8 {
		return fmt.Errorf("%w: rank %d has %d squares", ErrRankSquares, rank+1, file)
	}
	return nil
}

// parseEnPassant accepts "-" or a target directly behind a pawn the side
// not to move could just have pushed two squares.
func parseEnPassant(field string, turn Color) (Square, error) {
	if field == "-" {
		return NoSquare, nil
	}
	sq, err := ParseSquare(field)
	if err != nil {
		return NoSquare, fmt.Errorf("%w: %q", ErrEnPassantSquare, field)
	}
	want := 5
	if turn == Black {
		want = 2
	}
	if sq.Rank() != want {
		return NoSquare, fmt.Errorf("%w: %s is not on rank %d", ErrEnPassantSquare, sq, want+1)
	}
	return sq, nil
}

// parseCastlingRights reads "-" or any of KQkq, each at most once.
func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}

	cr := NoCastling
	for i := 0; i < len(castling); i++ {
		var right CastlingRights
		switch castling[i] {
		case 'K':
			right = WhiteKingSideCastle
		case 'Q':
			right = WhiteQueenSideCastle
		case 'k':
			right = BlackKingSideCastle
		case 'q':
			right = BlackQueenSideCastle
		default:
			return NoCastling, fmt.Errorf("%w: %q", ErrCastlingField, castling)
		}
		if cr&right != 0 {
			return NoCastling, fmt.Errorf("%w: %q repeats %c", ErrCastlingField, castling, castling[i])
		}
		cr |= right
	}
	return cr, nil
}

// FEN serializes the position with all six fields.
func (b *Board) FEN() string {
	placement := make([]byte, 0, 72)
	for rank := 7; rank >= 0; rank-- {
		gap := byte(0)
		for file := 0; file < 8; file++ {
			p := b.squares[NewSquare(file, rank)]
			if p == NoPiece {
				gap++
				continue
			}
			if gap != 0 {
				placement = append(placement, '0'+gap)
				gap = 0
			}
			placement = append(placement, pieceLetters[p])
		}
		if gap != 0 {
			placement = append(placement, '0'+gap)
		}
		if rank != 0 {
			placement = append(placement, '/')
		}
	}
	return fmt.Sprintf("%s %c %s %s %d %d", placement, "wb"[b.turn], b.castling, b.enPassant, b.halfmove, b.fullmove)
}
