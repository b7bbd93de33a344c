package board

import "strings"

// Color is a side: White moves first.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

var colorNames = [...]string{"White", "Black", "NoColor"}

// Other flips the side. Undefined for NoColor.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c > NoColor {
		c = NoColor
	}
	return colorNames[c]
}

// PieceType is a colorless piece kind, ordered by the FEN letter table.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		pt = NoPieceType
	}
	return pieceTypeNames[pt]
}

// pieceLetters is indexed by Piece; the trailing space stands for NoPiece.
const pieceLetters = "PNBRQKpnbrqk "

// Char is the lowercase FEN letter, or a space for NoPieceType.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return pieceLetters[pt+6]
}

// Piece packs a type and a color as type + 6*color, so the twelve real
// pieces index arrays directly and NoPiece is 12.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(c)*6 + Piece(pt)
}

func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// IsOrthogonalSlider is true for rooks and queens.
func (p Piece) IsOrthogonalSlider() bool {
	pt := p.Type()
	return pt == Rook || pt == Queen
}

// IsDiagonalSlider is true for bishops and queens.
func (p Piece) IsDiagonalSlider() bool {
	pt := p.Type()
	return pt == Bishop || pt == Queen
}

// String gives the FEN letter, uppercase for White.
func (p Piece) String() string {
	if p > NoPiece {
		p = NoPiece
	}
	return pieceLetters[p : p+1]
}

// PieceFromChar maps a FEN letter back to its piece; anything else is NoPiece.
func PieceFromChar(c byte) Piece {
	if c == ' ' {
		return NoPiece
	}
	i := strings.IndexByte(pieceLetters, c)
	if i < 0 {
		return NoPiece
	}
	return Piece(i)
}
