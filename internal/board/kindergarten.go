package board

// Kindergarten bitboards for sliding pieces.
//
// A line through a square has at most six inner squares whose occupancy
// matters; the edge squares are always attacked once the ray reaches them.
// Multiplying the masked occupancy by a spreading constant gathers one bit
// per file (per rank for files) into the top six bits of the product, giving
// a 0-63 index into a per-square table of precomputed attack sets.

const (
	// bFile spreads one bit per file onto rank 8, files b-g land in bits 58-63.
	bFile = 0x0202020202020202
	// c2h7 rotates the a-file onto rank 8 for the file lookup.
	c2h7 = 0x0080402010080400
)

func lineIndex(masked Bitboard) int {
	return int((uint64(masked) * bFile) >> 58)
}

func fileIndex(masked Bitboard, file int) int {
	return int(((uint64(masked>>file) & uint64(FileA)) * c2h7) >> 58)
}

func (t *Tables) rankAttack(sq Square, occupied Bitboard) Bitboard {
	return t.rankAttacks[sq][lineIndex(occupied&t.rankMask[sq])]
}

func (t *Tables) fileAttack(sq Square, occupied Bitboard) Bitboard {
	return t.fileAttacks[sq][fileIndex(occupied&t.fileMask[sq], sq.File())]
}

func (t *Tables) diagAttack(sq Square, occupied Bitboard) Bitboard {
	return t.diagAttacks[sq][lineIndex(occupied&t.diagMask[sq])]
}

func (t *Tables) antiAttack(sq Square, occupied Bitboard) Bitboard {
	return t.antiAttacks[sq][lineIndex(occupied&t.antiMask[sq])]
}

// initSliders fills the four attack tables. Every subset of the squares a
// line's hash can see is enumerated, hashed the same way the lookups hash,
// and paired with the attack set found by ray casting. The hashes ignore
// files a and h (ranks 1 and 8 for the file lookup), so those are left out.
func (t *Tables) initSliders() {
	const edgeFiles = FileA | FileH
	const edgeRanks = Rank1 | Rank8

	for sq := A1; sq <= H8; sq++ {
		file := sq.File()

		forEachSubset(t.rankMask[sq]&^edgeFiles, func(occ Bitboard) {
			t.rankAttacks[sq][lineIndex(occ)] = slideAttacks(sq, occ, rankDirections)
		})
		forEachSubset(t.fileMask[sq]&^edgeRanks, func(occ Bitboard) {
			t.fileAttacks[sq][fileIndex(occ, file)] = slideAttacks(sq, occ, fileDirections)
		})
		forEachSubset(t.diagMask[sq]&^edgeFiles, func(occ Bitboard) {
			t.diagAttacks[sq][lineIndex(occ)] = slideAttacks(sq, occ, diagDirections)
		})
		forEachSubset(t.antiMask[sq]&^edgeFiles, func(occ Bitboard) {
			t.antiAttacks[sq][lineIndex(occ)] = slideAttacks(sq, occ, antiDirections)
		})
	}
}

// forEachSubset visits every subset of mask, the empty set included,
// using the carry-rippler trick.
func forEachSubset(mask Bitboard, f func(Bitboard)) {
	sub := Empty
	for {
		f(sub)
		sub = (sub - mask) & mask
		if sub == 0 {
			return
		}
	}
}

type direction struct{ df, dr int }

var (
	rankDirections = []direction{{1, 0}, {-1, 0}}
	fileDirections = []direction{{0, 1}, {0, -1}}
	diagDirections = []direction{{1, 1}, {-1, -1}}
	antiDirections = []direction{{1, -1}, {-1, 1}}
)

// slideAttacks computes attacks by ray casting (used during initialization).
func slideAttacks(sq Square, occupied Bitboard, dirs []direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		for f, r := sq.File()+d.df, sq.Rank()+d.dr; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+d.df, r+d.dr {
			s := SquareBB(NewSquare(f, r))
			attacks |= s
			if occupied&s != 0 {
				break
			}
		}
	}
	return attacks
}
