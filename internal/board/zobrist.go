package board

// Zobrist keys for position hashing.
// Uses a PRNG with a fixed seed so hashes are stable across runs.
type zobristKeys struct {
	piece     [12][64]uint64 // [Piece][Square]
	enPassant [8]uint64      // One per file
	castling  [16]uint64     // All 16 castling combinations
	blackMove uint64         // XOR when black to move
}

var zobrist = newZobristKeys(0x98F107A2BEEF1234)

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func newZobristKeys(seed uint64) *zobristKeys {
	rng := &prng{state: seed}
	z := &zobristKeys{}
	for p := range z.piece {
		for sq := range z.piece[p] {
			z.piece[p][sq] = rng.next()
		}
	}
	for file := range z.enPassant {
		z.enPassant[file] = rng.next()
	}
	for cr := range z.castling {
		z.castling[cr] = rng.next()
	}
	z.blackMove = rng.next()
	return z
}

// Hash returns the Zobrist hash of the position. Counters are not part of
// the hash, so positions reached by different move orders hash alike.
func (b *Board) Hash() uint64 {
	var h uint64
	for p := WhitePawn; p < NoPiece; p++ {
		for sq := range b.pieces[p].All() {
			h ^= zobrist.piece[p][sq]
		}
	}
	if b.turn == Black {
		h ^= zobrist.blackMove
	}
	h ^= zobrist.castling[b.castling]
	if b.enPassant != NoSquare {
		h ^= zobrist.enPassant[b.enPassant.File()]
	}
	return h
}
