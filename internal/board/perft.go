package board

// Perft counts the leaf nodes of the legal move tree at the given depth.
// This is the standard way to verify move generation correctness.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	var ml MoveList
	b.GenerateMovesInto(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Slice() {
		b.MakeMove(m)
		nodes += b.Perft(depth - 1)
		b.UndoMove(m)
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide returns the perft count below each legal root move, in generation
// order. The entries sum to Perft(depth).
func (b *Board) Divide(depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}

	var ml MoveList
	b.GenerateMovesInto(&ml)
	entries := make([]DivideEntry, 0, ml.Len())
	for _, m := range ml.Slice() {
		b.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: b.Perft(depth - 1)})
		b.UndoMove(m)
	}
	return entries
}
