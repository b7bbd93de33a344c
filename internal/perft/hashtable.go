package perft

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/rook/internal/board"
)

// Number of shards for table locking (power of 2 for fast modulo)
const shardCount = 256
const shardMask = shardCount - 1

type entry struct {
	key   uint64 // Full Zobrist hash for verification
	nodes uint64
	depth int32
}

// HashTable caches subtree counts by position hash and remaining depth.
// Uses sharded locking so parallel root moves can share it.
type HashTable struct {
	entries []entry
	shards  [shardCount]sync.RWMutex
	size    uint64
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewHashTable creates a table with the given size in MB.
func NewHashTable(sizeMB int) *HashTable {
	const entrySize = 24
	n := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)
	if n == 0 {
		n = 1
	}
	return &HashTable{
		entries: make([]entry, n),
		size:    n,
		mask:    n - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe returns the stored count for hash at depth.
func (ht *HashTable) Probe(hash uint64, depth int) (uint64, bool) {
	ht.probes.Add(1)

	idx := hash & ht.mask
	shard := idx & shardMask

	ht.shards[shard].RLock()
	e := ht.entries[idx]
	ht.shards[shard].RUnlock()

	if e.key == hash && e.depth == int32(depth) {
		ht.hits.Add(1)
		return e.nodes, true
	}
	return 0, false
}

// Store saves a count, keeping the deeper of two colliding entries.
func (ht *HashTable) Store(hash uint64, depth int, nodes uint64) {
	idx := hash & ht.mask
	shard := idx & shardMask

	ht.shards[shard].Lock()
	e := &ht.entries[idx]
	if e.key != hash || int32(depth) >= e.depth {
		*e = entry{key: hash, nodes: nodes, depth: int32(depth)}
	}
	ht.shards[shard].Unlock()
}

// Clear empties the table and its statistics.
func (ht *HashTable) Clear() {
	for i := range ht.entries {
		ht.entries[i] = entry{}
	}
	ht.hits.Store(0)
	ht.probes.Store(0)
}

// HitRate returns the cache hit rate as a percentage.
func (ht *HashTable) HitRate() float64 {
	probes := ht.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(ht.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the table.
func (ht *HashTable) Size() uint64 {
	return ht.size
}

// count is Board.Perft with subtree results shared through the table.
func (ht *HashTable) count(b *board.Board, depth int) uint64 {
	if depth <= 1 {
		return b.Perft(depth)
	}

	hash := b.Hash()
	if nodes, ok := ht.Probe(hash, depth); ok {
		return nodes
	}

	var ml board.MoveList
	b.GenerateMovesInto(&ml)
	var nodes uint64
	for _, m := range ml.Slice() {
		b.MakeMove(m)
		nodes += ht.count(b, depth-1)
		b.UndoMove(m)
	}

	ht.Store(hash, depth, nodes)
	return nodes
}
