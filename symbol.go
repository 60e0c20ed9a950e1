package untex

import (
	"fmt"
	"strings"
	"sync"
)

// IndexPrefix marks a reference entry as a generic index bitmap, usable as
// either subscript or superscript depending on where a query sits
// vertically relative to the baseline.
const IndexPrefix = "{}_"

// SymbolKind distinguishes generic index entries from everything else. It
// is a two-value tag, not a subclass hierarchy: the only place kind
// varies behaviour is the DP matcher's index-orientation rewrite.
type SymbolKind int

const (
	Other SymbolKind = iota
	Index
)

// TexToSymbolKind derives a Symbol's kind from its markup: Index iff the
// markup starts with IndexPrefix.
func TexToSymbolKind(tex string) SymbolKind {
	if strings.HasPrefix(tex, IndexPrefix) {
		return Index
	}
	return Other
}

// Symbol is one reference database entry.
type Symbol struct {
	Img  *Matrix
	Tex  string
	Kind SymbolKind
}

// SymbolDatabase is an ordered, deduplicated collection of Symbol plus the
// NeighbourhoodStats accumulated over every bitmap it holds. Iteration
// order is insertion order. A single mutex covers Add and the statistics
// update that comes with it, matching the one-critical-section-per-add
// concurrency model the generator's worker pool relies on.
type SymbolDatabase struct {
	mu        sync.Mutex
	symbols   []Symbol
	stats     *NeighbourhoodStats
	index     *bitmapIndex
	sizeCache *sizeBucketCache
}

// NewSymbolDatabase returns an empty database.
func NewSymbolDatabase() *SymbolDatabase {
	return &SymbolDatabase{
		stats:     NewNeighbourhoodStats(),
		index:     newBitmapIndex(),
		sizeCache: newSizeBucketCache(),
	}
}

// Symbols returns the database's entries in insertion order. The slice is
// owned by the database; callers must not mutate it.
func (db *SymbolDatabase) Symbols() []Symbol {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.symbols
}

// Statistics returns the database's neighbourhood statistics.
func (db *SymbolDatabase) Statistics() *NeighbourhoodStats {
	return db.stats
}

// Len returns the number of distinct symbols held.
func (db *SymbolDatabase) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.symbols)
}

// Add inserts (img, tex) if img's bitmap isn't already present (full-matrix
// equality); a duplicate is silently dropped. Reports whether it was added.
func (db *SymbolDatabase) Add(img *Matrix, tex string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.addLocked(img, tex)
}

func (db *SymbolDatabase) addLocked(img *Matrix, tex string) bool {
	key := encodeBitmapKey(img)
	if _, exists := db.index.lookup(key); exists {
		return false
	}
	db.symbols = append(db.symbols, Symbol{Img: img, Tex: tex, Kind: TexToSymbolKind(tex)})
	idx := len(db.symbols) - 1
	db.index.add(key, idx)
	db.sizeCache.add(img.Rows(), img.Cols(), idx)
	db.stats.AddBitmap(img)
	return true
}

// SymbolsNear returns every symbol whose bitmap shape could plausibly be
// within SizeDiffThreshold of (rows, cols) — a superset the caller still
// has to filter exactly, used by the DP matcher to avoid scanning every
// reference symbol for every query.
func (db *SymbolDatabase) SymbolsNear(rows, cols int) []Symbol {
	db.mu.Lock()
	defer db.mu.Unlock()
	idxs := db.sizeCache.candidates(rows, cols)
	out := make([]Symbol, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, db.symbols[i])
	}
	return out
}

// AddAndAppendFile adds (img, tex) to the in-memory database and, if it was
// genuinely new, appends one persisted record to filename. filename is
// opened and closed for this single append; callers doing many of these in
// a row (the generator) should prefer batching through SaveToFile instead.
func (db *SymbolDatabase) AddAndAppendFile(img *Matrix, tex, filename string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if !db.addLocked(img, tex) {
		return false, nil
	}
	if err := appendSymbolRecord(filename, img, tex); err != nil {
		return true, err
	}
	return true, nil
}

// encodeBitmapKey renders img's shape and bits as a string, so bitmap
// equality reduces to string equality. It reuses the persistence format's
// hex-nibble encoding (persist.go) rather than a separate hash, since that
// encoding is already a faithful, collision-free serialization.
func encodeBitmapKey(img *Matrix) string {
	return fmt.Sprintf("%d,%d,%s", img.Rows(), img.Cols(), encodeBitmap(img))
}
