package untex

import (
	"math"
	"strings"
)

// Tunables. Defaults are the resolved values from the later evolution of
// the reference implementation. They are package variables that
// in-process callers can set; cmd/untex exposes no flags for them.
var (
	MatchThreshold    = 1.4
	SymbolGroupsNo    = 12
	SizeDiffThreshold = 4
)

// MatchedSymbol is one segmented symbol paired with the reference markup
// the DP matcher settled on for it.
type MatchedSymbol struct {
	OrigSymbolGroup  int
	OrigSymbol       SplitSymbol
	MatchedSymbolTex string
}

// dpState is the best known way to reach a position: the lowest
// cumulative diff achievable, and which symbol (spanning which group)
// produced it.
type dpState struct {
	bestCumulativeDiff float64
	lastSymbol         MatchedSymbol
}

// matcher runs the segmentation-choosing dynamic program over one image
// against one reference database. It is not safe for concurrent reuse;
// construct one per MatchSymbols call.
type matcher struct {
	symbolGroups [][]SplitSymbol
	db           *SymbolDatabase
	dp           []*dpState
}

// MatchSymbols segments img at SymbolGroupsNo granularities and finds the
// cumulative-diff-minimising sequence of (segment, reference match) pairs
// that covers the whole image left to right. On success the returned
// *UntexFailure is nil. On failure — some prefix of the image has no
// segmentation that keeps matching — symbols is nil and failure carries
// the unmatched candidates worth showing the caller.
func MatchSymbols(img *Matrix, db *SymbolDatabase) ([]MatchedSymbol, *UntexFailure) {
	m := &matcher{symbolGroups: Segment(img, SymbolGroupsNo), db: db}
	return m.run()
}

func (m *matcher) run() ([]MatchedSymbol, *UntexFailure) {
	n := len(m.symbolGroups[0])
	if n == 0 {
		return nil, nil
	}

	m.dp = make([]*dpState, n)

	for pos := 0; pos < n; pos++ {
		vlogf("symbol %d:", pos)
		maxGroup := min(pos+1, len(m.symbolGroups))
		for gr := 0; gr < maxGroup; gr++ {
			m.tryMatch(pos, gr)
		}

		if m.cannotMatch(pos) {
			return nil, m.collectUnmatchedCandidates(pos)
		}
	}

	return m.collectUsedSymbols(), nil
}

func (m *matcher) dpPossible(pos int) bool { return m.dp[pos] != nil }

// cannotMatch reports whether position pos can never become reachable:
// it's the last position and still unreached, or every position a longer
// group could have bridged from is also unreached.
func (m *matcher) cannotMatch(pos int) bool {
	if m.dpPossible(pos) {
		return false
	}

	n := len(m.dp)
	if pos == n-1 {
		return true
	}

	beg := pos - len(m.symbolGroups) + 1
	if beg < 0 {
		return false
	}

	for i := beg; i < pos; i++ {
		if m.dpPossible(i) {
			return false
		}
	}

	return true
}

// tryMatch considers ending a symbol spanning `group+1` segmentation runs
// at position pos against every compatible reference bitmap, and updates
// dp[pos] if this is a new best way to reach it.
func (m *matcher) tryMatch(pos, group int) {
	if pos > group && !m.dpPossible(pos-group-1) {
		return
	}

	curr := m.symbolGroups[group][pos-group]

	bestDiff := math.MaxFloat64
	var best *Symbol
	symbols := m.db.SymbolsNear(curr.Img.Rows(), curr.Img.Cols())
	for i := range symbols {
		sym := &symbols[i]
		if absInt(curr.Img.Cols()-sym.Img.Cols()) > SizeDiffThreshold ||
			absInt(curr.Img.Rows()-sym.Img.Rows()) > SizeDiffThreshold {
			continue
		}

		threshold := math.Min(bestDiff, MatchThreshold)
		diff := ImgDiff(m.db.Statistics(), NewSubmatrixView(curr.Img), NewSubmatrixView(sym.Img), threshold)
		if diff < bestDiff {
			bestDiff = diff
			best = sym
		}
	}

	if best == nil {
		return
	}

	bestTex := matchedSymbolTex(curr, best)
	if bestDiff > MatchThreshold {
		vlogf("best match as group %d: %s with diff %.6f (over threshold)", group, bestTex, bestDiff)
		return
	}
	vlogf("matched as group %d: %s with diff %.6f", group, bestTex, bestDiff)

	var prevCumDiff float64
	if pos > group {
		prevCumDiff = m.dp[pos-group-1].bestCumulativeDiff
	}
	currCumDiff := prevCumDiff + bestDiff

	if !m.dpPossible(pos) || currCumDiff <= m.dp[pos].bestCumulativeDiff {
		m.dp[pos] = &dpState{
			bestCumulativeDiff: currCumDiff,
			lastSymbol: MatchedSymbol{
				OrigSymbolGroup:  group,
				OrigSymbol:       curr,
				MatchedSymbolTex: bestTex,
			},
		}
	}
}

// matchedSymbolTex renders the markup the matcher records for curr having
// matched best: index entries get rewritten to a super/subscript fragment
// depending on where curr sits relative to the row it was split from.
func matchedSymbolTex(curr SplitSymbol, best *Symbol) string {
	if best.Kind != Index {
		return best.Tex
	}

	index := strings.TrimPrefix(best.Tex, IndexPrefix)
	if curr.TopRowsCut < curr.BottomRowsCut {
		return "{}^" + index
	}
	return "{}_" + index
}

// collectUsedSymbols walks the DP table backward from its last position,
// following each state's recorded span, and returns the matched symbols
// in left-to-right order.
func (m *matcher) collectUsedSymbols() []MatchedSymbol {
	var validPositions []int
	pos := len(m.dp) - 1
	for pos >= 0 {
		validPositions = append(validPositions, pos)
		pos -= 1 + m.dp[pos].lastSymbol.OrigSymbolGroup
	}

	symbols := make([]MatchedSymbol, len(validPositions))
	for i, p := range validPositions {
		symbols[len(validPositions)-1-i] = m.dp[p].lastSymbol
	}
	return symbols
}

func (m *matcher) findLongestMatchedPrefixEnd(pos int) int {
	for i := pos; i >= 0; i-- {
		if m.dpPossible(i) {
			return i
		}
	}
	return -1
}

// collectUnmatchedCandidates builds the failure report once position pos
// has become unreachable: every segmentation candidate that could
// plausibly follow the longest successfully matched prefix, across every
// group granularity.
func (m *matcher) collectUnmatchedCandidates(pos int) *UntexFailure {
	res := &UntexFailure{}

	longestMatchedPrefixEnd := m.findLongestMatchedPrefixEnd(pos)
	n := len(m.dp)
	maxGroup := min(pos+1, len(m.symbolGroups))
	for gr := 0; gr < maxGroup; gr++ {
		rightmost := min(longestMatchedPrefixEnd+1, n-1-gr)
		leftmost := max(0, longestMatchedPrefixEnd-gr+1)

		for candPos := rightmost; candPos >= leftmost; candPos-- {
			prefixPossible := candPos == 0 || m.dpPossible(candPos-1)
			if !prefixPossible {
				continue
			}
			res.UnmatchedSymbolCandidates = append(res.UnmatchedSymbolCandidates, m.symbolGroups[gr][candPos])
		}
	}

	return res
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
