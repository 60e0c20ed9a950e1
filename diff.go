package untex

import "math"

// flatPenalty is added to the running score for every pixel where the two
// images disagree, on top of the weighted 3x3 sum, so that many small
// disagreements are never free.
const flatPenalty = 1e-3

// ImgDiff is the translation-tolerant dissimilarity score between a and b,
// weighted by stats' per-pixel probabilities. It sweeps all nine offsets in
// [-1,1]x[-1,1], returning the minimum. threshold prunes the search: once
// the running sum for an offset reaches threshold, that offset's
// accumulation stops early and its (still growing) partial sum is used as
// its result — sufficient, since a value already >= threshold can never
// become the overall minimum below threshold. Pass math.Inf(1) for an
// unbounded search.
//
// img_diff(A,A) == 0, and img_diff(A,B) == img_diff(B,A) since the offset
// set is symmetric. This is a similarity score, not a metric: it does not
// satisfy the triangle inequality.
func ImgDiff(stats *NeighbourhoodStats, a, b SubmatrixView, threshold float64) float64 {
	rows := max(a.Rows(), b.Rows())
	cols := max(a.Cols(), b.Cols())
	padRows, padCols := rows+2, cols+2

	fir := NewMatrix(padRows, padCols)
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			fir.Set(r+1, c+1, a.At(r, c))
		}
	}
	firView := NewSubmatrixView(fir)

	minDiff := math.Inf(1)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			d := offsetDiff(stats, fir, firView, b, dr, dc, threshold)
			if d < minDiff {
				minDiff = d
			}
		}
	}
	return minDiff
}

// offsetDiff computes the score for one of the nine relative shifts between
// the padded copy of A (fir, fixed at pad offset (1,1)) and B (looked up
// with its own bounds, out-of-range pixels treated as 0).
func offsetDiff(stats *NeighbourhoodStats, fir *Matrix, firView, b SubmatrixView, dr, dc int, threshold float64) float64 {
	dr1, dc1 := dr+1, dc+1
	rows, cols := fir.Rows(), fir.Cols()

	diffOrig := NewFloatMatrix(rows, cols)
	differ := make([]bool, rows*cols)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			si, sj := i-dr1, j-dc1
			secondVal := 0
			if si >= 0 && si < b.Rows() && sj >= 0 && sj < b.Cols() {
				secondVal = b.At(si, sj)
			}
			if fir.At(i, j) == secondVal {
				continue
			}
			differ[i*cols+j] = true
			diffOrig.Set(i, j, stats.ProbPixelAt(firView, i, j)-stats.ProbPixelAt(b, si, sj))
		}
	}

	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !differ[i*cols+j] {
				continue
			}
			sum += math.Abs(sum3x3Float(diffOrig, i, j)) + flatPenalty
			if sum >= threshold {
				return sum
			}
		}
		if sum >= threshold {
			return sum
		}
	}
	return sum
}

func sum3x3Float(m *FloatMatrix, r, c int) float64 {
	rBeg, rEnd := max(r-1, 0), min(r+2, m.Rows())
	cBeg, cEnd := max(c-1, 0), min(c+2, m.Cols())
	sum := 0.0
	for i := rBeg; i < rEnd; i++ {
		for j := cBeg; j < cEnd; j++ {
			sum += m.At(i, j)
		}
	}
	return sum
}
