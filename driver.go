package untex

// Untex recognises img against db: it runs the DP matcher and, on
// success, the post-processor, returning finished LaTeX markup. On a
// recognition dead-end the returned string is empty and failure is
// non-nil, carrying the unmatched candidates worth showing the caller.
func Untex(img *Matrix, db *SymbolDatabase) (string, *UntexFailure) {
	symbols, failure := MatchSymbols(img, db)
	if failure != nil {
		return "", failure
	}
	return PostProcess(symbols), nil
}
