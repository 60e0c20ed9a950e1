package untex

import "errors"

// Sentinel errors the driver and CLI can match against with errors.Is;
// the wrapping (fmt.Errorf("...: %w", ...)) carries the specific detail.
var (
	// ErrIo covers file open/read/write failures, including a missing
	// required database file.
	ErrIo = errors.New("untex: io error")
	// ErrParse covers a malformed database record or text-encoded bitmap.
	ErrParse = errors.New("untex: parse error")
	// ErrRender covers a non-zero exit from the external renderer.
	ErrRender = errors.New("untex: render failure")
	// ErrSpacingInvariant covers the generator failing to find the two
	// blank crop bands it wraps every vocabulary entry with.
	ErrSpacingInvariant = errors.New("untex: spacing invariant violated")
)

// UntexFailure is the recognition-level dead end: the DP matcher could not
// extend a segmentation any further. MatchSymbols and Untex return it as
// their own *UntexFailure result (neither has an error result), mirroring
// the C++ driver's
// variant<string, UntexFailure> without needing a tagged union in Go.
type UntexFailure struct {
	// UnmatchedSymbolCandidates are the sub-images the matcher tried (and
	// failed) to extend the segmentation with.
	UnmatchedSymbolCandidates []SplitSymbol
}

func (f *UntexFailure) Error() string {
	return "untex: no segmentation found"
}
