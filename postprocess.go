package untex

import (
	"sort"
	"strings"
)

// baselineMarkingSymbols are matched-symbol texs whose glyph sits flush on
// the true text baseline with no descender — digits, most uppercase
// letters, a handful of Greek capitals, lowercase Latin letters without a
// descender (b, c, ..., but not f, g, j, p, q, y), and lowercase Greek
// letters without one (\alpha, \omega, ...). The first one found in
// a matched sequence locates the baseline row for the whole sequence.
var baselineMarkingSymbols = newSortedSet(
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
	"K", "L", "M", "N", "O", "P", "R", "S", "T", "U",
	"V", "W", "X", "Y", "Z", "\\Delta", "\\Gamma",
	"\\Lambda", "\\Omega", "\\Phi", "\\Pi", "\\Psi",
	"\\Sigma", "\\Theta", "\\Upsilon", "\\Xi", "\\alpha",
	"\\delta", "\\epsilon", "\\iota", "\\kappa", "\\lambda",
	"\\nu", "\\omega", "\\pi", "\\sigma", "\\tau", "\\theta",
	"\\upsilon", "\\varepsilon", "\\varpi", "\\vartheta", "a",
	"b", "c", "d", "e", "h", "i", "k", "l", "m", "n",
	"o", "r", "s", "t", "u", "v", "w", "x", "z",
)

func newSortedSet(items ...string) []string {
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}

func inSortedSet(set []string, v string) bool {
	i := sort.SearchStrings(set, v)
	return i < len(set) && set[i] == v
}

// detectBaselineRow returns the image row the true text baseline sits
// on, inferred from the first matched symbol whose tex is in
// baselineMarkingSymbols.
func detectBaselineRow(symbols []MatchedSymbol) (int, bool) {
	for _, s := range symbols {
		if inSortedSet(baselineMarkingSymbols, s.MatchedSymbolTex) {
			return s.OrigSymbol.TopRowsCut + s.OrigSymbol.Img.Rows() - 1, true
		}
	}
	return 0, false
}

// correctMatchedSymbolsUsingBaseline disambiguates "."/"\cdot" and
// "\ldots"/"\cdots": a dot sitting on the baseline is a period or
// horizontal ellipsis, one sitting above it (roughly mid-height, as in
// multiplication or a vertically-centered ellipsis) is "\cdot"/"\cdots".
func correctMatchedSymbolsUsingBaseline(symbols []MatchedSymbol) {
	baselineRow, ok := detectBaselineRow(symbols)
	if !ok {
		return
	}

	for i := range symbols {
		s := &symbols[i]
		isBaselineSymbol := s.OrigSymbol.TopRowsCut > baselineRow-3
		switch s.MatchedSymbolTex {
		case ".", "\\cdot":
			if isBaselineSymbol {
				s.MatchedSymbolTex = "."
			} else {
				s.MatchedSymbolTex = "\\cdot"
			}
		case "\\ldots", "\\cdots":
			if isBaselineSymbol {
				s.MatchedSymbolTex = "\\ldots"
			} else {
				s.MatchedSymbolTex = "\\cdots"
			}
		}
	}
}

// symbolHorizontalDistance is the pixel gap between two consecutively
// matched symbols: the column the right one starts at minus the column
// the left one ends at.
func symbolHorizontalDistance(left, right SplitSymbol) int {
	return right.FirstColumnPos - left.FirstColumnPos - left.Img.Cols()
}

// adjustSymbolsSpacing rewrites a handful of matched symbols based on the
// pixel spacing around them: "|"/"\|" become "\mid"/"\parallel" when
// isolated, adjacent text commands get merged with an explicit space
// argument, and a cascade of alnum/punctuation spacing rules appends
// "\;"/"\quad" where the raw gap implies deliberate spacing in the
// original typesetting.
func adjustSymbolsSpacing(symbols []MatchedSymbol) {
	if len(symbols) == 0 {
		return
	}

	spacingAfter := make([]int, len(symbols)-1)
	for i := range spacingAfter {
		spacingAfter[i] = symbolHorizontalDistance(symbols[i].OrigSymbol, symbols[i+1].OrigSymbol)
	}

	for i := range symbols {
		leftSpacing, rightSpacing := 0, 0
		if i > 0 {
			leftSpacing = spacingAfter[i-1]
		}
		if i+1 < len(symbols) {
			rightSpacing = spacingAfter[i]
		}
		minSpacing := min(leftSpacing, rightSpacing)
		sym := &symbols[i]

		if sym.MatchedSymbolTex == "|" && minSpacing > 6 {
			sym.MatchedSymbolTex = "\\mid"
		}
		if sym.MatchedSymbolTex == "\\|" && minSpacing > 6 {
			sym.MatchedSymbolTex = "\\parallel"
		}
	}

	textCommands := []string{"\\mathbf", "\\textrm", "\\texttt"}
	spacingSigns := []string{"~", " ", " "}

	for i := 0; i < len(symbols)-1; i++ {
		lSym := &symbols[i]
		rSym := &symbols[i+1]
		spacing := spacingAfter[i]
		rawSpacing := rSym.OrigSymbol.FirstColumnPos - lSym.OrigSymbol.FirstColumnPos - lSym.OrigSymbol.Img.Cols()

		isLText, isRText, addedSpacing := false, false, false
		for ci, command := range textCommands {
			isLBasic := isBasicCommand(command, lSym.MatchedSymbolTex)
			isRBasic := isBasicCommand(command, rSym.MatchedSymbolTex)
			if spacing > 5 && isLBasic && isRBasic {
				lSym.MatchedSymbolTex += command + "{" + spacingSigns[ci] + "}"
				addedSpacing = true
				break
			}
			isLText = isLText || isLBasic
			isRText = isRText || isRBasic
		}
		if addedSpacing {
			continue
		}

		lEndsAlnum := symbolEndsWith(lSym.MatchedSymbolTex, isAlnumByte)
		rBeginsAlnum := symbolBeginsWith(rSym.MatchedSymbolTex, isAlnumByte)

		if (isOneOf(lSym.MatchedSymbolTex, ")", "!") && isRText) ||
			(lEndsAlnum && isRText) ||
			(isLText && rBeginsAlnum) {
			if spacing > 15 {
				lSym.MatchedSymbolTex += " \\quad"
				continue
			}
			if spacing > 4 {
				lSym.MatchedSymbolTex += " \\;"
				continue
			}
		}

		if (lEndsAlnum && strings.HasPrefix(rSym.MatchedSymbolTex, "(")) ||
			(strings.HasSuffix(lSym.MatchedSymbolTex, ")") && rBeginsAlnum) {
			if spacing > 10 {
				lSym.MatchedSymbolTex += " \\quad"
				continue
			}
			if spacing > 6 {
				lSym.MatchedSymbolTex += " \\;"
				continue
			}
		}

		if strings.HasSuffix(lSym.MatchedSymbolTex, ",") && rawSpacing > 20 {
			lSym.MatchedSymbolTex += "\\quad"
			continue
		}

		if strings.HasSuffix(lSym.MatchedSymbolTex, ",") &&
			(rBeginsAlnum || rSym.MatchedSymbolTex == "\\ldots") {
			if rawSpacing > 14 {
				lSym.MatchedSymbolTex += " \\quad"
				continue
			}
			if rawSpacing > 8 {
				lSym.MatchedSymbolTex += " \\;"
				continue
			}
		}

		if strings.HasSuffix(lSym.MatchedSymbolTex, ":") || strings.HasPrefix(rSym.MatchedSymbolTex, ":") {
			if spacing > 20 {
				lSym.MatchedSymbolTex += " \\quad"
				continue
			}
			if spacing > 10 {
				lSym.MatchedSymbolTex += " \\;"
				continue
			}
		}

		if isOneOf("\\to", lSym.MatchedSymbolTex, rSym.MatchedSymbolTex) && spacing > 20 {
			lSym.MatchedSymbolTex += " \\quad"
			continue
		}

		lEndsDigit := symbolEndsWith(lSym.MatchedSymbolTex, isDigitByte)
		rBeginsDigit := symbolBeginsWith(rSym.MatchedSymbolTex, isDigitByte)
		if lEndsAlnum && rBeginsAlnum && !(lEndsDigit && rBeginsDigit) && spacing > 6 {
			lSym.MatchedSymbolTex += " \\;"
		}
	}
}

// symbolBeginsWith reports whether tex's rendered markup begins with a
// character satisfying pred, looking through \textrm{}/\mathbf{}/\texttt{}
// wrapping to the text actually inside.
func symbolBeginsWith(tex string, pred func(byte) bool) bool {
	if tex == "" {
		return false
	}
	if pred(tex[0]) {
		return true
	}
	for _, cmd := range [...]string{"\\textrm{", "\\mathbf{", "\\texttt{"} {
		if inner, ok := isBetween(tex, cmd, "}"); ok && symbolBeginsWith(inner, pred) {
			return true
		}
	}
	return false
}

// symbolEndsWith is symbolBeginsWith's mirror for the tail, additionally
// looking through a trailing "{}_x"/"{}_{x}"/"{}^x"/"{}^{x}" index and the
// single-character-plus-index shorthand "a_1"/"a^1"/"3^7", where only the
// index tail is tested against pred.
func symbolEndsWith(tex string, pred func(byte) bool) bool {
	if tex == "" {
		return false
	}
	if allOf(tex, pred) {
		return true
	}
	for _, cmd := range [...]string{"\\textrm{", "\\mathbf{", "\\texttt{"} {
		if inner, ok := isBetween(tex, cmd, "}"); ok && symbolEndsWith(inner, pred) {
			return true
		}
	}
	for _, wrap := range [...][2]string{{"{}_", ""}, {"{}_{", "}"}, {"{}^", ""}, {"{}^{", "}"}} {
		if inner, ok := isBetween(tex, wrap[0], wrap[1]); ok && symbolEndsWith(inner, pred) {
			return true
		}
	}
	if len(tex) >= 2 && isAlnumByte(tex[0]) && (tex[1] == '_' || tex[1] == '^') {
		return symbolEndsWith(tex[2:], pred)
	}
	return false
}

func isBasicCommand(command, tex string) bool {
	inner, ok := isBetween(tex, command+"{", "}")
	return ok && !containsBraces(inner)
}

func containsBraces(s string) bool {
	return strings.ContainsAny(s, "{}")
}

// isBetween reports whether str has prefix and suffix, returning the text
// strictly between them when it does.
func isBetween(str, prefix, suffix string) (string, bool) {
	if !strings.HasPrefix(str, prefix) || !strings.HasSuffix(str, suffix) || len(str) < len(prefix)+len(suffix) {
		return "", false
	}
	return str[len(prefix) : len(str)-len(suffix)], true
}

func isOneOf(val string, options ...string) bool {
	for _, o := range options {
		if val == o {
			return true
		}
	}
	return false
}

func hasOneOfPrefixes(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func allOf(s string, pred func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !pred(s[i]) {
			return false
		}
	}
	return true
}

func isAlnumByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isAlphaByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// PostProcess turns a matched sequence of symbols into finished markup:
// baseline-driven disambiguation, spacing reconstruction, then markup
// improvement (index separation/merging and digit grouping).
func PostProcess(symbols []MatchedSymbol) string {
	correctMatchedSymbolsUsingBaseline(symbols)
	adjustSymbolsSpacing(symbols)

	var sb strings.Builder
	for i, s := range symbols {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.MatchedSymbolTex)
	}
	return ImproveTex(sb.String())
}
