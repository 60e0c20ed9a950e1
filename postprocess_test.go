package untex

import "testing"

func sym(tex string, topCut, bottomCut, col, width int) MatchedSymbol {
	return MatchedSymbol{
		OrigSymbol: SplitSymbol{
			Img:           NewMatrix(3, width),
			TopRowsCut:    topCut,
			BottomRowsCut: bottomCut,
			FirstColumnPos: col,
		},
		MatchedSymbolTex: tex,
	}
}

func TestDetectBaselineRowUsesFirstMarkingSymbol(t *testing.T) {
	symbols := []MatchedSymbol{
		sym("\\beta", 0, 0, 0, 3),
		sym("A", 2, 0, 5, 3),
	}
	row, ok := detectBaselineRow(symbols)
	if !ok {
		t.Fatal("expected a baseline row")
	}
	want := symbols[1].OrigSymbol.TopRowsCut + symbols[1].OrigSymbol.Img.Rows() - 1
	if row != want {
		t.Errorf("got %d, want %d", row, want)
	}
}

func TestDetectBaselineRowNoneFound(t *testing.T) {
	symbols := []MatchedSymbol{sym("\\int", 0, 0, 0, 3)}
	if _, ok := detectBaselineRow(symbols); ok {
		t.Fatal("expected no baseline row")
	}
}

func TestCorrectMatchedSymbolsUsingBaselineDisambiguatesDot(t *testing.T) {
	symbols := []MatchedSymbol{
		sym("A", 0, 0, 0, 3),     // baseline row = 0+3-1 = 2
		sym(".", 2, 0, 5, 1),     // top_rows_cut(2) > baseline(2)-3 -> on baseline -> "."
		sym("\\cdot", -1, 0, 8, 1), // top_rows_cut(-1) not > -1 -> above baseline -> stays \cdot
	}
	correctMatchedSymbolsUsingBaseline(symbols)
	if symbols[1].MatchedSymbolTex != "." {
		t.Errorf("got %q, want .", symbols[1].MatchedSymbolTex)
	}
	if symbols[2].MatchedSymbolTex != "\\cdot" {
		t.Errorf("got %q, want \\cdot", symbols[2].MatchedSymbolTex)
	}
}

func TestAdjustSymbolsSpacingIsolatedPipeBecomesMid(t *testing.T) {
	symbols := []MatchedSymbol{
		sym("a", 0, 0, 0, 3),
		sym("|", 0, 0, 20, 1),
		sym("b", 0, 0, 40, 3),
	}
	adjustSymbolsSpacing(symbols)
	if symbols[1].MatchedSymbolTex != "\\mid" {
		t.Errorf("got %q, want \\mid", symbols[1].MatchedSymbolTex)
	}
}

func TestAdjustSymbolsSpacingAddsQuadAfterComma(t *testing.T) {
	symbols := []MatchedSymbol{
		sym(",", 0, 0, 0, 1),
		sym("x", 0, 0, 30, 3),
	}
	adjustSymbolsSpacing(symbols)
	if symbols[0].MatchedSymbolTex != ",\\quad" {
		t.Errorf("got %q, want ,\\quad", symbols[0].MatchedSymbolTex)
	}
}

func TestSymbolBeginsEndsWithLooksThroughTextCommand(t *testing.T) {
	if !symbolBeginsWith("\\textrm{abc}", isAlnumByte) {
		t.Error("expected to find alnum inside \\textrm")
	}
	if !symbolEndsWith("\\textrm{abc}", isAlnumByte) {
		t.Error("expected to find alnum inside \\textrm")
	}
	if !symbolEndsWith("a_1", isDigitByte) {
		t.Error("expected single-letter-plus-index shorthand to end with digit")
	}
}

func TestIsBasicCommand(t *testing.T) {
	if !isBasicCommand("\\textrm", "\\textrm{c}") {
		t.Error("expected basic command")
	}
	if isBasicCommand("\\textrm", "\\textrm{{c}}") {
		t.Error("expected non-basic command due to nested braces")
	}
}

func TestPostProcessJoinsAndImproves(t *testing.T) {
	symbols := []MatchedSymbol{
		sym("a", 0, 0, 0, 3),
		sym("+", 0, 0, 6, 3),
		sym("b", 0, 0, 12, 3),
	}
	got := PostProcess(symbols)
	if got != "a + b" {
		t.Errorf("got %q, want a + b", got)
	}
}
