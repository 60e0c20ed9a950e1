package untex

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gocv.io/x/gocv"
)

func TestVocabularyContainsExpectedForms(t *testing.T) {
	vocab := vocabulary()
	set := make(map[string]bool, len(vocab))
	for _, v := range vocab {
		set[v] = true
	}

	want := []string{
		"\\alpha", "a", "Z", "0", "+",
		"\\alpha'", "a'", "Z'",
		"\\textrm{a}", "\\texttt{a}", "\\textrm{Z}", "\\texttt{Z}",
		"3^7", "x_9",
		IndexPrefix + "a",
		IndexPrefix + "0",
		IndexPrefix + "{\\neg}",
		IndexPrefix + "{\\alpha}",
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("vocabulary missing %q", w)
		}
	}
}

func TestVocabularyNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range vocabulary() {
		if seen[v] {
			t.Fatalf("duplicate vocabulary entry %q", v)
		}
		seen[v] = true
	}
}

func TestBraceForIndex(t *testing.T) {
	if got := braceForIndex("a"); got != "a" {
		t.Errorf("braceForIndex(a) = %q, want a", got)
	}
	if got := braceForIndex("\\alpha"); got != "{\\alpha}" {
		t.Errorf("braceForIndex(\\alpha) = %q, want {\\alpha}", got)
	}
}

func TestSeedSymbolsAddsThreeDistinctEntries(t *testing.T) {
	db := NewSymbolDatabase()
	seedSymbols(db)

	if got := db.Len(); got != 3 {
		t.Fatalf("seed count = %d, want 3", got)
	}
	texs := make([]string, 0, 3)
	for _, s := range db.Symbols() {
		texs = append(texs, s.Tex)
	}
	if strings.Count(strings.Join(texs, ","), "=") != 2 {
		t.Errorf("expected two \"=\" seeds, got %v", texs)
	}
	if !strings.Contains(strings.Join(texs, ","), ".") {
		t.Errorf("expected a \".\" seed, got %v", texs)
	}
}

func TestCropBetweenBlankBandsExtractsPayload(t *testing.T) {
	// ink | blank(3) | ink ink | blank(3) | ink, 3 rows tall.
	cols := 1 + 3 + 2 + 3 + 1
	m := NewMatrix(3, cols)
	inkCols := []int{0, 4, 5, 9}
	for _, c := range inkCols {
		for r := 0; r < 3; r++ {
			m.Set(r, c, 1)
		}
	}

	got, err := cropBetweenBlankBands(m)
	if err != nil {
		t.Fatalf("cropBetweenBlankBands: %v", err)
	}
	if got.Cols() != 2 {
		t.Fatalf("payload cols = %d, want 2", got.Cols())
	}
	for r := 0; r < got.Rows(); r++ {
		for c := 0; c < got.Cols(); c++ {
			if got.At(r, c) != 1 {
				t.Errorf("payload[%d][%d] = %d, want 1", r, c, got.At(r, c))
			}
		}
	}
}

func TestCropBetweenBlankBandsNeedsTwoBands(t *testing.T) {
	m := NewMatrix(2, 4)
	m.Set(0, 0, 1)
	m.Set(0, 3, 1)

	_, err := cropBetweenBlankBands(m)
	if !errors.Is(err, ErrSpacingInvariant) {
		t.Fatalf("err = %v, want ErrSpacingInvariant", err)
	}
}

func TestCropBetweenBlankBandsAllBlank(t *testing.T) {
	m := NewMatrix(2, 4)
	_, err := cropBetweenBlankBands(m)
	if !errors.Is(err, ErrSpacingInvariant) {
		t.Fatalf("err = %v, want ErrSpacingInvariant", err)
	}
}

func TestBinarizeMatThreshold(t *testing.T) {
	mat := gocv.NewMatWithSize(1, 2, gocv.MatTypeCV8UC3)
	defer mat.Close()
	// column 0: near-black (ink), column 1: near-white (background).
	mat.SetUCharAt(0, 0, 10)
	mat.SetUCharAt(0, 1, 10)
	mat.SetUCharAt(0, 2, 10)
	mat.SetUCharAt(0, 3, 250)
	mat.SetUCharAt(0, 4, 250)
	mat.SetUCharAt(0, 5, 250)

	m := binarizeMat(mat)
	if m.At(0, 0) != 1 {
		t.Errorf("dark pixel classified as background")
	}
	if m.At(0, 1) != 0 {
		t.Errorf("light pixel classified as ink")
	}
}

type fakeRenderer struct {
	pngFor func(tex string) ([]byte, error)
}

func (f fakeRenderer) Render(tex string) ([]byte, error) {
	return f.pngFor(tex)
}

// buildWrappedPNG encodes a synthetic image shaped like the generator's
// own "\int\,\, tex \,\,\int" wrapping: one ink column, a blank band,
// a payload block, another blank band, one ink column.
func buildWrappedPNG(t *testing.T, payloadCols int) []byte {
	t.Helper()
	const blank = 4
	cols := 1 + blank + payloadCols + blank + 1
	mat := gocv.NewMatWithSize(5, cols, gocv.MatTypeCV8UC3)
	defer mat.Close()
	for r := 0; r < 5; r++ {
		for c := 0; c < cols; c++ {
			mat.SetUCharAt(r, c*3, 255)
			mat.SetUCharAt(r, c*3+1, 255)
			mat.SetUCharAt(r, c*3+2, 255)
		}
	}
	inkCol := func(c int) {
		for r := 0; r < 5; r++ {
			mat.SetUCharAt(r, c*3, 0)
			mat.SetUCharAt(r, c*3+1, 0)
			mat.SetUCharAt(r, c*3+2, 0)
		}
	}
	inkCol(0)
	for c := 1 + blank; c < 1+blank+payloadCols; c++ {
		inkCol(c)
	}
	inkCol(cols - 1)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		t.Fatalf("IMEncode: %v", err)
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...)
}

func TestRenderSymbolBitmapExtractsPayload(t *testing.T) {
	r := fakeRenderer{pngFor: func(tex string) ([]byte, error) {
		if !strings.Contains(tex, "\\int") {
			t.Errorf("renderer did not receive wrapped markup: %q", tex)
		}
		return buildWrappedPNG(t, 3), nil
	}}

	img, err := renderSymbolBitmap(r, "x")
	if err != nil {
		t.Fatalf("renderSymbolBitmap: %v", err)
	}
	if img.Cols() != 3 {
		t.Fatalf("payload cols = %d, want 3", img.Cols())
	}
}

func TestRenderSymbolBitmapPropagatesRenderFailure(t *testing.T) {
	r := fakeRenderer{pngFor: func(string) ([]byte, error) {
		return nil, fmt.Errorf("boom")
	}}
	_, err := renderSymbolBitmap(r, "x")
	if !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
}

func TestGenerateSymbolsAddsSeedsAndVocabulary(t *testing.T) {
	db := NewSymbolDatabase()
	r := fakeRenderer{pngFor: func(tex string) ([]byte, error) {
		// Vary the rendered payload width by markup length so distinct
		// vocabulary entries don't all collapse onto one bitmap shape.
		return buildWrappedPNG(t, 1+len(tex)%9), nil
	}}

	GenerateSymbols(db, r)

	if db.Len() <= 3 {
		t.Fatalf("db.Len() = %d, want more than the 3 seed entries", db.Len())
	}
}

func TestGenerateSymbolsDropsFailedRenders(t *testing.T) {
	db := NewSymbolDatabase()
	r := fakeRenderer{pngFor: func(tex string) ([]byte, error) {
		if tex == "\\int\\,\\, \\alpha \\,\\,\\int" {
			return nil, fmt.Errorf("boom")
		}
		return buildWrappedPNG(t, 2), nil
	}}

	GenerateSymbols(db, r)

	for _, s := range db.Symbols() {
		if s.Tex == "\\alpha" {
			t.Fatalf("dropped render still ended up in the database")
		}
	}
}
