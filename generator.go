package untex

import (
	"fmt"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// Renderer rasterises LaTeX markup into a PNG image by shelling out to an
// external TeX toolchain. render.LatexRenderer implements this; the
// generator only depends on the method, not the concrete type, so tests
// can substitute a fake.
type Renderer interface {
	Render(tex string) ([]byte, error)
}

var greekLetters = []string{
	"\\alpha", "\\nu", "\\beta", "\\Xi", "\\xi",
	"\\Gamma", "\\gamma", "\\Delta", "\\delta", "\\Pi",
	"\\pi", "\\varpi", "\\epsilon", "\\varepsilon", "\\rho",
	"\\varrho", "\\zeta", "\\Sigma", "\\sigma", "\\varsigma",
	"\\eta", "\\tau", "\\Theta", "\\theta", "\\vartheta",
	"\\Upsilon", "\\upsilon", "\\iota", "\\Phi", "\\phi",
	"\\varphi", "\\kappa", "\\chi", "\\Lambda", "\\lambda",
	"\\Psi", "\\psi", "\\mu", "\\Omega", "\\omega",
}

var smallLatin = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
}

var bigLatin = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

var digits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

var operators = []string{
	"+", "-", "\\neg", "!", "\\#", ">", "<",
	"\\%", "\\doteq", "\\equiv", "\\approx", "\\cong", "\\simeq",
	"\\sim", "\\propto", "\\neq", "\\ne",
	"\\leq", "\\geq",
	"\\prec", "\\succ",
	"\\preceq", "\\succeq",
	"\\ll", "\\gg",
	"\\subset", "\\supset", "\\not\\supset", "\\not\\subset",
	"\\subseteq", "\\supseteq",
	"\\sqsubseteq", "\\sqsupseteq", "\\|", "\\parallel",
	"\\asymp", "\\bowtie", "\\vdash", "\\dashv", "\\in", "\\ni",
	"\\smile", "\\frown", "\\models", "\\notin", "\\perp",
	"\\pm", "\\cap", "\\diamond", "\\oplus", "\\mp", "\\cup",
	"\\bigtriangleup", "\\ominus", "\\times", "\\uplus",
	"\\bigtriangledown", "\\otimes", "\\div", "\\sqcap",
	"\\triangleleft", "\\oslash", "\\ast", "\\sqcup", "\\triangleright",
	"\\odot", "\\star", "\\vee", "\\bigcirc", "\\circ", "\\dagger",
	"\\wedge", "\\bullet", "\\setminus", "\\ddagger", "\\wr", "\\amalg",
	"\\exists", "\\not\\exists",
	"\\forall", "\\lor", "\\land", "\\Longrightarrow",
	"\\Rightarrow", "\\Longleftarrow", "\\Leftarrow", "\\iff",
	"\\Leftrightarrow", "\\top", "\\bot", "\\emptyset",
	"\\O", "\\not\\perp", "\\angle",
	"\\triangle",
	"\\{", "\\}", "(", ")", "\\lceil", "\\rceil",
	"/", "\\backslash", "[", "]", "\\langle", "\\rangle", "\\lfloor",
	"\\rfloor",
	"\\rightarrow", "\\to", "\\longrightarrow", "\\mapsto",
	"\\longmapsto", "\\leftarrow", "\\gets", "\\longleftarrow",
	"\\uparrow", "\\Uparrow", "\\downarrow", "\\Downarrow",
	"\\updownarrow", "\\Updownarrow", "\\partial", "\\imath", "\\Re",
	"\\nabla",
	"\\jmath", "\\Im",
	"\\hbar", "\\ell", "\\wp", "\\infty", "\\aleph",
	"\\sin", "\\arcsin", "\\csc", "\\cos", "\\arccos", "\\sec", "\\tan",
	"\\arctan", "\\cot", "\\sinh",
	"\\cosh",
	"\\tanh",
	"\\coth",
}

// braceForIndex wraps a multi-character symbol in braces for use as the
// argument of an index entry; single characters need no braces.
func braceForIndex(tex string) string {
	if len(tex) == 1 {
		return tex
	}
	return "{" + tex + "}"
}

// vocabulary enumerates every markup string the generator renders, in a
// fixed order: base symbols, primed forms, textrm/texttt letters, digit
// powers, subscripted letters, then index entries.
func vocabulary() []string {
	var jobs []string

	for _, group := range [][]string{greekLetters, smallLatin, bigLatin, digits, operators} {
		jobs = append(jobs, group...)
	}

	for _, group := range [][]string{greekLetters, smallLatin, bigLatin} {
		for _, sym := range group {
			jobs = append(jobs, sym+"'")
		}
	}

	for _, group := range [][]string{smallLatin, bigLatin} {
		for _, letter := range group {
			jobs = append(jobs, "\\textrm{"+letter+"}")
			jobs = append(jobs, "\\texttt{"+letter+"}")
		}
	}

	for _, d1 := range digits {
		for _, d2 := range digits {
			jobs = append(jobs, d1+"^"+d2)
		}
	}

	for _, letter := range smallLatin {
		for _, digit := range digits {
			jobs = append(jobs, letter+"_"+digit)
		}
	}

	for _, group := range [][]string{smallLatin, bigLatin, digits, operators, greekLetters} {
		for _, sym := range group {
			jobs = append(jobs, IndexPrefix+braceForIndex(sym))
		}
	}

	return jobs
}

// seedSymbols adds the three reference entries that no rendering pass can
// produce reliably: the two spans of "=" (rendered as two stacked bars at
// two different widths, since the vocabulary generator only ever gets one
// rendering of "=" from LaTeX and both widths occur in practice) and the
// small filled square used for a raised "\cdot"/"." baseline dot.
func seedSymbols(db *SymbolDatabase) {
	add := func(text, tex string) {
		img, err := TextImgToSymbol(text)
		if err != nil {
			panic(fmt.Sprintf("untex: malformed built-in seed bitmap for %q: %v", tex, err))
		}
		db.Add(img, tex)
	}

	add("########\n        \n########\n", "=")
	add("############\n            \n############\n", "=")
	add("##\n##\n", ".")
}

const jobQueueCapacity = 1000

// GenerateSymbols populates db with the seed entries plus a bitmap for
// every vocabulary entry, rendered through r. Rendering runs on a pool of
// workers sized to the available hardware concurrency; a render failure
// for one entry is logged and the entry is dropped, it does not abort the
// run.
func GenerateSymbols(db *SymbolDatabase, r Renderer) {
	seedSymbols(db)

	queue := NewJobQueue(jobQueueCapacity)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				tex, ok := queue.GetJob()
				if !ok {
					return
				}
				img, err := renderSymbolBitmap(r, tex)
				if err != nil {
					logf("dropping vocabulary entry %q: %v", tex, err)
					continue
				}
				db.Add(img, tex)
			}
		}()
	}

	for _, tex := range vocabulary() {
		queue.AddJob(tex)
	}
	queue.Close()
	wg.Wait()
}

// renderSymbolBitmap renders tex wrapped in a pair of "\int"s separated
// from the payload by thin spaces, to keep the LaTeX toolchain's own crop
// from clipping symbols that touch the equation's edges, then locates the
// two blank column bands the thin spaces produce and trims the image back
// down to the payload between them.
func renderSymbolBitmap(r Renderer, tex string) (*Matrix, error) {
	wrapped := "\\int\\,\\, " + tex + " \\,\\,\\int"
	png, err := r.Render(wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering %q: %v", ErrRender, tex, err)
	}

	mat, err := gocv.IMDecode(png, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding rendered image for %q: %v", ErrRender, tex, err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("%w: empty rendered image for %q", ErrRender, tex)
	}

	full := binarizeMat(mat)
	return cropBetweenBlankBands(full)
}

// binarizeMat converts a decoded 3-channel image into a 0/1 ink matrix
// using the same averaged-and-rounded rule as imageutil.RGB.Average: a
// pixel is ink when its channel average rounds below the midpoint.
func binarizeMat(mat gocv.Mat) *Matrix {
	rows, cols := mat.Rows(), mat.Cols()
	m := NewMatrix(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px := mat.GetVecbAt(r, c)
			avg := (int(px[0]) + int(px[1]) + int(px[2]) + 1) / 3
			if avg < 128 {
				m.Set(r, c, 1)
			}
		}
	}
	return m
}

// cropBetweenBlankBands finds the first all-blank column run after the
// leftmost ink and the last one before the rightmost ink within m, and
// returns the tight bitmap of whatever lies strictly between them.
func cropBetweenBlankBands(m *Matrix) (*Matrix, error) {
	cols := m.Cols()
	colHasInk := make([]bool, cols)
	for c := 0; c < cols; c++ {
		for r := 0; r < m.Rows(); r++ {
			if m.At(r, c) != 0 {
				colHasInk[c] = true
				break
			}
		}
	}

	first, last := -1, -1
	for c := 0; c < cols; c++ {
		if colHasInk[c] {
			if first == -1 {
				first = c
			}
			last = c
		}
	}
	if first == -1 {
		return nil, fmt.Errorf("%w: rendered image is entirely blank", ErrSpacingInvariant)
	}

	type band struct{ l, r int } // half-open [l, r)
	var bands []band
	c := first
	for c <= last {
		if colHasInk[c] {
			c++
			continue
		}
		l := c
		for c <= last && !colHasInk[c] {
			c++
		}
		bands = append(bands, band{l, c})
	}
	if len(bands) < 2 {
		return nil, fmt.Errorf("%w: expected two blank bands around the payload, found %d", ErrSpacingInvariant, len(bands))
	}

	left, right := bands[0], bands[len(bands)-1]
	if left.r >= right.l {
		return nil, fmt.Errorf("%w: blank bands leave no room for a payload", ErrSpacingInvariant)
	}

	payload := NewSubmatrixView(m).Sub(0, left.r, m.Rows(), right.l-left.r)
	tight, _, _ := withoutEmptyBorders(payload)
	return tight.ToMatrix(), nil
}
