// Command untex is the CLI dispatcher over the recognition core: compare
// two images as symbols, regenerate the reference database, teach it a
// new symbol, render markup to a PNG, or recognise a PNG back into markup.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/latexrec/untex"
	"github.com/latexrec/untex/imageio"
	"github.com/latexrec/untex/render"
)

const (
	generatedDBFile = "generated_symbols.db"
	manualDBFile    = "manual_symbols.db"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compare":
		err = runCompare(os.Args[2:])
	case "gen":
		err = runGen(os.Args[2:])
	case "learn":
		err = runLearn(os.Args[2:])
	case "tex":
		err = runTex(os.Args[2:])
	case "untex":
		err = runUntex(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: untex <command> [arguments...]

Available commands:
  compare <png1> <png2>       compares two PNGs as whole-image symbols
  gen                          regenerates generated_symbols.db from the built-in vocabulary
  learn <symbol_file...>       reads a text-encoded bitmap (or several identical candidates of the same shape) from the given files and markup from stdin, appends to manual_symbols.db
  tex <out_png>                reads markup from stdin, renders it, writes out_png
  untex <png>                  reads png, prints recovered markup, or writes symbol_<i> candidates and exits 1

-v on compare/gen/untex logs every DP match attempt to stderr.`)
}

// loadDatabases loads whichever of the generated/manual database files
// exist, in that order, into a single in-memory database.
func loadDatabases() (*untex.SymbolDatabase, error) {
	db := untex.NewSymbolDatabase()
	for _, name := range [...]string{generatedDBFile, manualDBFile} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := db.LoadFile(name); err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
	}
	return db, nil
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.BoolVar(&untex.Verbose, "v", false, "log each DP match attempt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("compare needs exactly two arguments")
	}

	a, err := imageio.Decode(fs.Arg(0))
	if err != nil {
		return err
	}
	b, err := imageio.Decode(fs.Arg(1))
	if err != nil {
		return err
	}

	db, err := loadDatabases()
	if err != nil {
		return err
	}

	diff := untex.ImgDiff(db.Statistics(), untex.NewSubmatrixView(a), untex.NewSubmatrixView(b), math.MaxFloat64)
	fmt.Printf("%.6f\n", diff)
	return nil
}

func runGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.BoolVar(&untex.Verbose, "v", false, "log each DP match attempt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("gen takes no arguments")
	}

	db := untex.NewSymbolDatabase()
	untex.GenerateSymbols(db, render.LatexRenderer{Quiet: true})
	return db.SaveToFile(generatedDBFile)
}

// dedupeTextBitmaps filters paths down to one representative per distinct
// bitmap, in the order given, so learn run over several symbol_<i>
// candidates a failed untex left behind never teaches the same shape
// twice just because it shows up under two different filenames. Dedup
// reuses SymbolDatabase's own bitmap index rather than re-deriving it.
func dedupeTextBitmaps(paths []string) ([]string, error) {
	db := untex.NewSymbolDatabase()
	unique := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", untex.ErrIo, err)
		}
		img, err := untex.TextImgToSymbol(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if db.Add(img, path) {
			unique = append(unique, path)
		}
	}
	return unique, nil
}

func runLearn(args []string) error {
	fs := flag.NewFlagSet("learn", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("learn needs at least one symbol candidate file")
	}

	unique, err := dedupeTextBitmaps(fs.Args())
	if err != nil {
		return err
	}
	if len(unique) != 1 {
		return fmt.Errorf("%d argument(s) resolve to %d distinct bitmaps, not 1; "+
			"learn teaches one shape at a time, pass only candidates you've "+
			"confirmed are the same symbol", fs.NArg(), len(unique))
	}

	symbolText, err := os.ReadFile(unique[0])
	if err != nil {
		return fmt.Errorf("%w: %v", untex.ErrIo, err)
	}
	img, err := untex.TextImgToSymbol(string(symbolText))
	if err != nil {
		return err
	}

	texBytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("%w: reading markup from stdin: %v", untex.ErrIo, err)
	}
	tex := strings.TrimSuffix(string(texBytes), "\n")

	db := untex.NewSymbolDatabase()
	if _, err := os.Stat(manualDBFile); err == nil {
		if err := db.LoadFile(manualDBFile); err != nil {
			return err
		}
	}
	_, err = db.AddAndAppendFile(img, tex, manualDBFile)
	return err
}

func runTex(args []string) error {
	fs := flag.NewFlagSet("tex", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("tex needs exactly one argument")
	}

	texBytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("%w: reading markup from stdin: %v", untex.ErrIo, err)
	}

	png, err := render.LatexRenderer{Quiet: true}.Render(string(texBytes))
	if err != nil {
		return err
	}

	return os.WriteFile(fs.Arg(0), png, 0o644)
}

func runUntex(args []string) error {
	fs := flag.NewFlagSet("untex", flag.ContinueOnError)
	fs.BoolVar(&untex.Verbose, "v", false, "log each DP match attempt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("untex needs exactly one argument")
	}

	if _, err := os.Stat(generatedDBFile); err != nil {
		return fmt.Errorf("%w: generated symbols database does not exist, run \"gen\" first", untex.ErrIo)
	}

	db, err := loadDatabases()
	if err != nil {
		return err
	}

	img, err := imageio.Decode(fs.Arg(0))
	if err != nil {
		return err
	}

	tex, failure := untex.Untex(img, db)
	if failure != nil {
		for i, cand := range failure.UnmatchedSymbolCandidates {
			name := fmt.Sprintf("symbol_%d", i)
			if err := os.WriteFile(name, []byte(untex.SymbolToTextImg(cand.Img)), 0o644); err != nil {
				return err
			}
		}
		os.Exit(1)
	}

	fmt.Println(tex)
	return nil
}
