// Package render shells out to a local TeX toolchain to turn markup into
// a rasterised PNG, the external collaborator the recognition core only
// ever sees through an interface.
package render

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// LatexRenderer renders markup by running latex, dvips and pstoimg in
// sequence over a scratch directory, matching the toolchain
// tex_to_png_file shells out to.
type LatexRenderer struct {
	// Quiet suppresses each subprocess's stdout/stderr unless it fails.
	Quiet bool
}

const documentTemplate = "\\documentclass[12pt]{article}\n" +
	"\\pagestyle{empty}\n" +
	"\\begin{document}\n" +
	"\\begin{displaymath}\n" +
	"%s" +
	"\\end{displaymath}\n" +
	"\\end{document}\n"

// Render turns tex into a PNG by round-tripping it through latex, dvips
// and pstoimg. Every scratch file it creates is removed before Render
// returns, success or not.
func (r LatexRenderer) Render(tex string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "untex-tex")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	base := filepath.Join(dir, "symbol")
	texFile := base + ".tex"
	dviFile := base + ".dvi"
	psFile := base + ".ps"
	pngFile := base + ".png"

	doc := fmt.Sprintf(documentTemplate, tex)
	if err := os.WriteFile(texFile, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("write tex source: %w", err)
	}

	if err := r.run("latex", "-output-directory="+dir, texFile); err != nil {
		return nil, fmt.Errorf("latex %q: %w", tex, err)
	}
	if err := r.run("dvips", dviFile, "-o", psFile); err != nil {
		return nil, fmt.Errorf("dvips %q: %w", tex, err)
	}
	if err := r.run("pstoimg", "-interlaced", "-transparent", "-scale", "1.4",
		"-crop", "as", "-type", "png", "-out", pngFile, psFile); err != nil {
		return nil, fmt.Errorf("pstoimg %q: %w", tex, err)
	}

	png, err := os.ReadFile(pngFile)
	if err != nil {
		return nil, fmt.Errorf("read rendered png: %w", err)
	}
	return png, nil
}

func (r LatexRenderer) run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if r.Quiet {
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %w:\n%s", name, err, out)
		}
		return nil
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
