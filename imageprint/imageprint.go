// Package imageprint prints images on a terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bufio"
	"fmt"
	"image"
	ic "image/color"
	"io"

	"github.com/gookit/color"
)

// Mode selects how pixels are rendered.
type Mode int

const (
	// Mode24bit draws each pixel as two cells with a true color background.
	Mode24bit Mode = iota
	// Mode256Color leaves color rendering to gookit/color, which falls back to
	// the closest xterm 256 color on terminals without true color.
	Mode256Color
	// ModeNoColor draws shades with ascii art only.
	ModeNoColor
	// ModeRasTerm hands the whole image to the terminal's graphics protocol.
	ModeRasTerm
)

// Printer writes images to a terminal.
type Printer struct {
	W    io.Writer
	Mode Mode
	// Blanks uses colored blanks instead of ascii art shades.
	Blanks bool
}

func shadeChars(c ic.Color) string {
	cR, cG, cB, _ := c.RGBA()
	a := ((cR + cG + cB) / 3) >> 8
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	}
	return "##"
}

func (p *Printer) cell(w io.Writer, c ic.Color) {
	cR, cG, cB, cA := c.RGBA()
	if cA == 0 {
		fmt.Fprint(w, "  ")
		return
	}
	s := "  "
	if !p.Blanks || p.Mode == ModeNoColor {
		s = shadeChars(c)
	}
	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch p.Mode {
	case ModeNoColor:
		fmt.Fprint(w, s)
	case Mode256Color:
		fmt.Fprint(w, color.RGB(r, g, b, true).Sprint(s))
	default:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
	}
}

// Print draws i.
func (p *Printer) Print(i image.Image) error {
	if p.Mode == ModeRasTerm {
		return printRasTerm(p.W, i)
	}
	w := bufio.NewWriter(p.W)
	b := i.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.cell(w, i.At(x, y))
		}
		fmt.Fprint(w, "\n")
	}
	return w.Flush()
}

// PrintTitled draws i under a one line caption.
func (p *Printer) PrintTitled(title string, i image.Image) error {
	if _, err := fmt.Fprintf(p.W, "%s (%dx%d)\n", title, i.Bounds().Dx(), i.Bounds().Dy()); err != nil {
		return err
	}
	return p.Print(i)
}
