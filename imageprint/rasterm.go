//go:build !windows
// +build !windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

// printRasTerm draws an image using the RasTerm library: kitty, iTerm2 or
// sixel, whichever the terminal speaks.
func printRasTerm(w io.Writer, i image.Image) error {
	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(w, i); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n")
		return err
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(w, i); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n")
		return err
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.Point{})

		if err := (rasterm.Settings{}).SixelWriteImage(w, palettedImage); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n")
		return err
	}
	return fmt.Errorf("imageprint: terminal supports no graphics protocol")
}
