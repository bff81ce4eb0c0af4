package ttesting

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/bradfitz/iter"
)

// Sheet returns a w×h sprite sheet whose pixels are a deterministic
// function of their position and seed, so that any two sub-rectangles and
// any two seeds are distinguishable by content.
func Sheet(w, h int, seed uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range iter.N(h) {
		for x := range iter.N(w) {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*7) ^ seed,
				G: uint8(y*13) + seed,
				B: uint8((x + y) * 3),
				A: uint8(128 + (x*y+int(seed))%128),
			})
		}
	}
	return img
}

// SheetPNG is Sheet, encoded as a PNG.
func SheetPNG(t testing.TB, w, h int, seed uint8) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, Sheet(w, h, seed)); err != nil {
		t.Fatalf("failed to encode fixture sheet: %v", err)
	}
	return buf.Bytes()
}
