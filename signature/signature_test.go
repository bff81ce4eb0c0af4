package signature

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"badc0de.net/pkg/go-pieces/ttesting"
)

func TestStable(t *testing.T) {
	m := ttesting.Sheet(16, 9, 1)
	if Of(m) != Of(m) {
		t.Error("signature differs between calls")
	}
}

func TestDiffersOnOnePixel(t *testing.T) {
	a := ttesting.Sheet(16, 9, 1)
	b := ttesting.Sheet(16, 9, 1)
	c := b.NRGBAAt(3, 4)
	c.B++
	b.SetNRGBA(3, 4, c)
	if Of(a) == Of(b) {
		t.Error("signatures equal for differing pixels")
	}
}

func TestDiffersOnShape(t *testing.T) {
	// Same pixel bytes, different dimensions.
	a := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	b := image.NewNRGBA(image.Rect(0, 0, 2, 4))
	if Of(a) == Of(b) {
		t.Error("signatures equal for differently shaped images")
	}
}

func TestIndependentOfRepresentation(t *testing.T) {
	m := ttesting.Sheet(12, 12, 4)
	want := Of(m)

	sub := ttesting.Sheet(20, 20, 4).SubImage(image.Rect(0, 0, 12, 12))
	if got := Of(sub); got != want {
		t.Errorf("sub-image: got %s; want %s", got.Short(), want.Short())
	}

	// Opaque pixels survive a trip through a premultiplied buffer exactly.
	opaque := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	draw.Draw(opaque, opaque.Bounds(), &image.Uniform{color.NRGBA{10, 20, 30, 255}}, image.Point{}, draw.Src)
	rgba := image.NewRGBA(image.Rect(5, 5, 8, 8))
	draw.Draw(rgba, rgba.Bounds(), opaque, image.Point{}, draw.Src)
	if Of(rgba) != Of(opaque) {
		t.Error("signature depends on buffer type or origin")
	}
}

func TestOfBytesIgnoresContainer(t *testing.T) {
	m := ttesting.Sheet(30, 10, 2)
	var fast, best bytes.Buffer
	if err := (&png.Encoder{CompressionLevel: png.NoCompression}).Encode(&fast, m); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if err := (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(&best, m); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if bytes.Equal(fast.Bytes(), best.Bytes()) {
		t.Fatal("expected encodings to differ")
	}
	a, err := OfBytes(fast.Bytes())
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	b, err := OfBytes(best.Bytes())
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if !a.Equal(b) || a != Of(m) {
		t.Errorf("got %s and %s; want %s", a.Short(), b.Short(), Of(m).Short())
	}
}

func TestOfBytesCorrupt(t *testing.T) {
	if _, err := OfBytes([]byte("nope")); err == nil {
		t.Error("got nil error for corrupt input")
	}
}
