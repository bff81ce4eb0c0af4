package sprite

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	"image/png"
	"io"

	"github.com/golang/glog"

	pieces "badc0de.net/pkg/go-pieces"
)

// Sprite is a decoded sprite sheet. It is immutable once decoded.
type Sprite struct {
	img *image.NRGBA
}

// Decode reads a sprite sheet in any registered lossless container (PNG,
// GIF) and returns it as a Sprite anchored at (0, 0).
//
// Decoding failures are reported as *pieces.DecodeError.
func Decode(r io.Reader) (*Sprite, error) {
	m, format, err := image.Decode(r)
	if err != nil {
		return nil, &pieces.DecodeError{Err: err}
	}
	glog.V(2).Infof("sprite.Decode: %s %dx%d", format, m.Bounds().Dx(), m.Bounds().Dy())
	return &Sprite{img: toNRGBA(m)}, nil
}

// DecodeBytes is Decode for an in-memory sheet.
func DecodeBytes(b []byte) (*Sprite, error) {
	return Decode(bytes.NewReader(b))
}

// New wraps an already decoded image. The pixels are copied.
func New(m image.Image) *Sprite {
	return &Sprite{img: cloneNRGBA(m)}
}

// toNRGBA returns m as a non-premultiplied buffer anchored at the origin.
// Decoded PNGs with an alpha channel already are one and are kept as is.
func toNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return cloneNRGBA(m)
}

func cloneNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := m.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*b.Dx()], n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

// Bounds returns the sheet's pixel bounds, always anchored at (0, 0).
func (s *Sprite) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *Sprite) Width() int  { return s.img.Rect.Dx() }
func (s *Sprite) Height() int { return s.img.Rect.Dy() }

// Image returns a read-only view of the sheet. Callers must not draw onto it.
func (s *Sprite) Image() image.Image {
	return s.img
}

// Extract copies the fragment described by b into a new buffer anchored at
// (0, 0). Pixels are copied byte for byte.
//
// Rectangles that are empty or exceed the sheet are reported as
// *pieces.OutOfBoundsError.
func (s *Sprite) Extract(b pieces.BitmapImage) (*image.NRGBA, error) {
	if err := pieces.ValidateRect(b, s.Bounds()); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	rowLen := 4 * b.Width
	for y := 0; y < b.Height; y++ {
		src := s.img.PixOffset(b.X, b.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], s.img.Pix[src:src+rowLen])
	}
	return dst, nil
}

// ExtractPNG returns the fragment described by b, encoded as PNG.
func (s *Sprite) ExtractPNG(b pieces.BitmapImage) ([]byte, error) {
	m, err := s.Extract(b)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := Encode(buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes m as a PNG.
func Encode(w io.Writer, m image.Image) error {
	return png.Encode(w, m)
}
