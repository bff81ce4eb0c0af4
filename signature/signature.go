// Package signature fingerprints decoded pixel content.
//
// Two images have the same Signature when they have the same size and the
// same non-premultiplied RGBA value at every pixel, regardless of their
// origin, in-memory representation or the container they were decoded from.
package signature

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"image"
	"image/color"

	"golang.org/x/crypto/blake2b"

	"badc0de.net/pkg/go-pieces/sprite"
)

// Signature is a BLAKE2b-256 digest of an image's pixels.
type Signature [blake2b.Size256]byte

// Of computes the signature of m.
func Of(m image.Image) Signature {
	h, _ := blake2b.New256(nil) // only fails for oversized keys

	b := m.Bounds()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:4], uint32(b.Dx()))
	binary.BigEndian.PutUint32(dims[4:8], uint32(b.Dy()))
	h.Write(dims[:])

	row := make([]byte, 4*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if n, ok := m.(*image.NRGBA); ok {
			off := n.PixOffset(b.Min.X, y)
			h.Write(n.Pix[off : off+len(row)])
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			i := 4 * (x - b.Min.X)
			row[i+0], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
		h.Write(row)
	}

	var s Signature
	copy(s[:], h.Sum(nil))
	return s
}

// OfBytes decodes an encoded image and computes its signature.
func OfBytes(b []byte) (Signature, error) {
	s, err := sprite.DecodeBytes(b)
	if err != nil {
		return Signature{}, err
	}
	return Of(s.Image()), nil
}

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

// Short returns the first 8 hex digits, for logs and ETags.
func (s Signature) Short() string {
	return s.String()[:8]
}

// Equal reports whether two signatures are the same.
func (s Signature) Equal(o Signature) bool {
	return bytes.Equal(s[:], o[:])
}
