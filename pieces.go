// Package pieces describes puzzle piece artwork for places on the map.
//
// Each place has a single packed sprite sheet and a label file. The label
// file lists rectangular fragments of the sheet, and for each fragment the
// horizontal offset at which it belongs when the full map render is
// recomposited. This package holds the types shared by the splitter, the
// packer and the serving layer: the piece geometry, the label file codec,
// the background policy and the error taxonomy.
package pieces

import (
	"fmt"
	"image"
)

// SpriteOffset is where the top-left corner of a fragment belongs in the
// final composite, independent of where the fragment is stored in the sheet.
//
// Y is always zero: pieces are only ever shifted horizontally.
type SpriteOffset struct {
	X, Y int
}

// BitmapImage is a fragment's rectangle inside a sprite sheet, plus its
// composite offset.
type BitmapImage struct {
	X, Y          int
	Width, Height int
	SpriteOffset  SpriteOffset
}

// Rect returns the fragment's rectangle in sheet coordinates.
func (b BitmapImage) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// LabelRecord converts the fragment back to its label file shape.
func (b BitmapImage) LabelRecord() LabelRecord {
	return LabelRecord{
		X:            b.X,
		Y:            b.Y,
		Width:        b.Width,
		Height:       b.Height,
		SpriteOffset: b.SpriteOffset.X,
	}
}

// Piece is one fragment of a place's artwork.
type Piece struct {
	ID          string
	BitmapImage BitmapImage
}

// PieceID returns the identifier of the index-th surviving fragment of a place.
func PieceID(placeID string, index int) string {
	return fmt.Sprintf("%s_%d", placeID, index)
}

// ValidateRect checks that b has a positive size and lies within bounds.
func ValidateRect(b BitmapImage, bounds image.Rectangle) error {
	r := b.Rect()
	if b.Width <= 0 || b.Height <= 0 || !r.In(bounds) {
		return &OutOfBoundsError{Rect: r, Bounds: bounds}
	}
	return nil
}
