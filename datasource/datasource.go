// Package datasource stores place label files and sprite sheets by place id.
//
// The splitter and packer only see the Source and Sink interfaces, so the
// on-disk naming convention lives here and nowhere else.
package datasource

import (
	"strings"
)

// Source provides read access to places.
//
// Implementations must be safe for concurrent use. Missing keys are reported
// with an error wrapping pieces.ErrNotFound; other failures as
// *pieces.IOError.
type Source interface {
	// PlaceIDs lists ids for which both a label file and a sprite sheet exist.
	PlaceIDs() ([]string, error)
	ReadLabels(placeID string) ([]byte, error)
	ReadSprite(placeID string) ([]byte, error)
}

// Sink provides write access to places. Concurrent writes must target
// distinct place ids.
type Sink interface {
	WriteLabels(placeID string, data []byte) error
	WriteSprite(placeID string, data []byte) error
}

const (
	labelsSuffix = ".labels.json"
	spriteSuffix = ".label_sprites.png"
)

// LabelsFileName returns the name of a place's label file.
func LabelsFileName(placeID string) string {
	return placeID + labelsSuffix
}

// SpriteFileName returns the name of a place's sprite sheet.
func SpriteFileName(placeID string) string {
	return placeID + spriteSuffix
}

// validPlaceID rejects ids that cannot name a file in a single directory.
func validPlaceID(placeID string) bool {
	return placeID != "" && placeID != "." && placeID != ".." && !strings.ContainsAny(placeID, `/\`+"\x00")
}
