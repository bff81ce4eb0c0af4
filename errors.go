package pieces

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by data sources when a key does not exist.
//
// It signals absence, not a fault: the splitter reports it to its callers as
// a missing place rather than as an error.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// DataFormatError reports a malformed label file.
type DataFormatError struct {
	PlaceID string
	Record  int // -1 if the document itself is malformed
	Field   string
	Reason  string
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Record < 0:
		return fmt.Sprintf("pieces: labels for %q: %s", e.PlaceID, e.Reason)
	case e.Field == "":
		return fmt.Sprintf("pieces: labels for %q: record %d: %s", e.PlaceID, e.Record, e.Reason)
	}
	return fmt.Sprintf("pieces: labels for %q: record %d: field %q: %s", e.PlaceID, e.Record, e.Field, e.Reason)
}

// DecodeError reports image bytes that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "pieces: could not decode sprite: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) Cause() error  { return e.Err }

// OutOfBoundsError reports a fragment rectangle that is empty or does not
// lie within the sprite sheet.
type OutOfBoundsError struct {
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("pieces: rectangle %v out of bounds %v", e.Rect, e.Bounds)
}

// IOError reports a read or write failure on a data source.
type IOError struct {
	Op  string // "read" or "write"
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("pieces: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
func (e *IOError) Cause() error  { return e.Err }
