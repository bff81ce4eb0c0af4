// Package splitter resolves a place id to its sprite sheet and pieces.
package splitter

import (
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	pieces "badc0de.net/pkg/go-pieces"
	"badc0de.net/pkg/go-pieces/datasource"
	"badc0de.net/pkg/go-pieces/sprite"
)

// Place is an in-memory view of one place: its decoded sprite sheet and the
// pieces cut from it, in label file order.
type Place struct {
	ID     string
	Sprite *sprite.Sprite
	Pieces []pieces.Piece
}

// Splitter looks places up in a data source.
type Splitter struct {
	src    datasource.Source
	policy pieces.BackgroundPolicy
	known  map[string]bool // nil: any id src has both files for
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithBackground sets whether the source's label files contain a background
// record that must be dropped. It is true by default.
func WithBackground(hasBackground bool) Option {
	return func(s *Splitter) {
		if hasBackground {
			s.policy = pieces.DefaultBackgroundPolicy
		} else {
			s.policy = pieces.NoBackground
		}
	}
}

// WithBackgroundPolicy replaces the rule that recognizes background records.
func WithBackgroundPolicy(p pieces.BackgroundPolicy) Option {
	return func(s *Splitter) {
		s.policy = p
	}
}

// New creates a Splitter over src. A place is known when src can read both
// its label file and its sprite sheet; src is never listed by Split.
func New(src datasource.Source, opts ...Option) *Splitter {
	s := &Splitter{
		src:    src,
		policy: pieces.DefaultBackgroundPolicy,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FromSource creates a Splitter over src, listing the known places once.
// Places added to src later are reported as not found.
func FromSource(src datasource.Source, opts ...Option) (*Splitter, error) {
	ids, err := src.PlaceIDs()
	if err != nil {
		return nil, errors.Wrap(err, "listing places")
	}
	s := New(src, opts...)
	s.known = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.known[id] = true
	}
	glog.Infof("splitter.FromSource(): %d places", len(ids))
	return s, nil
}

// PlaceIDs returns the known place ids, sorted.
func (s *Splitter) PlaceIDs() ([]string, error) {
	if s.known == nil {
		return s.src.PlaceIDs()
	}
	ids := make([]string, 0, len(s.known))
	for id := range s.known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Splitter) isKnown(placeID string) bool {
	if s.known == nil {
		return true
	}
	return s.known[placeID]
}

// Split loads a place.
//
// An unknown place id is not an error: Split returns ok == false and a nil
// error. Otherwise any malformed label record, undecodable sheet or
// out-of-bounds fragment fails the whole call. Split does not cache; calling
// it again re-reads the source.
func (s *Splitter) Split(placeID string) (place *Place, ok bool, err error) {
	if !s.isKnown(placeID) {
		return nil, false, nil
	}

	// Both files are read before either is parsed, so a place missing one
	// of them is not found rather than malformed.
	labels, err := s.src.ReadLabels(placeID)
	if pieces.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading labels for %q", placeID)
	}
	sheet, err := s.src.ReadSprite(placeID)
	if pieces.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading sprite for %q", placeID)
	}

	records, err := pieces.ParseLabels(placeID, labels)
	if err != nil {
		return nil, false, err
	}
	spr, err := sprite.DecodeBytes(sheet)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decoding sprite for %q", placeID)
	}

	kept := pieces.FilterBackground(records, s.policy)
	place = &Place{
		ID:     placeID,
		Sprite: spr,
		Pieces: make([]pieces.Piece, 0, len(kept)),
	}
	for i, r := range kept {
		b := r.BitmapImage()
		if err := pieces.ValidateRect(b, spr.Bounds()); err != nil {
			return nil, false, errors.Wrapf(err, "piece %s", pieces.PieceID(placeID, i))
		}
		place.Pieces = append(place.Pieces, pieces.Piece{
			ID:          pieces.PieceID(placeID, i),
			BitmapImage: b,
		})
	}
	glog.V(2).Infof("splitter.Split(%q): %d of %d records kept", placeID, len(kept), len(records))
	return place, true, nil
}
