package packer

import (
	"fmt"

	"github.com/pkg/errors"

	pieces "badc0de.net/pkg/go-pieces"
	"badc0de.net/pkg/go-pieces/datasource"
	"badc0de.net/pkg/go-pieces/signature"
	"badc0de.net/pkg/go-pieces/splitter"
)

// MismatchError reports a packed place whose pieces differ from its source.
type MismatchError struct {
	PlaceID string
	Reason  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("packer: %q does not match its source: %s", e.PlaceID, e.Reason)
}

func pieceSignatures(s *splitter.Splitter, placeID string) ([]pieces.Piece, []signature.Signature, error) {
	place, ok, err := s.Split(placeID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.Wrapf(pieces.ErrNotFound, "place %q", placeID)
	}
	sigs := make([]signature.Signature, len(place.Pieces))
	for i, p := range place.Pieces {
		m, err := place.Sprite.Extract(p.BitmapImage)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "extracting %s", p.ID)
		}
		sigs[i] = signature.Of(m)
	}
	return place.Pieces, sigs, nil
}

// Verify checks that the packed copy of a place in dst holds the same pieces
// as src: same count and order, same size, same composite offset and the
// same pixels. Only where a piece is stored in the sheet may differ.
func Verify(src datasource.Source, srcHasBackground bool, dst datasource.Source, placeID string) error {
	want, wantSigs, err := pieceSignatures(splitter.New(src, splitter.WithBackground(srcHasBackground)), placeID)
	if err != nil {
		return errors.Wrap(err, "reading source")
	}
	got, gotSigs, err := pieceSignatures(splitter.New(dst, splitter.WithBackground(false)), placeID)
	if err != nil {
		return errors.Wrap(err, "reading packed copy")
	}

	if len(got) != len(want) {
		return &MismatchError{PlaceID: placeID, Reason: fmt.Sprintf("got %d pieces, want %d", len(got), len(want))}
	}
	for i := range want {
		w, g := want[i].BitmapImage, got[i].BitmapImage
		switch {
		case g.Width != w.Width || g.Height != w.Height:
			return &MismatchError{PlaceID: placeID, Reason: fmt.Sprintf("piece %d is %dx%d, want %dx%d", i, g.Width, g.Height, w.Width, w.Height)}
		case g.SpriteOffset != w.SpriteOffset:
			return &MismatchError{PlaceID: placeID, Reason: fmt.Sprintf("piece %d has offset %+v, want %+v", i, g.SpriteOffset, w.SpriteOffset)}
		case gotSigs[i] != wantSigs[i]:
			return &MismatchError{PlaceID: placeID, Reason: fmt.Sprintf("piece %d has signature %s, want %s", i, gotSigs[i].Short(), wantSigs[i].Short())}
		}
	}
	return nil
}
