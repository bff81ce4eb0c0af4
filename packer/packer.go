// Package packer rewrites a place's sprite sheet without its background.
//
// The fragments kept by the splitter are laid out side by side, left to
// right in label order, on a new sheet. The new label file records their new
// rectangles; sprite offsets describe where a fragment goes in the final
// composite, not where it is stored, so they are copied unchanged.
package packer

import (
	"bytes"
	"context"
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	pieces "badc0de.net/pkg/go-pieces"
	"badc0de.net/pkg/go-pieces/datasource"
	"badc0de.net/pkg/go-pieces/splitter"
	"badc0de.net/pkg/go-pieces/sprite"
)

// Packer reads places from a source and writes repacked places to a sink.
type Packer struct {
	dst           datasource.Sink
	srcBackground bool
	padding       int

	split *splitter.Splitter
}

// Option configures a Packer.
type Option func(*Packer)

// WithSourceBackground sets whether the source's label files contain a
// background record. It is true by default.
func WithSourceBackground(hasBackground bool) Option {
	return func(p *Packer) {
		p.srcBackground = hasBackground
	}
}

// WithPadding leaves n transparent pixels between neighbouring fragments.
func WithPadding(n int) Option {
	return func(p *Packer) {
		if n > 0 {
			p.padding = n
		}
	}
}

// New creates a Packer.
func New(src datasource.Source, dst datasource.Sink, opts ...Option) *Packer {
	p := &Packer{
		dst:           dst,
		srcBackground: true,
	}
	for _, o := range opts {
		o(p)
	}
	p.split = splitter.New(src, splitter.WithBackground(p.srcBackground))
	return p
}

// Layout returns where each fragment goes on a packed sheet: side by side,
// top-aligned, in order, with padding pixels between neighbours.
func Layout(ps []pieces.Piece, padding int) []image.Rectangle {
	out := make([]image.Rectangle, len(ps))
	x := 0
	for i, p := range ps {
		if i > 0 {
			x += padding
		}
		out[i] = image.Rect(x, 0, x+p.BitmapImage.Width, p.BitmapImage.Height)
		x += p.BitmapImage.Width
	}
	return out
}

// paste copies m's pixels into dst at pt byte for byte. draw.Draw would go
// through premultiplied color for an *image.NRGBA destination.
func paste(dst *image.NRGBA, pt image.Point, m *image.NRGBA) {
	rowLen := 4 * m.Rect.Dx()
	for y := 0; y < m.Rect.Dy(); y++ {
		d := dst.PixOffset(pt.X, pt.Y+y)
		s := m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y)
		copy(dst.Pix[d:d+rowLen], m.Pix[s:s+rowLen])
	}
}

// Pack repacks one place. A place unknown to the source is reported as an
// error wrapping pieces.ErrNotFound.
func (p *Packer) Pack(placeID string) error {
	place, ok, err := p.split.Split(placeID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(pieces.ErrNotFound, "packing %q", placeID)
	}

	rects := Layout(place.Pieces, p.padding)
	var bounds image.Rectangle
	for _, r := range rects {
		bounds = bounds.Union(r)
	}
	if bounds.Empty() {
		// PNG cannot hold an empty image.
		bounds = image.Rect(0, 0, 1, 1)
	}
	sheet := image.NewNRGBA(bounds)

	records := make([]pieces.LabelRecord, len(place.Pieces))
	for i, piece := range place.Pieces {
		m, err := place.Sprite.Extract(piece.BitmapImage)
		if err != nil {
			return errors.Wrapf(err, "extracting %s", piece.ID)
		}
		paste(sheet, rects[i].Min, m)

		records[i] = pieces.LabelRecord{
			X:            rects[i].Min.X,
			Y:            rects[i].Min.Y,
			Width:        rects[i].Dx(),
			Height:       rects[i].Dy(),
			SpriteOffset: piece.BitmapImage.SpriteOffset.X,
		}
	}

	labels, err := pieces.EncodeLabels(records)
	if err != nil {
		return errors.Wrapf(err, "encoding labels for %q", placeID)
	}
	buf := &bytes.Buffer{}
	if err := sprite.Encode(buf, sheet); err != nil {
		return errors.Wrapf(err, "encoding sprite for %q", placeID)
	}

	if err := p.dst.WriteSprite(placeID, buf.Bytes()); err != nil {
		return errors.Wrapf(err, "writing sprite for %q", placeID)
	}
	if err := p.dst.WriteLabels(placeID, labels); err != nil {
		return errors.Wrapf(err, "writing labels for %q", placeID)
	}
	glog.Infof("packer.Pack(%q): %d pieces, %dx%d sheet", placeID, len(records), bounds.Dx(), bounds.Dy())
	return nil
}

// PackAll packs the passed places, at most parallelism at a time. The ids
// must be distinct. The first failure stops places not yet started and is
// returned.
func (p *Packer) PackAll(ctx context.Context, placeIDs []string, parallelism int) error {
	if parallelism < 1 {
		parallelism = 1
	}
	seen := make(map[string]bool, len(placeIDs))
	for _, id := range placeIDs {
		if seen[id] {
			return errors.Errorf("place %q listed more than once", id)
		}
		seen[id] = true
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, id := range placeIDs {
		id := id
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.Pack(id); err != nil {
				return errors.Wrapf(err, "place %q", id)
			}
			return nil
		})
	}
	return g.Wait()
}
