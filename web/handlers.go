// Package web serves places and their pieces over HTTP.
//
// Unknown places are a normal outcome: the JSON endpoints answer them with a
// null result and status 200, never with an error response.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"net/http"
	"strconv"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-pieces/signature"
	"badc0de.net/pkg/go-pieces/splitter"
	"badc0de.net/pkg/go-pieces/sprite"
)

// generation is part of every ETag; bump it if the way responses are
// generated changes.
const generation = 1

// Handler answers place and piece queries from a splitter.
type Handler struct {
	splitter *splitter.Splitter
}

// NewHandler constructs a web handler answering from the passed splitter.
func NewHandler(s *splitter.Splitter) *Handler {
	return &Handler{splitter: s}
}

// SpriteOffsetJSON is a piece's composite offset.
type SpriteOffsetJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BitmapImageJSON is a piece's payload, as a data URL, and its rectangle in
// the sprite sheet.
type BitmapImageJSON struct {
	Data         string           `json:"data"`
	X            int              `json:"x"`
	Y            int              `json:"y"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	SpriteOffset SpriteOffsetJSON `json:"spriteOffset"`
}

// PieceJSON is one piece of a place.
type PieceJSON struct {
	ID          string          `json:"id"`
	BitmapImage BitmapImageJSON `json:"bitmapImage"`
}

// PiecesResponse is the body of /pieces/{id}. PiecesByPlaceID is nil for an
// unknown place.
type PiecesResponse struct {
	PiecesByPlaceID []PieceJSON `json:"piecesByPlaceId"`
}

// PlacesResponse is the body of /places.
type PlacesResponse struct {
	Places []string `json:"places"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		glog.Errorf("error encoding response: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// split runs the splitter. A nil place with failed == false means the place
// does not exist; on failure a 500 has already been written.
func (h *Handler) split(w http.ResponseWriter, tr trace.Trace, placeID string) (place *splitter.Place, failed bool) {
	place, ok, err := h.splitter.Split(placeID)
	if err != nil {
		tr.LazyPrintf("split failed: %v", err)
		tr.SetError()
		http.Error(w, "failed to load place", http.StatusInternalServerError)
		glog.Errorf("error splitting %q: %v", placeID, err)
		return nil, true
	}
	if !ok {
		tr.LazyPrintf("place %q not found", placeID)
		return nil, false
	}
	return place, false
}

func (h *Handler) placesHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.places", r.URL.Path)
	defer tr.Finish()

	ids, err := h.splitter.PlaceIDs()
	if err != nil {
		tr.SetError()
		http.Error(w, "failed to list places", http.StatusInternalServerError)
		glog.Errorf("error listing places: %v", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	tr.LazyPrintf("%d places", len(ids))
	writeJSON(w, PlacesResponse{Places: ids})
}

func (h *Handler) piecesHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.pieces", r.URL.Path)
	defer tr.Finish()

	place, failed := h.split(w, tr, mux.Vars(r)["id"])
	if failed {
		return
	}
	if place == nil {
		writeJSON(w, PiecesResponse{})
		return
	}

	resp := PiecesResponse{PiecesByPlaceID: make([]PieceJSON, 0, len(place.Pieces))}
	for _, p := range place.Pieces {
		data, err := place.Sprite.ExtractPNG(p.BitmapImage)
		if err != nil {
			tr.SetError()
			http.Error(w, "failed to extract piece", http.StatusInternalServerError)
			glog.Errorf("error extracting %s: %v", p.ID, err)
			return
		}
		b := p.BitmapImage
		resp.PiecesByPlaceID = append(resp.PiecesByPlaceID, PieceJSON{
			ID: p.ID,
			BitmapImage: BitmapImageJSON{
				Data:         dataurl.New(data, "image/png").String(),
				X:            b.X,
				Y:            b.Y,
				Width:        b.Width,
				Height:       b.Height,
				SpriteOffset: SpriteOffsetJSON{X: b.SpriteOffset.X, Y: b.SpriteOffset.Y},
			},
		})
	}
	tr.LazyPrintf("%d pieces", len(resp.PiecesByPlaceID))
	writeJSON(w, resp)
}

func (h *Handler) pieceHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.piece", r.URL.Path)
	defer tr.Finish()

	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "index not a number", http.StatusBadRequest)
		return
	}

	place, failed := h.split(w, tr, vars["id"])
	if failed {
		return
	}
	if place == nil {
		http.NotFound(w, r)
		return
	}
	if idx < 0 || idx >= len(place.Pieces) {
		http.NotFound(w, r)
		return
	}

	p := place.Pieces[idx]
	img, err := place.Sprite.Extract(p.BitmapImage)
	if err != nil {
		tr.SetError()
		http.Error(w, "failed to extract piece", http.StatusInternalServerError)
		glog.Errorf("error extracting %s: %v", p.ID, err)
		return
	}

	mime := "image/png"
	etag := fmt.Sprintf(`W/"piece:%d:%s:%s:%s"`, generation, p.ID, signature.Of(img).Short(), mime)
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	buf := &bytes.Buffer{}
	if err := sprite.Encode(buf, img); err != nil {
		tr.SetError()
		http.Error(w, "failed to encode piece", http.StatusInternalServerError)
		glog.Errorf("error encoding %s: %v", p.ID, err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) spriteHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.sprite", r.URL.Path)
	defer tr.Finish()

	place, failed := h.split(w, tr, mux.Vars(r)["id"])
	if failed {
		return
	}
	if place == nil {
		http.NotFound(w, r)
		return
	}

	buf := &bytes.Buffer{}
	if err := sprite.Encode(buf, place.Sprite.Image()); err != nil {
		tr.SetError()
		http.Error(w, "failed to encode sprite", http.StatusInternalServerError)
		glog.Errorf("error encoding sprite for %q: %v", place.ID, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// previewFrame quantizes one piece onto a canvas of the passed size. Palette
// index 0 is transparent.
func previewFrame(m image.Image, canvas image.Rectangle) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 255), m)
	frame := image.NewPaletted(canvas, append(color.Palette{color.Transparent}, pal...))
	draw.Draw(frame, m.Bounds(), m, image.Point{}, draw.Over)
	return frame
}

func (h *Handler) previewHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.preview", r.URL.Path)
	defer tr.Finish()

	place, failed := h.split(w, tr, mux.Vars(r)["id"])
	if failed {
		return
	}
	if place == nil {
		http.NotFound(w, r)
		return
	}
	if len(place.Pieces) == 0 {
		http.NotFound(w, r)
		return
	}

	var canvas image.Rectangle
	for _, p := range place.Pieces {
		canvas = canvas.Union(image.Rect(0, 0, p.BitmapImage.Width, p.BitmapImage.Height))
	}

	g := gif.GIF{BackgroundIndex: 0}
	for _, p := range place.Pieces {
		m, err := place.Sprite.Extract(p.BitmapImage)
		if err != nil {
			tr.SetError()
			http.Error(w, "failed to extract piece", http.StatusInternalServerError)
			glog.Errorf("error extracting %s: %v", p.ID, err)
			return
		}
		g.Image = append(g.Image, previewFrame(m, canvas))
		g.Delay = append(g.Delay, 50)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}

	w.Header().Set("Content-Type", "image/gif")
	w.WriteHeader(http.StatusOK)
	if err := gif.EncodeAll(w, &g); err != nil {
		glog.Errorf("error encoding preview for %q: %v", place.ID, err)
	}
}

// RegisterRoutes adds the place, piece and sprite routes to r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/places", h.placesHandler).Methods(http.MethodGet)
	r.HandleFunc("/pieces/{id}", h.piecesHandler).Methods(http.MethodGet)
	r.HandleFunc("/pieces/{id}/preview.gif", h.previewHandler).Methods(http.MethodGet)
	r.HandleFunc("/pieces/{id}/{index:[0-9]+}.png", h.pieceHandler).Methods(http.MethodGet)
	r.HandleFunc("/sprite/{id}.png", h.spriteHandler).Methods(http.MethodGet)
}
