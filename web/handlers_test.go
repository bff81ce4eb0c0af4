package web

import (
	"bytes"
	"encoding/json"
	"image/gif"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vincent-petithory/dataurl"

	pieces "badc0de.net/pkg/go-pieces"
	"badc0de.net/pkg/go-pieces/datasource"
	"badc0de.net/pkg/go-pieces/signature"
	"badc0de.net/pkg/go-pieces/splitter"
	"badc0de.net/pkg/go-pieces/sprite"
	"badc0de.net/pkg/go-pieces/ttesting"
)

func newServer(t *testing.T) (*httptest.Server, *datasource.Memory) {
	src := datasource.NewMemory()
	labels, err := pieces.EncodeLabels([]pieces.LabelRecord{
		{X: 0, Y: 0, Width: 40, Height: 30, SpriteOffset: 0},
		{X: 10, Y: 20, Width: 13, Height: 8, SpriteOffset: 10},
		{X: 2, Y: 1, Width: 5, Height: 6, SpriteOffset: 30},
	})
	require.NoError(t, err)
	src.Put("edinburgh", labels, ttesting.SheetPNG(t, 40, 30, 1))
	src.Put("broken", []byte(`[{"x": "nope"}]`), ttesting.SheetPNG(t, 4, 4, 1))

	r := mux.NewRouter()
	NewHandler(splitter.New(src)).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, src
}

func get(t *testing.T, url string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestPiecesUnknownPlace(t *testing.T) {
	srv, _ := newServer(t)
	resp, body := get(t, srv.URL+"/pieces/glasgow")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"piecesByPlaceId": null}`, string(body))
}

func TestPiecesKnownPlace(t *testing.T) {
	srv, src := newServer(t)
	resp, body := get(t, srv.URL+"/pieces/edinburgh")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got struct {
		PiecesByPlaceID []struct {
			ID          string `json:"id"`
			BitmapImage struct {
				Data                string
				X, Y, Width, Height int
				SpriteOffset        struct{ X, Y int }
			} `json:"bitmapImage"`
		} `json:"piecesByPlaceId"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.PiecesByPlaceID, 2)

	place, ok, err := splitter.New(src).Split("edinburgh")
	require.NoError(t, err)
	require.True(t, ok)

	for i, p := range got.PiecesByPlaceID {
		want := place.Pieces[i]
		assert.Equal(t, want.ID, p.ID)
		assert.Equal(t, want.BitmapImage.X, p.BitmapImage.X)
		assert.Equal(t, want.BitmapImage.Y, p.BitmapImage.Y)
		assert.Equal(t, want.BitmapImage.Width, p.BitmapImage.Width)
		assert.Equal(t, want.BitmapImage.Height, p.BitmapImage.Height)
		assert.Equal(t, want.BitmapImage.SpriteOffset.X, p.BitmapImage.SpriteOffset.X)

		du, err := dataurl.DecodeString(p.BitmapImage.Data)
		require.NoError(t, err)
		assert.Equal(t, "image/png", du.ContentType())

		gotSig, err := signature.OfBytes(du.Data)
		require.NoError(t, err)
		m, err := place.Sprite.Extract(want.BitmapImage)
		require.NoError(t, err)
		assert.Equal(t, signature.Of(m), gotSig, "piece %s", p.ID)
	}
}

func TestPiecesBrokenPlace(t *testing.T) {
	srv, _ := newServer(t)
	resp, _ := get(t, srv.URL+"/pieces/broken")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPlaces(t *testing.T) {
	srv, _ := newServer(t)
	resp, body := get(t, srv.URL+"/places")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"places": ["broken", "edinburgh"]}`, string(body))
}

func TestPiecePNG(t *testing.T) {
	srv, src := newServer(t)
	resp, body := get(t, srv.URL+"/pieces/edinburgh/1.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	place, _, err := splitter.New(src).Split("edinburgh")
	require.NoError(t, err)
	m, err := place.Sprite.Extract(place.Pieces[1].BitmapImage)
	require.NoError(t, err)
	sig, err := signature.OfBytes(body)
	require.NoError(t, err)
	assert.Equal(t, signature.Of(m), sig)

	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)
	resp, _ = get(t, srv.URL+"/pieces/edinburgh/1.png", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/pieces/edinburgh/2.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/pieces/glasgow/0.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSpritePNG(t *testing.T) {
	srv, _ := newServer(t)
	resp, body := get(t, srv.URL+"/sprite/edinburgh.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s, err := sprite.DecodeBytes(body)
	require.NoError(t, err)
	assert.Equal(t, signature.Of(ttesting.Sheet(40, 30, 1)), signature.Of(s.Image()))

	resp, _ = get(t, srv.URL+"/sprite/glasgow.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPreviewGIF(t *testing.T) {
	srv, _ := newServer(t)
	resp, body := get(t, srv.URL+"/pieces/edinburgh/preview.gif")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g, err := gif.DecodeAll(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
	assert.Equal(t, 13, g.Config.Width)
	assert.Equal(t, 8, g.Config.Height)
}
