package pieces

import (
	"image"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pieces/ttesting"
)

func TestParseLabels(t *testing.T) {
	records, err := ParseLabels("edinburgh", []byte(`[
		{"x": 0, "y": 0, "width": 1400, "height": 900, "sprite_offset": 0},
		{"x": 10, "y": 20, "width": 1350, "height": 882, "sprite_offset": 10, "colour": "red"},
		{"x": 1360.0, "y": 0, "width": 5, "height": 6, "sprite_offset": 0}
	]`))
	if err != nil {
		t.Fatalf("failed to parse labels: %v", err)
	}
	ttesting.AssertEqualInt(t, "record count", len(records), 3)
	if len(records) != 3 {
		return
	}
	want := LabelRecord{X: 10, Y: 20, Width: 1350, Height: 882, SpriteOffset: 10}
	if records[1] != want {
		t.Errorf("got %+v; want %+v", records[1], want)
	}
	ttesting.AssertEqualInt(t, "float written integer", records[2].X, 1360)
}

func TestParseLabelsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		record int
		field  string
	}{
		{"not json", `{`, -1, ""},
		{"not an array", `{"x": 1}`, -1, ""},
		{"null document", `null`, -1, ""},
		{"record not an object", `[1]`, 0, ""},
		{"missing field", `[{"x": 1, "y": 2, "width": 3, "height": 4}]`, 0, "sprite_offset"},
		{"string value", `[{"x": "1", "y": 2, "width": 3, "height": 4, "sprite_offset": 0}]`, 0, "x"},
		{"null value", `[{"x": 1, "y": null, "width": 3, "height": 4, "sprite_offset": 0}]`, 0, "y"},
		{"fraction", `[{"x": 1, "y": 2, "width": 3.5, "height": 4, "sprite_offset": 0}]`, 0, "width"},
		{"negative", `[{"x": 1, "y": 2, "width": 3, "height": -4, "sprite_offset": 0}]`, 0, "height"},
		{"second record", `[{"x": 1, "y": 2, "width": 3, "height": 4, "sprite_offset": 0}, {"x": 1}]`, 1, "y"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLabels("edinburgh", []byte(tc.data))
			var dfe *DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("got %v; want a *DataFormatError", err)
			}
			if dfe.Record != tc.record || dfe.Field != tc.field {
				t.Errorf("got record %d field %q; want record %d field %q", dfe.Record, dfe.Field, tc.record, tc.field)
			}
			if dfe.PlaceID != "edinburgh" {
				t.Errorf("got place %q; want %q", dfe.PlaceID, "edinburgh")
			}
		})
	}
}

func TestEncodeLabelsRoundTrip(t *testing.T) {
	in := []LabelRecord{
		{X: 0, Y: 0, Width: 3, Height: 4, SpriteOffset: 17},
		{X: 3, Y: 0, Width: 8, Height: 2, SpriteOffset: 0},
	}
	b, err := EncodeLabels(in)
	if err != nil {
		t.Fatalf("failed to encode labels: %v", err)
	}
	out, err := ParseLabels("p", b)
	if err != nil {
		t.Fatalf("failed to parse encoded labels: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d records; want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("record %d: got %+v; want %+v", i, out[i], in[i])
		}
	}

	empty, err := EncodeLabels(nil)
	if err != nil {
		t.Fatalf("failed to encode no labels: %v", err)
	}
	ttesting.AssertEqualString(t, "empty label file", string(empty), "[]\n")
}

func TestFilterBackground(t *testing.T) {
	records := []LabelRecord{
		{X: 5, Y: 0, Width: 1, Height: 1, SpriteOffset: 0},
		{X: 0, Y: 0, Width: 10, Height: 10, SpriteOffset: 0},
		{X: 0, Y: 3, Width: 1, Height: 1, SpriteOffset: 4},
	}

	kept := FilterBackground(records, DefaultBackgroundPolicy)
	ttesting.AssertEqualInt(t, "background dropped", len(kept), 2)
	for _, r := range kept {
		if DefaultBackgroundPolicy(r) {
			t.Errorf("background record %+v survived filtering", r)
		}
	}
	if len(kept) == 2 && (kept[0] != records[0] || kept[1] != records[2]) {
		t.Errorf("order not preserved: got %+v", kept)
	}

	ttesting.AssertEqualInt(t, "no background policy keeps all", len(FilterBackground(records, NoBackground)), 3)
	ttesting.AssertEqualInt(t, "nil policy keeps all", len(FilterBackground(records, nil)), 3)
}

func TestValidateRect(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	tests := []struct {
		name string
		b    BitmapImage
		ok   bool
	}{
		{"whole sheet", BitmapImage{X: 0, Y: 0, Width: 100, Height: 50}, true},
		{"inside", BitmapImage{X: 10, Y: 20, Width: 5, Height: 5}, true},
		{"too wide", BitmapImage{X: 90, Y: 0, Width: 11, Height: 5}, false},
		{"too tall", BitmapImage{X: 0, Y: 49, Width: 1, Height: 2}, false},
		{"empty", BitmapImage{X: 1, Y: 1, Width: 0, Height: 5}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRect(tc.b, bounds)
			if tc.ok && err != nil {
				t.Errorf("got %v; want nil", err)
			}
			var oob *OutOfBoundsError
			if !tc.ok && !errors.As(err, &oob) {
				t.Errorf("got %v; want an *OutOfBoundsError", err)
			}
		})
	}
}

func TestBitmapImageConversions(t *testing.T) {
	l := LabelRecord{X: 10, Y: 20, Width: 1350, Height: 882, SpriteOffset: 10}
	b := l.BitmapImage()
	ttesting.AssertEqualRect(t, "rect", b.Rect(), image.Rect(10, 20, 1360, 902))
	ttesting.AssertEqualInt(t, "offset x", b.SpriteOffset.X, 10)
	ttesting.AssertEqualInt(t, "offset y", b.SpriteOffset.Y, 0)
	if b.LabelRecord() != l {
		t.Errorf("got %+v; want %+v", b.LabelRecord(), l)
	}
	ttesting.AssertEqualString(t, "piece id", PieceID("edinburgh", 0), "edinburgh_0")
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(errors.Wrap(ErrNotFound, "reading labels")) {
		t.Error("wrapped ErrNotFound not recognised")
	}
	if IsNotFound(&IOError{Op: "read", Key: "x", Err: errors.New("boom")}) {
		t.Error("IOError recognised as not found")
	}
}
