package pieces

import (
	"bytes"
	"encoding/json"
	"math"
)

// LabelRecord is one entry of a place's label file.
//
// The file is a JSON array of these records. Field names and their integer
// semantics are shared with the tools that render the sprite sheets.
type LabelRecord struct {
	X            int `json:"x"`
	Y            int `json:"y"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	SpriteOffset int `json:"sprite_offset"`
}

// BitmapImage converts the record to fragment geometry. Offsets in label
// files are horizontal only.
func (l LabelRecord) BitmapImage() BitmapImage {
	return BitmapImage{
		X:            l.X,
		Y:            l.Y,
		Width:        l.Width,
		Height:       l.Height,
		SpriteOffset: SpriteOffset{X: l.SpriteOffset, Y: 0},
	}
}

var labelFields = []string{"x", "y", "width", "height", "sprite_offset"}

// ParseLabels decodes a label file.
//
// Every record must carry all of x, y, width, height and sprite_offset as
// non-negative integers; anything else fails the whole file with a
// *DataFormatError. Unknown fields are ignored.
func ParseLabels(placeID string, data []byte) ([]LabelRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DataFormatError{PlaceID: placeID, Record: -1, Reason: err.Error()}
	}
	if raw == nil {
		return nil, &DataFormatError{PlaceID: placeID, Record: -1, Reason: "not an array"}
	}

	records := make([]LabelRecord, 0, len(raw))
	for i, r := range raw {
		var fields map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil || fields == nil {
			return nil, &DataFormatError{PlaceID: placeID, Record: i, Reason: "not an object"}
		}

		var vals [5]int
		for j, name := range labelFields {
			v, ok := fields[name]
			if !ok {
				return nil, &DataFormatError{PlaceID: placeID, Record: i, Field: name, Reason: "missing"}
			}
			n, ok := v.(json.Number)
			if !ok {
				return nil, &DataFormatError{PlaceID: placeID, Record: i, Field: name, Reason: "not a number"}
			}
			val, err := labelInt(n)
			if err != nil {
				return nil, &DataFormatError{PlaceID: placeID, Record: i, Field: name, Reason: err.Error()}
			}
			vals[j] = val
		}
		records = append(records, LabelRecord{
			X:            vals[0],
			Y:            vals[1],
			Width:        vals[2],
			Height:       vals[3],
			SpriteOffset: vals[4],
		})
	}
	return records, nil
}

type labelValueError string

func (e labelValueError) Error() string { return string(e) }

// labelInt accepts integral JSON numbers, including ones written as floats
// (e.g. 10.0) by numeric tooling.
func labelInt(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i < 0 {
			return 0, labelValueError("negative")
		}
		if i > math.MaxInt32 {
			return 0, labelValueError("too large")
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, labelValueError("not a number")
	}
	if f != math.Trunc(f) {
		return 0, labelValueError("not an integer")
	}
	if f < 0 {
		return 0, labelValueError("negative")
	}
	if f > math.MaxInt32 {
		return 0, labelValueError("too large")
	}
	return int(f), nil
}

// EncodeLabels produces a label file for the passed records.
func EncodeLabels(records []LabelRecord) ([]byte, error) {
	if records == nil {
		records = []LabelRecord{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
