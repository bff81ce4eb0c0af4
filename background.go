package pieces

// BackgroundPolicy reports whether a label record is the full-size
// background layer rather than a puzzle piece.
type BackgroundPolicy func(LabelRecord) bool

// DefaultBackgroundPolicy matches the background layer written by the
// sprite renderer: a record at the left edge of the sheet with no offset.
func DefaultBackgroundPolicy(l LabelRecord) bool {
	return l.X == 0 && l.SpriteOffset == 0
}

// NoBackground never matches. Use it for already packed sheets.
func NoBackground(LabelRecord) bool {
	return false
}

// FilterBackground returns the records the policy does not match, in order.
// A nil policy keeps every record.
func FilterBackground(records []LabelRecord, policy BackgroundPolicy) []LabelRecord {
	out := make([]LabelRecord, 0, len(records))
	for _, r := range records {
		if policy != nil && policy(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
