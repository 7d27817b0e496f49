package textwrap

// Anchor selects how a block of lines sits relative to the node centre.
type Anchor int

const (
	// AnchorTop starts the first baseline 10 px above the centre.
	// Satellite labels use it.
	AnchorTop Anchor = iota

	// AnchorMiddle centres the block vertically on the node.
	// The central label uses it.
	AnchorMiddle
)

// singleLineDrop is the baseline offset of a one-line label.
const singleLineDrop = 8.0

// topDrop is the first baseline offset of a wrapped satellite label.
const topDrop = -10.0

// Line is one positioned line of a label. X and Y are the left edge and the
// baseline, ready for a text drawing call.
type Line struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// Block wraps text and positions each line around the node centre (cx, cy).
// Every line is centred horizontally on cx.
func Block(m Measurer, text string, cx, cy float64, anchor Anchor) []Line {
	if Fits(m, text, Width) {
		w, _ := m.MeasureString(text)
		return []Line{{Text: text, X: cx - w/2, Y: cy + singleLineDrop, Width: w}}
	}

	wrapped := Wrap(m, text, Width)
	first := cy + topDrop
	if anchor == AnchorMiddle {
		first = cy + singleLineDrop - float64(len(wrapped)-1)*LineHeight/2
	}

	lines := make([]Line, len(wrapped))
	for i, s := range wrapped {
		w, _ := m.MeasureString(s)
		lines[i] = Line{
			Text:  s,
			X:     cx - w/2,
			Y:     first + float64(i)*LineHeight,
			Width: w,
		}
	}
	return lines
}
