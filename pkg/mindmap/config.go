package mindmap

// Config is the renderer's input: a header line, the central topic and the
// satellite notes in ring/slot order. It is produced once per render request
// and never modified by layout or rendering.
type Config struct {
	Header      string      `json:"header"`
	CentralNode CentralNode `json:"centralNode"`
	Nodes       []Node      `json:"nodes"`
}

// CentralNode is the root label drawn at the canvas centre.
// It has no color: the centre is always filled white.
type CentralNode struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Node is a satellite note. Color is an opaque CSS color name or hex string;
// it is interpreted only when the node is drawn.
type Node struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
	Color string  `json:"color,omitempty"`
}

// Header is the free-text line drawn at the top-left of the image.
type Header struct {
	Text string `json:"text"`
}

// HeaderLine returns the config's header.
func (c Config) HeaderLine() Header {
	return Header{Text: c.Header}
}

// NodeCount returns the number of satellite notes.
func (c Config) NodeCount() int {
	return len(c.Nodes)
}
