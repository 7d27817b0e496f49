package mindmap

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// Translate converts a persisted record into a Config.
//
// The input may be a Record, a *Record, or the record's serialized JSON form
// as a string, []byte or json.RawMessage. The header and the central node
// both take the record's name; each entry of the node map becomes one
// satellite, in the map's insertion order. Coordinates are left at zero for
// the layout stage to fill in, and a missing node color stays empty until
// the node is drawn.
//
// Translate returns an INVALID_INPUT error for malformed JSON, a record
// without a node map, or an unsupported input type.
func Translate(input any) (Config, error) {
	rec, err := decodeInput(input)
	if err != nil {
		return Config{}, err
	}
	return FromRecord(rec)
}

// FromRecord converts a decoded record into a Config.
func FromRecord(rec *Record) (Config, error) {
	if rec == nil {
		return Config{}, errors.InvalidInput("record is nil")
	}
	if rec.Nodes == nil {
		return Config{}, errors.InvalidInput("record %q has no nodes map", rec.Name)
	}

	nodes := make([]Node, 0, rec.Nodes.Len())
	for _, n := range rec.Nodes.Values() {
		nodes = append(nodes, Node{Text: n.NodeText, Color: n.NodeColor})
	}

	return Config{
		Header:      rec.Name,
		CentralNode: CentralNode{Text: rec.Name},
		Nodes:       nodes,
	}, nil
}

// ParseRecord decodes a record from its JSON form.
func ParseRecord(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode record")
	}
	return &rec, nil
}

// ParseRecordYAML decodes a record from YAML. Node order follows the document.
func ParseRecordYAML(data []byte) (*Record, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode record")
	}
	return &rec, nil
}

func decodeInput(input any) (*Record, error) {
	switch v := input.(type) {
	case *Record:
		return v, nil
	case Record:
		return &v, nil
	case json.RawMessage:
		return ParseRecord(v)
	case []byte:
		return ParseRecord(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, errors.InvalidInput("record is empty")
		}
		return ParseRecord([]byte(v))
	case nil:
		return nil, errors.InvalidInput("record is nil")
	default:
		return nil, errors.InvalidInput("unsupported record type %T", input)
	}
}
