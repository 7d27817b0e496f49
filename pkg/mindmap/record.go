package mindmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultNodeColor is used when a node has no color, both when notes are
// created and when satellites are drawn.
const DefaultNodeColor = "white"

// Record is a persisted mind map: a name and its satellite notes.
type Record struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	Nodes     *NodeMap  `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

// NodeRecord is a persisted satellite note.
type NodeRecord struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	NodeText  string `json:"nodetext" yaml:"nodetext"`
	NodeColor string `json:"nodecolor,omitempty" yaml:"nodecolor,omitempty"`
}

// NewRecord creates a record with an empty node map.
func NewRecord(id, name string) *Record {
	return &Record{ID: id, Name: name, Nodes: NewNodeMap()}
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.Nodes != nil {
		c.Nodes = r.Nodes.Clone()
	}
	return &c
}

// NodeCount returns the number of satellite notes, zero if the node map is absent.
func (r *Record) NodeCount() int {
	if r == nil || r.Nodes == nil {
		return 0
	}
	return r.Nodes.Len()
}

// NodeMap is an insertion-ordered map of node ID to NodeRecord.
// The zero value is ready to use.
type NodeMap struct {
	keys   []string
	values map[string]NodeRecord
}

// NewNodeMap returns an empty NodeMap.
func NewNodeMap() *NodeMap {
	return &NodeMap{}
}

// Len returns the number of entries.
func (m *NodeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the node stored under id.
func (m *NodeMap) Get(id string) (NodeRecord, bool) {
	if m == nil || m.values == nil {
		return NodeRecord{}, false
	}
	n, ok := m.values[id]
	return n, ok
}

// Set stores n under id. Replacing an existing entry keeps its position.
func (m *NodeMap) Set(id string, n NodeRecord) {
	if m.values == nil {
		m.values = make(map[string]NodeRecord)
	}
	if _, ok := m.values[id]; !ok {
		m.keys = append(m.keys, id)
	}
	m.values[id] = n
}

// Delete removes id and reports whether it was present.
func (m *NodeMap) Delete(id string) bool {
	if m == nil || m.values == nil {
		return false
	}
	if _, ok := m.values[id]; !ok {
		return false
	}
	delete(m.values, id)
	for i, k := range m.keys {
		if k == id {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the node IDs in insertion order.
func (m *NodeMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Values returns the nodes in insertion order.
func (m *NodeMap) Values() []NodeRecord {
	if m == nil {
		return nil
	}
	out := make([]NodeRecord, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// Clone returns a copy of m that shares no state with it.
func (m *NodeMap) Clone() *NodeMap {
	c := NewNodeMap()
	if m == nil {
		return c
	}
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m NodeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the order in which keys appear.
// A repeated key keeps its first position and its last value.
func (m *NodeMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("nodes: expected object, got %v", tok)
	}

	out := NodeMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("nodes: expected key, got %v", tok)
		}
		var n NodeRecord
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("nodes.%s: %w", key, err)
		}
		out.Set(key, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m NodeMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var val yaml.Node
		if err := val.Encode(m.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping document order.
func (m *NodeMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("nodes: expected mapping at line %d", value.Line)
	}
	out := NodeMap{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var n NodeRecord
		if err := value.Content[i+1].Decode(&n); err != nil {
			return fmt.Errorf("nodes.%s: %w", key, err)
		}
		out.Set(key, n)
	}
	*m = out
	return nil
}
