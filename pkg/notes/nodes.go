package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Field names reported in a Change.
const (
	FieldName  = "name"
	FieldText  = "nodetext"
	FieldColor = "nodecolor"
)

// Change records one modified field.
type Change struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// String renders the change as `Field: old → new`.
func (c Change) String() string {
	return fmt.Sprintf("%s: %q → %q", fieldLabel(c.Field), c.Old, c.New)
}

func fieldLabel(field string) string {
	switch field {
	case FieldText:
		return "Node text"
	case FieldColor:
		return "Node color"
	case FieldName:
		return "Name"
	}
	return field
}

// NodeEdit holds the new values of a note. Empty fields are left unchanged.
type NodeEdit struct {
	Text  string
	Color string
}

// AddNode appends a note to a mind map. An empty color means white.
func (s *Service) AddNode(ctx context.Context, user, mapID, text, color string) (mindmap.NodeRecord, error) {
	if err := errors.ValidateNodeText(text); err != nil {
		return mindmap.NodeRecord{}, err
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = mindmap.DefaultNodeColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, user, mapID)
	if err != nil {
		return mindmap.NodeRecord{}, err
	}

	node := mindmap.NodeRecord{ID: NodePrefix + s.newID(), NodeText: text, NodeColor: color}
	rec.Nodes.Set(node.ID, node)
	if err := s.store.Put(ctx, user, rec); err != nil {
		return mindmap.NodeRecord{}, err
	}
	s.logger.Info("added node", "user", user, "map", mapID, "node", node.ID)
	return node, nil
}

// RemoveNode deletes a note from a mind map.
func (s *Service) RemoveNode(ctx context.Context, user, mapID, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, user, mapID)
	if err != nil {
		return err
	}
	if !rec.Nodes.Delete(nodeID) {
		return nodeNotFound(nodeID)
	}
	if err := s.store.Put(ctx, user, rec); err != nil {
		return err
	}
	s.logger.Info("removed node", "user", user, "map", mapID, "node", nodeID)
	return nil
}

// EditNode updates the text and/or color of a note and returns the fields
// that actually changed. Supplying neither is an INVALID_INPUT error; to
// delete a note use RemoveNode.
func (s *Service) EditNode(ctx context.Context, user, mapID, nodeID string, edit NodeEdit) ([]Change, error) {
	edit.Color = strings.TrimSpace(edit.Color)
	if edit.Text == "" && edit.Color == "" {
		return nil, errors.InvalidInput("node text and node color cannot both be empty; use remove to delete a node")
	}
	if edit.Text != "" {
		if err := errors.ValidateNodeText(edit.Text); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, user, mapID)
	if err != nil {
		return nil, err
	}
	node, ok := rec.Nodes.Get(nodeID)
	if !ok {
		return nil, nodeNotFound(nodeID)
	}

	var changes []Change
	if edit.Text != "" && edit.Text != node.NodeText {
		changes = append(changes, Change{Field: FieldText, Old: node.NodeText, New: edit.Text})
		node.NodeText = edit.Text
	}
	if edit.Color != "" && edit.Color != node.NodeColor {
		changes = append(changes, Change{Field: FieldColor, Old: node.NodeColor, New: edit.Color})
		node.NodeColor = edit.Color
	}
	if len(changes) == 0 {
		return changes, nil
	}

	rec.Nodes.Set(nodeID, node)
	if err := s.store.Put(ctx, user, rec); err != nil {
		return nil, err
	}
	s.logger.Info("edited node", "user", user, "map", mapID, "node", nodeID, "changes", len(changes))
	return changes, nil
}

func nodeNotFound(nodeID string) error {
	return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", nodeID)
}
