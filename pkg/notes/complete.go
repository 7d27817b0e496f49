package notes

import (
	"context"
	"fmt"
	"strings"
)

// MaxChoices caps the number of autocomplete suggestions.
const MaxChoices = 25

// Choice is one autocomplete suggestion.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CompleteMaps suggests the user's map IDs starting with prefix
// (case-insensitive), labelled with the map name.
func (s *Service) CompleteMaps(ctx context.Context, user, prefix string) ([]Choice, error) {
	recs, err := s.store.List(ctx, user)
	if err != nil {
		return nil, err
	}
	choices := make([]Choice, 0, min(len(recs), MaxChoices))
	for _, rec := range recs {
		if !hasPrefixFold(rec.ID, prefix) {
			continue
		}
		choices = append(choices, Choice{
			Value: rec.ID,
			Label: fmt.Sprintf("ID: %s | Name: %s", rec.ID, rec.Name),
		})
		if len(choices) == MaxChoices {
			break
		}
	}
	return choices, nil
}

// CompleteNodes suggests the note IDs of a map starting with prefix,
// labelled with the note text.
func (s *Service) CompleteNodes(ctx context.Context, user, mapID, prefix string) ([]Choice, error) {
	rec, err := s.store.Get(ctx, user, mapID)
	if err != nil {
		return nil, err
	}
	choices := make([]Choice, 0, min(rec.NodeCount(), MaxChoices))
	for _, n := range rec.Nodes.Values() {
		if !hasPrefixFold(n.ID, prefix) {
			continue
		}
		choices = append(choices, Choice{
			Value: n.ID,
			Label: fmt.Sprintf("ID: %s | Text: %s", n.ID, n.NodeText),
		})
		if len(choices) == MaxChoices {
			break
		}
	}
	return choices, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
