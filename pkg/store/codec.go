package store

import (
	"encoding/json"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

func encodeRecord(rec *mindmap.Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode %s", rec.ID)
	}
	return data, nil
}

func decodeRecord(data []byte) (*mindmap.Record, error) {
	var rec mindmap.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode record")
	}
	if rec.Nodes == nil {
		rec.Nodes = mindmap.NewNodeMap()
	}
	return &rec, nil
}
