package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Fingerprint hashes the JSON form of a record. Two records with the same
// name and the same nodes in the same order share a fingerprint, which makes
// it usable as an HTTP entity tag for rendered images.
func Fingerprint(rec *mindmap.Record) string {
	if rec == nil {
		return Hash(nil)
	}
	data, err := json.Marshal(struct {
		Name  string           `json:"name"`
		Nodes *mindmap.NodeMap `json:"nodes"`
	}{rec.Name, rec.Nodes})
	if err != nil {
		return Hash([]byte(rec.ID))
	}
	return Hash(data)
}
