// Package mindmap defines the mind map data model and the translation from
// persisted note records into the renderer's input.
//
// # Records
//
// A [Record] is the shape the note store persists: a display name plus a map
// of satellite notes keyed by node ID.
//
//	{
//	  "id": "MM-4F2A9C01",
//	  "name": "Quarterly plan",
//	  "nodes": {
//	    "ND-1A2B3C4D": {"nodetext": "Hiring", "nodecolor": "#ffcc00"},
//	    "ND-5E6F7A8B": {"nodetext": "Budget"}
//	  }
//	}
//
// The node map is a [NodeMap], which remembers insertion order through JSON
// and YAML round trips. Order matters: it decides which ring and slot each
// note occupies in the rendered image.
//
// # Config
//
// [Translate] turns a record (or its serialized JSON form) into a [Config],
// the immutable input of the layout and rendering stages. Coordinates in a
// freshly translated Config are placeholders; the layout package computes
// real positions on every render.
//
//	cfg, err := mindmap.Translate(`{"name":"Plan","nodes":{}}`)
//	if errors.IsInvalidInput(err) {
//	    // malformed record
//	}
package mindmap
