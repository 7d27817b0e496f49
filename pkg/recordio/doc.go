// Package recordio reads mind map records from files and writes rendered
// artifacts back to disk.
//
// # Input Formats
//
// A record is accepted as JSON or YAML, in the same shape the store keeps:
//
//	{
//	  "name": "Roadmap",
//	  "nodes": {
//	    "ND-1": {"nodetext": "Design", "nodecolor": "lightblue"},
//	    "ND-2": {"nodetext": "Build"}
//	  }
//	}
//
// Node order follows the document in both formats. The format is chosen by
// file extension (.json, .yaml, .yml); anything else, including stdin, is
// sniffed: input starting with '{' is JSON, everything else YAML.
//
// # Import
//
// Use [ImportRecord] to read from a path ("-" for stdin), or [ReadRecord] to
// read from any io.Reader:
//
//	rec, err := recordio.ImportRecord("roadmap.yaml", os.Stdin)
//
// # Export
//
// [WriteRecord] and [ExportRecord] write a record as indented JSON or YAML.
// [WriteArtifacts] writes one file per rendered format next to a base path.
package recordio
