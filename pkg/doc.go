// Package pkg provides the libraries behind the mindmap renderer.
//
// # Overview
//
// A mind map is a named record of short notes. The renderer draws the name
// in a central circle and places the notes on concentric rings around it,
// twelve per ring, with a spoke from the centre to each of the first 25.
//
// # Architecture
//
// The data flow for one render:
//
//	record (store, file or HTTP body)
//	         ↓
//	    [mindmap] translate the record into a render config
//	         ↓
//	    [layout] place every note on the rings
//	         ↓
//	    [render] draw the PNG, or [render/nodelink] export DOT/SVG
//	         ↓
//	    PNG/SVG/DOT/PDF output
//
// [pipeline] runs these stages for the CLI and the HTTP API alike.
//
// # Quick Start
//
//	cfg, _ := mindmap.Translate(`{"name":"Plan","nodes":{"ND-1":{"nodetext":"ship"}}}`)
//	png, _ := render.New().Render(context.Background(), cfg)
//
// # Packages
//
// Core: [layout] (ring geometry), [textwrap] (line breaking), [fonts]
// (embedded typeface), [render] (raster drawing and colours), [mindmap]
// (records and render configs).
//
// Services: [store] (memory, file, SQLite, Redis and MongoDB backends),
// [notes] (map and note editing), [pipeline] (layout and render runs),
// [recordio] (record files and artifacts), [help] (command lookup).
//
// Support: [errors] (coded errors), [observability] (hooks),
// [buildinfo] (version stamping).
package pkg
