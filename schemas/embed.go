// Package schemas holds the JSON Schemas of the files the builder reads and writes.
package schemas

import "embed"

// Files holds every *.schema.json in this directory
//
//go:embed *.schema.json
var Files embed.FS

const (
	// RenderInput describes the exported render input
	RenderInput = "render_input.schema.json"
	// Document describes a resume document file
	Document = "document.schema.json"
)
