// Package document defines the persisted layout format.
//
// A [Layout] is a flat list of field records, one per field, each carrying
// the field ID, its normalized width and x, and its vertical offset y:
//
//	{
//	  "version": 1,
//	  "key": "dashboard",
//	  "fields": [
//	    {"id": "name", "width": 0.5, "x": 0, "y": 0},
//	    {"id": "email", "width": 0.5, "x": 0.5, "y": 0}
//	  ]
//	}
//
// The same record is used for JSON files, YAML files, cache entries and
// MongoDB documents, so it carries json, yaml and bson tags. Floats are
// written in their shortest round-tripping form, so serializing and parsing
// a layout reproduces every coordinate bit for bit.
//
// # Files
//
// [WriteFile] and [ReadFile] choose the encoding from the file extension
// (".yaml"/".yml" for YAML, anything else for JSON). [Watch] re-reads a file
// whenever it changes on disk.
package document
