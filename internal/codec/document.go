// Package codec serializes mind map trees to and from documents. JSON is the
// on-disk format; XML and YAML renditions of the same schema are supported
// for import and export.
//
//	{
//	  "nodes": [
//	    { "text": "...", "x": 400, "y": 300, "color": "lightblue",
//	      "children": [ ... ] }
//	  ]
//	}
package codec

import (
	"encoding/xml"
	"errors"
)

var (
	// ErrCorruptDocument is returned when a document cannot be parsed or lacks required fields.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrIOFailure is returned when a document file cannot be read or written.
	ErrIOFailure = errors.New("i/o failure")
)

// Document is the top-level document. The schema admits several top-level
// roots; trees built from it require exactly one.
type Document struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"mindmap"`
	Nodes   []Record `json:"nodes" yaml:"nodes" xml:"node"`
}

// Record is the serialized form of one node and its subtree. Required fields
// are pointers so that absent values can be told apart from zero values.
type Record struct {
	Text     *string  `json:"text" yaml:"text" xml:"text,attr"`
	X        *float64 `json:"x" yaml:"x" xml:"x,attr"`
	Y        *float64 `json:"y" yaml:"y" xml:"y,attr"`
	Color    *string  `json:"color,omitempty" yaml:"color,omitempty" xml:"color,attr,omitempty"`
	Children []Record `json:"children" yaml:"children" xml:"node"`
}
