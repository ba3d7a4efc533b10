// Package diagram provides the serialization format for computed metro
// layouts.
//
// This package defines the canonical wire format handed to rendering
// consumers and used for JSON files, API responses, caching and storage.
// It sits at the boundary between the internal layout representation
// (pkg/metro, pointer-linked and optimized for computation) and external
// formats.
//
// All coordinates in a serialized layout are absolute and final: the
// consumer renders directly, with no further layout computation.
//
// Common operations:
//
//	wire := diagram.Export(layout)            // metro.Layout → Layout
//	data, _ := diagram.MarshalLayout(wire)    // Layout → []byte
//	parsed, _ := diagram.UnmarshalLayout(data)
//	diagram.WriteLayoutFile(wire, "out.json")
package diagram
