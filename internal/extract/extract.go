// Package extract provides uniform field extraction over the supported
// raw record encodings. Every implementation answers the same two
// queries; a missing field yields empty values, never an error.
package extract

// FieldSource is one parsed raw record. First returns the first value
// matching the specifier (or ""), All returns every match in document
// order (or nil). The specifier syntax is implementation-specific: a key
// path for JSON, an element name or capture-group pattern for XML, a
// tag+subfield code for MARC.
type FieldSource interface {
	First(spec string) string
	All(spec string) []string
}
