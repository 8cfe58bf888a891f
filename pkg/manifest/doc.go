// Package manifest reads Carton.toml files.
//
// Parsing is strict about structure but forgiving about unknown keys: any
// key present in the document but absent from the schema is collected as a
// dotted path (array indices as bare integers) so callers can warn the user
// without failing the build.
//
// A Cache deduplicates parse work per package directory; entries are shared
// and read-only after insertion.
package manifest
