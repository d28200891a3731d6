// Package wiremap is a schema-driven marshaling engine. Given a declarative
// mapper describing a value's wire shape and an in-memory value, it produces
// a wire-format tree (JSON-compatible or XML-node shaped), and given a wire
// tree and a mapper it reconstructs the in-memory value.
//
// The engine operates purely over plain tree-shaped data: mappings
// (map[string]any), ordered lists ([]any) and scalars. A plain nil interface
// value means "absent"; the explicit wire null is the Null sentinel. Mappers
// and the Registry are immutable schema data, constructed once and read-only
// for the lifetime of every Serialize/Deserialize call, which makes a single
// Serializer safe for concurrent use.
package wiremap
