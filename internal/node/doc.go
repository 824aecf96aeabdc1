// Package node models Figma design nodes and reduces them to the compact
// form that is embedded in a critique prompt.
//
// [Decode] is the deserialization boundary: it parses a [RawNode] tree and
// rejects malformed or overly deep input. [Project] then produces a
// [ProjectedNode] tree with exactly the same shape, keeping only the id,
// name, type, bounding box, fills and, for TEXT nodes, characters and text
// style. Attributes the source lacked stay absent; the one exception is the
// sub-fields of the bounding box and style records, which are always present
// and hold an unset [Opt] (rendered as null) when the source had no value.
//
// [Encode] renders a projected tree as JSON or YAML.
package node
