package schema

import "github.com/wippyai/protowire/wire"

// FieldDecl declares one field of a record shape.
//
// Number zero means "assign automatically": unnumbered fields receive
// ascending numbers starting at 1 in declaration order, skipping any
// number another field claimed explicitly.
type FieldDecl struct {
	Default     any
	Name        string
	MessageType string
	Number      wire.FieldNumber
	Kind        Kind
	Repeated    bool
	Packed      bool
	Required    bool
}

// Descriptor describes a record shape for registration: an ordered set of
// field declarations under a shape name. Descriptors typically come from
// a code generator or are written by hand.
type Descriptor struct {
	Name   string
	Fields []FieldDecl
}

// Options is an explicit metadata override for one shape: a wire-number
// assignment table, the required-field set and a default-value table.
// Every table is optional; names that match no declared field are
// rejected at registration. Options are usually hand-written in TOML and
// loaded with LoadOptions.
type Options struct {
	Numbers  map[string]wire.FieldNumber
	Defaults map[string]any
	Required []string
}
