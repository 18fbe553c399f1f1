// Package resolver binds the indirect references of a parsed object table to
// the objects they name.
//
// PDF files refer to objects stored elsewhere in the file with indirect
// references (e.g., "5 0 R"). The parser leaves these as core.IndirectRef
// placeholders. Resolve replaces each placeholder with the value of the
// referenced object:
//
//	g, err := resolver.Resolve(table)
//	catalog, err := g.Lookup(core.IndirectRef{Number: 1})
//
// # Sharing and Cycles
//
// A placeholder is replaced by the referenced value itself, not by a copy.
// Every object referring to the same target observes one shared instance,
// and an object that refers back to itself yields a cyclic graph. Use
// core.SameObject to compare instances, and Graph.Format to print a value
// with shared objects written back as references.
//
// # Errors
//
// A reference to an object missing from the table aborts resolution with a
// *core.DanglingReferenceError; no partially resolved graph is returned.
package resolver
