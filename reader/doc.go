// Package reader splits a PDF file into its parts and builds the resolved
// object graph from them.
//
// # Opening PDF Files
//
// Use [Open] to read a PDF file, or [NewReader] with the file contents:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog, err := r.Catalog()
//
// The whole file is parsed up front: the header, every "num gen obj ...
// endobj" definition, the cross-reference sections and the trailer. Only
// then are references resolved. A file with a malformed object or a
// reference to a missing object fails to open.
//
// # Document Information
//
//   - Version() - PDF version from the header (e.g., 1.7)
//   - Trailer() - trailer dictionary, references resolved
//   - Catalog() - document catalog dictionary
//   - Info() - document info dictionary (metadata)
//   - NumObjects() - the trailer's Size entry
//
// # Object Access
//
//   - Lookup(ref) - resolved value of an object
//   - GetObject(objNum) - newest generation of an object number
//   - Objects() - all object identities in order
//   - Format(obj) - COS syntax with shared objects written as references
//
// # Incremental Updates
//
// Sections appended by incremental updates are read in file order. An
// object defined again replaces the earlier definition, and trailer entries
// of later sections override earlier ones. Cross-reference tables are kept
// as raw bytes; objects are located by scanning, not by offset.
package reader
