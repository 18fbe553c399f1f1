// Package core provides the COS value model of PDF files and the parser that
// decodes it from raw bytes.
//
// # Object Types
//
// Every value satisfies the [Object] interface:
//
//   - [Null] - the null object
//   - [Bool] - true or false
//   - [Int] - integers
//   - [Real] - real numbers
//   - [String] - literal "(...)" or hexadecimal "<...>" strings, stored decoded
//   - [Name] - names such as /Type, with #XX escapes decoded
//   - [Array] - ordered sequences of values
//   - [Dict] - maps from name labels to values
//   - [Stream] - a dictionary plus a raw payload
//   - [IndirectRef] - a "num gen R" placeholder for an indirect object
//
// [Array], [Dict] and [*Stream] implement [Container]: they enumerate their
// children and replace reference placeholders in place. Because arrays and
// dictionaries are reference types, a replaced child is shared by every
// holder of it, and [SameObject] reports whether two values are one instance.
//
// # Parsing
//
// [Decode] reads one value from the front of a buffer and returns the rest;
// [ParseObject] requires the buffer to hold exactly one value. A [Parser]
// reads consecutive values or "num gen obj ... endobj" definitions from one
// buffer.
//
// Parsing tries a fixed list of decoders at the current offset and keeps the
// first that succeeds. A reference is tried before a number and a stream
// before a dictionary. Nesting is bounded by [Limits].
//
// # Errors
//
// Grammar failures are [*SyntaxError] values carrying an offset and one of
// the error kinds, for example [ErrMalformedString]; use errors.Is to test
// the kind.
//
// # Stream Decoding
//
// [Stream.Decode] applies the stream's Filter entry, which may name one
// filter or an array of them. FlateDecode, ASCIIHexDecode, ASCII85Decode,
// RunLengthDecode and CCITTFaxDecode are supported; other filters fail with
// [ErrUnsupportedFilter].
package core
