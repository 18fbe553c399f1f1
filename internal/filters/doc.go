// Package filters implements the stream filters of the container format and
// a registry that maps filter names to them.
//
// # Registry
//
// Streams name their filters with a Filter entry. [Default] knows the
// standard decoders and their abbreviations:
//
//	decoded, err := filters.Default.Decode("FlateDecode", data, params)
//
// A name without a registered decoder yields an [*UnsupportedFilterError],
// which matches [ErrUnsupportedFilter] with errors.Is. Applications can add
// decoders with [Registry.Register].
//
// # Supported Filters
//
//   - FlateDecode (Fl): zlib/deflate, with TIFF and PNG predictors
//   - ASCIIHexDecode (AHx)
//   - ASCII85Decode (A85)
//   - RunLengthDecode (RL)
//   - CCITTFaxDecode (CCF): Group 3 and Group 4 fax data
//   - DCTDecode (DCT), JPXDecode: image codecs, passed through unchanged
//
// # Decode Parameters
//
// Decoders accept a Params map built from the DecodeParms dictionary:
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	}
package filters
