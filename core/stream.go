package core

import (
	"fmt"

	"github.com/tsawler/pdfcos/internal/filters"
)

// Decode decodes the stream data according to the Filter(s) specified in the
// stream dictionary, using the standard filter registry. Without a Filter
// entry the raw data is returned unchanged. Filters without a decoder yield
// an error matching ErrUnsupportedFilter.
func (s *Stream) Decode() ([]byte, error) {
	return s.DecodeWith(filters.Default)
}

// DecodeWith is like Decode but takes decoders from reg.
func (s *Stream) DecodeWith(reg *filters.Registry) ([]byte, error) {
	filterObj := s.Dict.Get("Filter")
	paramsObj := s.Dict.Get("DecodeParms")

	switch f := filterObj.(type) {
	case nil, Null:
		return s.Data, nil

	case Name:
		return reg.Decode(string(f), s.Data, dictToParams(paramsObj))

	case Array:
		// A chain of filters, applied in order. DecodeParms is either an
		// array matching the filters or one dictionary for all of them.
		data := s.Data
		for i, filter := range f {
			filterName, ok := filter.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, filter)
			}
			params := paramsObj
			if paramsArray, ok := paramsObj.(Array); ok {
				params = paramsArray.Get(i)
			}
			var err error
			data, err = reg.Decode(string(filterName), data, dictToParams(params))
			if err != nil {
				return nil, fmt.Errorf("filter %d (%s) failed: %w", i, filterName, err)
			}
		}
		return data, nil
	}

	return nil, fmt.Errorf("invalid Filter type: %T", filterObj)
}

// Filters returns the names of the filters declared by the stream, in the
// order they are applied.
func (s *Stream) Filters() []string {
	switch f := s.Dict.Get("Filter").(type) {
	case Name:
		return []string{string(f)}
	case Array:
		names := make([]string, 0, len(f))
		for _, elem := range f {
			if n, ok := elem.(Name); ok {
				names = append(names, string(n))
			}
		}
		return names
	}
	return nil
}

// dictToParams converts a DecodeParms dictionary to filters.Params,
// translating COS values to Go primitives (Int->int, Real->float64, etc.).
// Anything other than a dictionary yields no parameters.
func dictToParams(obj Object) filters.Params {
	dict, ok := obj.(Dict)
	if !ok {
		return nil
	}

	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
