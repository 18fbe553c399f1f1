package filters

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnsupportedFilter is matched by every *UnsupportedFilterError.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// UnsupportedFilterError reports a filter name with no registered decoder.
type UnsupportedFilterError struct {
	Name string
}

func (e *UnsupportedFilterError) Error() string {
	return fmt.Sprintf("unsupported filter: %s", e.Name)
}

func (e *UnsupportedFilterError) Unwrap() error { return ErrUnsupportedFilter }

// Params represents decode parameters from stream dictionaries.
// Common parameters include Predictor, Columns, Colors, and BitsPerComponent.
type Params map[string]interface{}

// Func decodes data with one filter.
type Func func(data []byte, params Params) ([]byte, error)

// Registry maps filter names to decoders. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]Func)}
}

// Default holds the standard filters.
var Default = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FlateDecode, "FlateDecode", "Fl")
	r.Register(func(data []byte, _ Params) ([]byte, error) { return ASCIIHexDecode(data) }, "ASCIIHexDecode", "AHx")
	r.Register(func(data []byte, _ Params) ([]byte, error) { return ASCII85Decode(data) }, "ASCII85Decode", "A85")
	r.Register(func(data []byte, _ Params) ([]byte, error) { return RunLengthDecode(data) }, "RunLengthDecode", "RL")
	r.Register(CCITTFaxDecode, "CCITTFaxDecode", "CCF")
	// image codecs are decoded by image consumers, not here
	r.Register(passThrough, "DCTDecode", "DCT", "JPXDecode")
	return r
}

func passThrough(data []byte, _ Params) ([]byte, error) {
	return data, nil
}

// Register binds fn to every name in names, replacing earlier bindings.
func (r *Registry) Register(fn Func, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.filters[name] = fn
	}
}

// Lookup returns the decoder registered for name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.filters[name]
	return fn, ok
}

// Names returns the registered filter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := maps.Keys(r.filters)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Decode applies the filter called name to data.
func (r *Registry) Decode(name string, data []byte, params Params) ([]byte, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, &UnsupportedFilterError{Name: name}
	}
	return fn(data, params)
}
