package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Object represents a COS value
type Object interface {
	Type() ObjectType
	String() string
}

// Container is implemented by the composite values (Array, Dict and *Stream).
// Leaf values have no children and nothing to replace; use the package level
// Children and ReplaceRefs functions to treat every Object uniformly.
type Container interface {
	Object

	// Children returns the immediate child values.
	Children() []Object

	// ReplaceRefs replaces every direct child that is an IndirectRef with
	// the value returned by lookup, and recurses into every other child that
	// is itself a Container. Each container is visited once per call, so
	// values that already hold a cycle are safe to pass. It fails with a
	// *DanglingReferenceError when lookup does not know a referenced
	// identity.
	ReplaceRefs(lookup RefLookup) error
}

// RefLookup maps an object identity to its value.
type RefLookup func(ref IndirectRef) (Object, bool)

// ObjectType represents the type of COS value
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

// String returns the string representation of the object type
func (t ObjectType) String() string {
	switch t {
	case ObjNull:
		return "Null"
	case ObjBool:
		return "Bool"
	case ObjInt:
		return "Int"
	case ObjReal:
		return "Real"
	case ObjString:
		return "String"
	case ObjName:
		return "Name"
	case ObjArray:
		return "Array"
	case ObjDict:
		return "Dict"
	case ObjStream:
		return "Stream"
	case ObjIndirect:
		return "IndirectRef"
	default:
		return "Unknown"
	}
}

// Children returns the immediate children of obj, or nil for leaf values.
func Children(obj Object) []Object {
	if c, ok := obj.(Container); ok {
		return c.Children()
	}
	return nil
}

// ReplaceRefs applies Container.ReplaceRefs to obj. Leaf values are left
// untouched.
func ReplaceRefs(obj Object, lookup RefLookup) error {
	if c, ok := obj.(Container); ok {
		return c.ReplaceRefs(lookup)
	}
	return nil
}

// visitSet records the containers already walked by one ReplaceRefs call.
type visitSet map[uintptr]bool

// enter reports whether obj has not been walked yet, marking it walked.
func (s visitSet) enter(obj Object) bool {
	id, ok := Identity(obj)
	if !ok {
		return true
	}
	if s[id] {
		return false
	}
	s[id] = true
	return true
}

// replaceIn replaces references below c unless c was already walked.
func replaceIn(c Container, lookup RefLookup, seen visitSet) error {
	if !seen.enter(c) {
		return nil
	}
	switch v := c.(type) {
	case Array:
		return v.replaceRefs(lookup, seen)
	case Dict:
		return v.replaceRefs(lookup, seen)
	case *Stream:
		return v.replaceRefs(lookup, seen)
	}
	return c.ReplaceRefs(lookup)
}

// replaceChild returns the value that should occupy a child slot holding
// child after reference replacement.
func replaceChild(child Object, lookup RefLookup, seen visitSet) (Object, error) {
	switch v := child.(type) {
	case IndirectRef:
		target, ok := lookup(v)
		if !ok {
			return nil, &DanglingReferenceError{Ref: v}
		}
		return target, nil
	case Container:
		if err := replaceIn(v, lookup, seen); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// Null represents the COS null object
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }

// Bool represents a COS boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents an integer number
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// Number returns the numeric value of obj as a float64 if obj is an Int or
// a Real.
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// String represents a COS string. The value holds the decoded bytes; both the
// literal and the hexadecimal syntax produce the same representation. See
// Encoding and Text for interpreting the bytes as text.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }

// Bytes returns the raw bytes of the string.
func (s String) Bytes() []byte { return []byte(s) }

// Name represents a COS name. The value is the label without the leading
// slash and with #XX escapes already decoded.
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Array represents a COS array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string   { return formatObject(a) }

// Children returns the elements of the array.
func (a Array) Children() []Object {
	return a
}

// ReplaceRefs replaces reference elements in place. Since the backing store
// is shared, every holder of this array observes the replacement.
func (a Array) ReplaceRefs(lookup RefLookup) error {
	return replaceIn(a, lookup, visitSet{})
}

func (a Array) replaceRefs(lookup RefLookup, seen visitSet) error {
	for i, elem := range a {
		v, err := replaceChild(elem, lookup, seen)
		if err != nil {
			return fmt.Errorf("array element %d: %w", i, err)
		}
		a[i] = v
	}
	return nil
}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetInt retrieves an integer at the given index
func (a Array) GetInt(index int) (Int, bool) {
	i, ok := a.Get(index).(Int)
	return i, ok
}

// GetReal retrieves a real number at the given index
func (a Array) GetReal(index int) (Real, bool) {
	r, ok := a.Get(index).(Real)
	return r, ok
}

// GetName retrieves a name at the given index
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// GetDict retrieves a dictionary at the given index
func (a Array) GetDict(index int) (Dict, bool) {
	d, ok := a.Get(index).(Dict)
	return d, ok
}

// Dict represents a COS dictionary. Keys are name labels without the leading
// slash. When a dictionary literal repeats a key, the last occurrence wins.
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }
func (d Dict) String() string   { return formatObject(d) }

// Children returns the dictionary values in key order.
func (d Dict) Children() []Object {
	children := make([]Object, 0, len(d))
	for _, k := range d.Keys() {
		children = append(children, d[k])
	}
	return children
}

// ReplaceRefs replaces reference values in place.
func (d Dict) ReplaceRefs(lookup RefLookup) error {
	return replaceIn(d, lookup, visitSet{})
}

func (d Dict) replaceRefs(lookup RefLookup, seen visitSet) error {
	for _, k := range d.Keys() {
		v, err := replaceChild(d[k], lookup, seen)
		if err != nil {
			return fmt.Errorf("key /%s: %w", k, err)
		}
		d[k] = v
	}
	return nil
}

// Get retrieves a value from the dictionary
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	name, ok := d[key].(Name)
	return name, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d[key].(Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	arr, ok := d[key].(Array)
	return arr, ok
}

// GetReal retrieves a real number value
func (d Dict) GetReal(key string) (Real, bool) {
	r, ok := d[key].(Real)
	return r, ok
}

// GetString retrieves a string value
func (d Dict) GetString(key string) (String, bool) {
	s, ok := d[key].(String)
	return s, ok
}

// GetBool retrieves a boolean value
func (d Dict) GetBool(key string) (Bool, bool) {
	b, ok := d[key].(Bool)
	return b, ok
}

// GetStream retrieves a stream value
func (d Dict) GetStream(key string) (*Stream, bool) {
	s, ok := d[key].(*Stream)
	return s, ok
}

// GetIndirectRef retrieves an indirect reference
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	ref, ok := d[key].(IndirectRef)
	return ref, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set sets a value in the dictionary
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Keys returns all keys in the dictionary in sorted order
func (d Dict) Keys() []string {
	keys := maps.Keys(d)
	slices.Sort(keys)
	return keys
}

// Stream represents a COS stream: a dictionary plus the raw, undecoded
// payload. Use Decode to apply the declared filters.
type Stream struct {
	Dict Dict
	Data []byte

	// LengthTrusted is set when the payload was delimited by the dictionary's
	// Length entry rather than by scanning for the endstream keyword.
	LengthTrusted bool
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// Children returns the stream dictionary.
func (s *Stream) Children() []Object {
	return []Object{s.Dict}
}

// ReplaceRefs replaces references inside the stream dictionary.
func (s *Stream) ReplaceRefs(lookup RefLookup) error {
	return replaceIn(s, lookup, visitSet{})
}

func (s *Stream) replaceRefs(lookup RefLookup, seen visitSet) error {
	if err := replaceIn(s.Dict, lookup, seen); err != nil {
		return fmt.Errorf("stream dictionary: %w", err)
	}
	return nil
}

// IndirectRef represents an indirect object reference. It is a placeholder
// that the resolver replaces with the referenced value.
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// IndirectObject represents an indirect object with its reference
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
}

// Identity returns a key that is equal for two composite values exactly when
// they share the same underlying storage. It returns false for leaf values
// and for empty arrays, which carry no identity.
func Identity(obj Object) (uintptr, bool) {
	switch v := obj.(type) {
	case Dict:
		if v == nil {
			return 0, false
		}
		return reflect.ValueOf(v).Pointer(), true
	case Array:
		if len(v) == 0 {
			return 0, false
		}
		return reflect.ValueOf(v).Pointer(), true
	case *Stream:
		if v == nil {
			return 0, false
		}
		return reflect.ValueOf(v).Pointer(), true
	}
	return 0, false
}

// SameObject reports whether a and b are the same composite instance.
func SameObject(a, b Object) bool {
	ia, ok := Identity(a)
	if !ok {
		return false
	}
	ib, ok := Identity(b)
	return ok && ia == ib
}

// formatObject renders obj in COS syntax. A container that is reached again
// while it is still being rendered prints as an elided marker, so cyclic
// graphs produced by the resolver render in finite time.
func formatObject(obj Object) string {
	var b strings.Builder
	p := printer{w: &b, active: make(map[uintptr]bool)}
	p.write(obj)
	return b.String()
}

// FormatFunc renders obj in COS syntax. For every composite child, substitute
// is consulted first; when it returns true the returned text is written in
// place of the child.
func FormatFunc(obj Object, substitute func(Object) (string, bool)) string {
	var b strings.Builder
	p := printer{w: &b, active: make(map[uintptr]bool), substitute: substitute}
	p.write(obj)
	return b.String()
}

type printer struct {
	w          *strings.Builder
	active     map[uintptr]bool
	substitute func(Object) (string, bool)
	depth      int
}

func (p *printer) write(obj Object) {
	if p.depth > 0 && p.substitute != nil {
		if s, ok := p.substitute(obj); ok {
			p.w.WriteString(s)
			return
		}
	}
	id, hasID := Identity(obj)
	if hasID {
		if p.active[id] {
			switch obj.(type) {
			case Array:
				p.w.WriteString("[...]")
			default:
				p.w.WriteString("<<...>>")
			}
			return
		}
		p.active[id] = true
		defer delete(p.active, id)
	}
	p.depth++
	defer func() { p.depth-- }()

	switch v := obj.(type) {
	case nil:
		p.w.WriteString("null")
	case String:
		p.w.WriteString(formatString(v))
	case Name:
		p.w.WriteString(formatName(v))
	case Array:
		p.w.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				p.w.WriteByte(' ')
			}
			p.write(elem)
		}
		p.w.WriteByte(']')
	case Dict:
		p.w.WriteString("<<")
		for i, k := range v.Keys() {
			if i > 0 {
				p.w.WriteByte(' ')
			}
			p.w.WriteString(formatName(Name(k)))
			p.w.WriteByte(' ')
			p.write(v[k])
		}
		p.w.WriteString(">>")
	case *Stream:
		p.write(v.Dict)
		fmt.Fprintf(p.w, " stream (%d bytes)", len(v.Data))
	default:
		p.w.WriteString(obj.String())
	}
}

// formatString renders s as a literal string when it is printable ASCII, and
// as a hexadecimal string otherwise.
func formatString(s String) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 && c != '\n' && c != '\r' && c != '\t') || c > 0x7E {
			return fmt.Sprintf("<%X>", []byte(s))
		}
	}
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// formatName renders n with a leading slash, escaping every byte that would
// end or alter the name as #XX.
func formatName(n Name) string {
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if !isRegular(c) || c == '#' {
			fmt.Fprintf(&b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
