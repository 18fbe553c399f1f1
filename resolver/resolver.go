package resolver

import (
	"fmt"
	"io"
	"log"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tsawler/pdfcos/core"
)

// Option configures Resolve
type Option func(*config)

type config struct {
	logger *log.Logger
}

// WithLogger sets the logger that receives progress messages. By default
// nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Graph is a fully resolved object table. Every reference placeholder in
// the table has been replaced by the value it names, so values reachable
// from several objects are shared and the graph may contain cycles.
type Graph struct {
	objects map[core.IndirectRef]core.Object

	// owners maps the identity of a composite top-level value back to the
	// object that defines it.
	owners map[uintptr]core.IndirectRef
	logger *log.Logger
}

// Resolve replaces every reference in table with the value it names.
//
// Each value in table must be an independently parsed tree; the trees are
// rewritten in place. An object whose whole content is a reference is bound
// to the value at the end of the chain; a chain that returns to an object
// already on it fails with core.ErrReferenceCycle.
//
// The first reference to an object missing from table aborts resolution
// with a *core.DanglingReferenceError. References are checked before any
// tree is rewritten, so on error table is left as it was given.
func Resolve(table map[core.IndirectRef]core.Object, opts ...Option) (*Graph, error) {
	cfg := config{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Graph{
		objects: make(map[core.IndirectRef]core.Object, len(table)),
		owners:  make(map[uintptr]core.IndirectRef, len(table)),
		logger:  cfg.logger,
	}

	refs := sortedRefs(table)
	for _, ref := range refs {
		obj := table[ref]
		if target, ok := obj.(core.IndirectRef); ok {
			resolved, err := follow(table, ref, target)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", ref, err)
			}
			obj = resolved
		} else if id, ok := core.Identity(obj); ok {
			if _, seen := g.owners[id]; !seen {
				g.owners[id] = ref
			}
		}
		g.objects[ref] = obj
	}

	lookup := func(ref core.IndirectRef) (core.Object, bool) {
		obj, ok := g.objects[ref]
		return obj, ok
	}

	seen := make(map[uintptr]bool, len(table))
	for _, ref := range refs {
		if err := checkRefs(table[ref], lookup, seen); err != nil {
			return nil, fmt.Errorf("object %s: %w", ref, err)
		}
	}

	replaced := make(map[uintptr]bool, len(table))
	for _, ref := range refs {
		obj := table[ref]
		if _, ok := obj.(core.IndirectRef); ok {
			continue
		}
		id, ok := core.Identity(obj)
		if !ok {
			continue
		}
		if replaced[id] {
			continue
		}
		replaced[id] = true
		if err := core.ReplaceRefs(obj, lookup); err != nil {
			return nil, fmt.Errorf("object %s: %w", ref, err)
		}
	}

	g.logger.Printf("resolved %d objects", len(g.objects))
	return g, nil
}

// checkRefs reports the first reference below obj that lookup does not
// know, without modifying anything. Containers in seen are skipped.
func checkRefs(obj core.Object, lookup core.RefLookup, seen map[uintptr]bool) error {
	if id, ok := core.Identity(obj); ok {
		if seen[id] {
			return nil
		}
		seen[id] = true
	}
	for _, child := range core.Children(obj) {
		if ref, ok := child.(core.IndirectRef); ok {
			if _, ok := lookup(ref); !ok {
				return &core.DanglingReferenceError{Ref: ref}
			}
			continue
		}
		if err := checkRefs(child, lookup, seen); err != nil {
			return err
		}
	}
	return nil
}

// follow walks a chain of top-level references starting at ref, whose
// content is the reference next.
func follow(table map[core.IndirectRef]core.Object, ref, next core.IndirectRef) (core.Object, error) {
	visited := map[core.IndirectRef]bool{ref: true}
	for {
		if visited[next] {
			return nil, fmt.Errorf("%w: %s refers back to itself", core.ErrReferenceCycle, next)
		}
		visited[next] = true
		obj, ok := table[next]
		if !ok {
			return nil, &core.DanglingReferenceError{Ref: next}
		}
		r, isRef := obj.(core.IndirectRef)
		if !isRef {
			return obj, nil
		}
		next = r
	}
}

func sortedRefs(table map[core.IndirectRef]core.Object) []core.IndirectRef {
	refs := maps.Keys(table)
	slices.SortFunc(refs, func(a, b core.IndirectRef) bool {
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.Generation < b.Generation
	})
	return refs
}

// Lookup returns the resolved value of the object ref.
func (g *Graph) Lookup(ref core.IndirectRef) (core.Object, error) {
	obj, ok := g.objects[ref]
	if !ok {
		return nil, &core.DanglingReferenceError{Ref: ref}
	}
	return obj, nil
}

// Get is like Lookup but reports absence with a boolean.
func (g *Graph) Get(ref core.IndirectRef) (core.Object, bool) {
	obj, ok := g.objects[ref]
	return obj, ok
}

// Len returns the number of objects in the graph.
func (g *Graph) Len() int {
	return len(g.objects)
}

// Refs returns the identities of all objects, ordered by object number and
// then generation.
func (g *Graph) Refs() []core.IndirectRef {
	return sortedRefs(g.objects)
}

// RefOf returns the identity of the object whose top-level value is obj.
func (g *Graph) RefOf(obj core.Object) (core.IndirectRef, bool) {
	id, ok := core.Identity(obj)
	if !ok {
		return core.IndirectRef{}, false
	}
	ref, ok := g.owners[id]
	return ref, ok
}

// Resolve binds a value from outside the table, such as a trailer
// dictionary, to the graph. A reference is replaced by its target; the
// references inside a container are replaced in place.
func (g *Graph) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return g.Lookup(ref)
	}
	if err := core.ReplaceRefs(obj, g.Get); err != nil {
		return nil, err
	}
	return obj, nil
}

// Format renders obj in COS syntax. Nested values that are the top-level
// value of some object print as a "num gen R" reference to it, which keeps
// the output finite for cyclic graphs.
func (g *Graph) Format(obj core.Object) string {
	return core.FormatFunc(obj, func(child core.Object) (string, bool) {
		ref, ok := g.RefOf(child)
		if !ok {
			return "", false
		}
		return ref.String(), true
	})
}
