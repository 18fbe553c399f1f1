package resolver

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/tsawler/pdfcos/core"
)

func ref(num int) core.IndirectRef {
	return core.IndirectRef{Number: num, Generation: 0}
}

func mustParse(t *testing.T, src string) core.Object {
	t.Helper()
	obj, err := core.ParseObject([]byte(src))
	if err != nil {
		t.Fatalf("ParseObject(%q) failed: %v", src, err)
	}
	return obj
}

// parseTable parses each source into an object table keyed by object number.
func parseTable(t *testing.T, sources map[int]string) map[core.IndirectRef]core.Object {
	t.Helper()
	table := make(map[core.IndirectRef]core.Object, len(sources))
	for num, src := range sources {
		table[ref(num)] = mustParse(t, src)
	}
	return table
}

// TestResolveSharing tests that two referrers share one target instance
func TestResolveSharing(t *testing.T) {
	table := parseTable(t, map[int]string{
		1: "<</Type /Catalog>>",
		2: "<</Owner 1 0 R>>",
		3: "[ 1 0 R 7 ]",
	})

	g, err := Resolve(table)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	catalog, err := g.Lookup(ref(1))
	if err != nil {
		t.Fatalf("Lookup(1) failed: %v", err)
	}
	two, _ := g.Lookup(ref(2))
	three, _ := g.Lookup(ref(3))

	owner := two.(core.Dict).Get("Owner")
	first := three.(core.Array).Get(0)

	if !core.SameObject(owner, catalog) {
		t.Error("object 2 should hold the catalog instance itself")
	}
	if !core.SameObject(owner, first) {
		t.Error("objects 2 and 3 should hold the same instance")
	}
	if v, _ := three.(core.Array).GetInt(1); v != 7 {
		t.Errorf("non-reference element changed: %v", three)
	}
}

// TestResolveCycle tests that self-referential objects resolve
func TestResolveCycle(t *testing.T) {
	table := parseTable(t, map[int]string{
		1: "<</Type /Pages /Kids [2 0 R]>>",
		2: "<</Type /Page /Parent 1 0 R>>",
		3: "<</Self 3 0 R>>",
	})

	g, err := Resolve(table)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	pages, _ := g.Lookup(ref(1))
	page, _ := g.Lookup(ref(2))
	kids, _ := pages.(core.Dict).GetArray("Kids")
	if !core.SameObject(kids.Get(0), page) {
		t.Error("Kids[0] should be object 2")
	}
	if !core.SameObject(page.(core.Dict).Get("Parent"), pages) {
		t.Error("Parent should be object 1")
	}

	self, _ := g.Lookup(ref(3))
	if !core.SameObject(self.(core.Dict).Get("Self"), self) {
		t.Error("object 3 should contain itself")
	}

	// rendering terminates on the cyclic graph
	if s := pages.String(); !strings.Contains(s, "<<...>>") {
		t.Errorf("String() = %q, want an elided cycle", s)
	}
}

// TestResolveDangling tests that a missing target aborts resolution
func TestResolveDangling(t *testing.T) {
	table := parseTable(t, map[int]string{
		1: "<</Type /Catalog /Pages 2 0 R>>",
		3: "<</A [ 1 0 R 9 0 R ]>>",
	})

	g, err := Resolve(table)
	if g != nil {
		t.Error("no graph should be returned on error")
	}
	var de *core.DanglingReferenceError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *core.DanglingReferenceError", err)
	}
	// objects are resolved in order, so object 1 reports first
	if de.Ref != ref(2) {
		t.Errorf("Ref = %v, want 2 0 R", de.Ref)
	}
	if !errors.Is(err, core.ErrDanglingReference) {
		t.Error("error should match core.ErrDanglingReference")
	}
	if !strings.Contains(err.Error(), "2 0 R") {
		t.Errorf("message %q should name the missing object", err.Error())
	}
}

// TestResolveDanglingLeavesTable tests that a failed resolution rewrites
// nothing
func TestResolveDanglingLeavesTable(t *testing.T) {
	table := parseTable(t, map[int]string{
		1: "<</Type /Catalog /Pages 2 0 R>>",
		2: "<</Type /Pages /Kids [1 0 R]>>",
		3: "<</A [1 0 R 9 0 R]>>",
	})

	if _, err := Resolve(table); !errors.Is(err, core.ErrDanglingReference) {
		t.Fatalf("error = %v, want ErrDanglingReference", err)
	}
	if got := table[ref(1)].(core.Dict).Get("Pages"); got != ref(2) {
		t.Errorf("Pages = %v, want the 2 0 R placeholder", got)
	}
	if got := table[ref(3)].(core.Dict).Get("A").(core.Array)[0]; got != ref(1) {
		t.Errorf("A[0] = %v, want the 1 0 R placeholder", got)
	}
}

// TestResolveStream tests references inside a stream dictionary
func TestResolveStream(t *testing.T) {
	table := parseTable(t, map[int]string{
		4: "<</Length 5 0 R>>stream\nHello\nendstream",
		5: "5",
	})

	g, err := Resolve(table)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	obj, _ := g.Lookup(ref(4))
	s, ok := obj.(*core.Stream)
	if !ok {
		t.Fatalf("object 4 = %T, want *core.Stream", obj)
	}
	if v, _ := s.Dict.GetInt("Length"); v != 5 {
		t.Errorf("Length = %v, want 5", s.Dict.Get("Length"))
	}
	if string(s.Data) != "Hello" {
		t.Errorf("Data = %q", s.Data)
	}
}

// TestResolveTopLevelReference tests objects whose content is a reference
func TestResolveTopLevelReference(t *testing.T) {
	table := parseTable(t, map[int]string{
		1: "2 0 R",
		2: "3 0 R",
		3: "<</Type /Font>>",
		4: "[1 0 R]",
	})

	g, err := Resolve(table)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	font, _ := g.Lookup(ref(3))
	for _, num := range []int{1, 2} {
		obj, _ := g.Lookup(ref(num))
		if !core.SameObject(obj, font) {
			t.Errorf("object %d = %v, want object 3", num, obj)
		}
	}
	arr, _ := g.Lookup(ref(4))
	if !core.SameObject(arr.(core.Array).Get(0), font) {
		t.Error("reference to a chained object should reach the end of the chain")
	}
}

// TestResolveReferenceLoop tests chains of top-level references that loop
func TestResolveReferenceLoop(t *testing.T) {
	tests := []struct {
		name    string
		sources map[int]string
	}{
		{"self", map[int]string{1: "1 0 R"}},
		{"pair", map[int]string{1: "2 0 R", 2: "1 0 R"}},
		{"tail", map[int]string{1: "2 0 R", 2: "3 0 R", 3: "2 0 R"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(parseTable(t, tt.sources))
			if !errors.Is(err, core.ErrReferenceCycle) {
				t.Errorf("error = %v, want core.ErrReferenceCycle", err)
			}
		})
	}
}

// TestResolveChainDangling tests a top-level reference to a missing object
func TestResolveChainDangling(t *testing.T) {
	_, err := Resolve(parseTable(t, map[int]string{1: "2 0 R"}))
	var de *core.DanglingReferenceError
	if !errors.As(err, &de) || de.Ref != ref(2) {
		t.Errorf("error = %v, want dangling 2 0 R", err)
	}
}

// TestResolveGenerations tests that the generation is part of the identity
func TestResolveGenerations(t *testing.T) {
	table := map[core.IndirectRef]core.Object{
		{Number: 1, Generation: 0}: mustParse(t, "<</Next 2 1 R>>"),
		{Number: 2, Generation: 0}: core.Int(0),
		{Number: 2, Generation: 1}: core.Int(1),
	}
	g, err := Resolve(table)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	obj, _ := g.Lookup(ref(1))
	if v, _ := obj.(core.Dict).GetInt("Next"); v != 1 {
		t.Errorf("Next = %v, want the generation 1 object", obj.(core.Dict).Get("Next"))
	}
}

// TestGraphAccessors tests the query methods of a Graph
func TestGraphAccessors(t *testing.T) {
	table := parseTable(t, map[int]string{
		10: "(ten)",
		2:  "<</Kid 10 0 R>>",
		7:  "[2 0 R]",
	})
	g, err := Resolve(table)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	refs := g.Refs()
	want := []core.IndirectRef{ref(2), ref(7), ref(10)}
	if len(refs) != len(want) {
		t.Fatalf("Refs() = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("Refs()[%d] = %v, want %v", i, refs[i], want[i])
		}
	}

	if _, ok := g.Get(ref(99)); ok {
		t.Error("Get(99) should report absence")
	}
	if _, err := g.Lookup(ref(99)); !errors.Is(err, core.ErrDanglingReference) {
		t.Errorf("Lookup(99) error = %v, want ErrDanglingReference", err)
	}

	two, _ := g.Lookup(ref(2))
	if r, ok := g.RefOf(two); !ok || r != ref(2) {
		t.Errorf("RefOf(object 2) = %v, %v", r, ok)
	}
	if _, ok := g.RefOf(core.Dict{}); ok {
		t.Error("RefOf should not know an unrelated dictionary")
	}
	if _, ok := g.RefOf(core.String("ten")); ok {
		t.Error("leaf values carry no identity")
	}
}

// TestGraphResolve tests binding an outside value such as a trailer
func TestGraphResolve(t *testing.T) {
	g, err := Resolve(parseTable(t, map[int]string{1: "<</Type /Catalog>>"}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	catalog, _ := g.Lookup(ref(1))

	trailer := mustParse(t, "<</Size 2 /Root 1 0 R>>")
	obj, err := g.Resolve(trailer)
	if err != nil {
		t.Fatalf("Graph.Resolve failed: %v", err)
	}
	if !core.SameObject(obj.(core.Dict).Get("Root"), catalog) {
		t.Error("Root should be the catalog")
	}

	direct, err := g.Resolve(ref(1))
	if err != nil || !core.SameObject(direct, catalog) {
		t.Errorf("Graph.Resolve(1 0 R) = %v, %v", direct, err)
	}

	if _, err := g.Resolve(mustParse(t, "[5 0 R]")); !errors.Is(err, core.ErrDanglingReference) {
		t.Errorf("error = %v, want ErrDanglingReference", err)
	}
}

// TestGraphResolveCyclic tests binding values that are part of a cycle
func TestGraphResolveCyclic(t *testing.T) {
	table := parseTable(t, map[int]string{
		1: "<</Next 2 0 R>>",
		2: "<</Next 1 0 R>>",
	})
	g, err := Resolve(table)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	one, _ := g.Lookup(ref(1))
	two, _ := g.Lookup(ref(2))

	obj, err := g.Resolve(one)
	if err != nil {
		t.Fatalf("Graph.Resolve failed: %v", err)
	}
	if !core.SameObject(obj, one) || !core.SameObject(one.(core.Dict).Get("Next"), two) {
		t.Error("resolving a resolved value should leave it unchanged")
	}

	trailer := mustParse(t, "<</Root 1 0 R /Extra [2 0 R]>>")
	if _, err := g.Resolve(trailer); err != nil {
		t.Fatalf("Graph.Resolve(trailer) failed: %v", err)
	}

	// the table now holds the resolved values
	again, err := Resolve(table)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if v, _ := again.Lookup(ref(2)); !core.SameObject(v.(core.Dict).Get("Next"), one) {
		t.Error("second Resolve should keep the shared values")
	}
}

// TestGraphFormat tests rendering with shared objects printed as references
func TestGraphFormat(t *testing.T) {
	g, err := Resolve(parseTable(t, map[int]string{
		1: "<</Type /Pages /Kids [2 0 R] /Count 1>>",
		2: "<</Type /Page /Parent 1 0 R /MediaBox [0 0 612 792]>>",
	}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	pages, _ := g.Lookup(ref(1))
	if got, want := g.Format(pages), "<</Count 1 /Kids [2 0 R] /Type /Pages>>"; got != want {
		t.Errorf("Format(1) = %q, want %q", got, want)
	}
	page, _ := g.Lookup(ref(2))
	if got, want := g.Format(page), "<</MediaBox [0 0 612 792] /Parent 1 0 R /Type /Page>>"; got != want {
		t.Errorf("Format(2) = %q, want %q", got, want)
	}
}

// TestResolveLogger tests that progress is logged to the given logger
func TestResolveLogger(t *testing.T) {
	var buf bytes.Buffer
	_, err := Resolve(parseTable(t, map[int]string{1: "null"}), WithLogger(log.New(&buf, "", 0)))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !strings.Contains(buf.String(), "resolved 1 objects") {
		t.Errorf("log = %q", buf.String())
	}
}
