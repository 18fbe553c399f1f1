package main

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdfcos/core"
	"github.com/tsawler/pdfcos/reader"
)

func anchor(ref core.IndirectRef) string {
	return fmt.Sprintf("obj-%d-%d", ref.Number, ref.Generation)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendText(n *html.Node, a atom.Atom, s string) *html.Node {
	e := element(a)
	e.AppendChild(text(s))
	n.AppendChild(e)
	return e
}

// outgoing returns the objects referenced from within obj, in the order
// they are first reached.
func outgoing(r *reader.Reader, obj core.Object) []core.IndirectRef {
	var refs []core.IndirectRef
	seen := make(map[uintptr]bool)
	var walk func(core.Object)
	walk = func(o core.Object) {
		for _, child := range core.Children(o) {
			if ref, ok := r.Graph().RefOf(child); ok {
				if id, _ := core.Identity(child); !seen[id] {
					seen[id] = true
					refs = append(refs, ref)
				}
				continue
			}
			if id, ok := core.Identity(child); ok {
				if seen[id] {
					continue
				}
				seen[id] = true
			}
			walk(child)
		}
	}
	walk(obj)
	return refs
}

// writeHTML writes every object of r as an HTML page in which each object
// links to the objects it references.
func writeHTML(w io.Writer, r *reader.Reader) error {
	root := element(atom.Html)
	head := element(atom.Head)
	appendText(head, atom.Title, "PDF "+r.Version().String())
	root.AppendChild(head)
	body := element(atom.Body)
	root.AppendChild(body)

	trailer := element(atom.Section, html.Attribute{Key: "id", Val: "trailer"})
	appendText(trailer, atom.H2, "trailer")
	appendText(trailer, atom.Pre, r.Format(r.Trailer()))
	appendLinks(trailer, r, r.Trailer())
	body.AppendChild(trailer)

	for _, ref := range r.Objects() {
		obj, err := r.Lookup(ref)
		if err != nil {
			return err
		}
		sec := element(atom.Section, html.Attribute{Key: "id", Val: anchor(ref)})
		appendText(sec, atom.H2, fmt.Sprintf("%d %d obj", ref.Number, ref.Generation))
		appendText(sec, atom.Pre, r.Format(obj))
		appendLinks(sec, r, obj)
		body.AppendChild(sec)
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)
	return html.Render(w, doc)
}

func appendLinks(sec *html.Node, r *reader.Reader, obj core.Object) {
	refs := outgoing(r, obj)
	if len(refs) == 0 {
		return
	}
	list := element(atom.Ul)
	for _, ref := range refs {
		item := element(atom.Li)
		appendText(item, atom.A, ref.String()).Attr = []html.Attribute{{Key: "href", Val: "#" + anchor(ref)}}
		list.AppendChild(item)
	}
	sec.AppendChild(list)
}
