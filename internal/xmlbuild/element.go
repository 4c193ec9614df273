// Package xmlbuild assembles small XML documents element by element.
//
// Attribute order is insertion order and values are always escaped. Empty
// values are dropped by Set, which is how optional FairyGUI attributes are
// omitted. Rendering indents with tabs and self-closes childless elements.
package xmlbuild

import (
	"io"
	"strings"
)

// Declaration is written before the root element of every document.
const Declaration = `<?xml version="1.0" encoding="utf-8"?>`

type attr struct {
	key, value string
}

// Element is one XML element under construction.
type Element struct {
	Tag      string
	attrs    []attr
	children []*Element
}

// New creates an element.
func New(tag string) *Element {
	return &Element{Tag: tag}
}

// Set assigns an attribute, replacing an existing value in place. Empty
// values are ignored.
func (e *Element) Set(key, value string) *Element {
	if value == "" {
		return e
	}
	for i := range e.attrs {
		if e.attrs[i].key == key {
			e.attrs[i].value = value
			return e
		}
	}
	e.attrs = append(e.attrs, attr{key: key, value: value})
	return e
}

// SetEmpty assigns an attribute even when value is empty.
func (e *Element) SetEmpty(key, value string) *Element {
	if value != "" {
		return e.Set(key, value)
	}
	for i := range e.attrs {
		if e.attrs[i].key == key {
			e.attrs[i].value = ""
			return e
		}
	}
	e.attrs = append(e.attrs, attr{key: key})
	return e
}

// Attr returns an attribute value.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.attrs {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}


// Append adds children at the end. Nil children are skipped.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.children = append(e.children, c)
		}
	}
	return e
}

// Prepend inserts children before the existing ones.
func (e *Element) Prepend(children ...*Element) *Element {
	head := make([]*Element, 0, len(children)+len(e.children))
	for _, c := range children {
		if c != nil {
			head = append(head, c)
		}
	}
	e.children = append(head, e.children...)
	return e
}

// Children returns the child elements.
func (e *Element) Children() []*Element { return e.children }

// Find returns the first child with the given tag.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// String renders the element at depth zero.
func (e *Element) String() string {
	var b strings.Builder
	e.render(&b, 0)
	return b.String()
}

// WriteTo renders the element to w.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.String())
	return int64(n), err
}

func (e *Element) render(b *strings.Builder, depth int) {
	indent := strings.Repeat("\t", depth)
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a.key)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.value))
		b.WriteByte('"')
	}
	if len(e.children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	for _, c := range e.children {
		c.render(b, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">\n")
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#xA;",
	"\r", "&#xD;",
	"\t", "&#x9;",
)

// Document renders root preceded by the XML declaration.
func Document(root *Element) string {
	return Declaration + "\n" + root.String()
}
