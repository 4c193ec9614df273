package exml

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/antchfx/xmlquery"

	"github.com/hxzbg/fguiexport/internal/model"
)

// ErrNoRoot is returned for documents without a root element.
var ErrNoRoot = errors.New("exml: document has no root element")

// xmlquery reports a well-formed document without elements with this message.
const emptyDocument = "xmlquery: invalid XML document"

// Document is one parsed EXML file.
type Document struct {
	Path string
	// Class is the root's class attribute, e.g. "skins.ButtonSkin".
	Class string
	Root  *Node
}

// Option configures parsing.
type Option func(*parser)

// WithSizer supplies intrinsic image sizes for Instance lookups.
func WithSizer(s Sizer) Option {
	return func(p *parser) { p.sizer = s }
}

type parser struct {
	sizer Sizer
}

// Parse reads an EXML document.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	p := &parser{}
	for _, opt := range opts {
		opt(p)
	}

	doc, err := xmlquery.Parse(r)
	if err != nil {
		if err.Error() == emptyDocument {
			return nil, ErrNoRoot
		}
		return nil, fmt.Errorf("exml: parse: %w", err)
	}

	rootEl := firstElement(doc)
	if rootEl == nil {
		return nil, ErrNoRoot
	}

	root := p.build(rootEl, nil)
	class, _ := root.Attr("class")
	return &Document{Class: class, Root: root}, nil
}

// ParseFile reads an EXML document from disk.
func ParseFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exml: open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

func (p *parser) build(el *xmlquery.Node, parent *Node) *Node {
	n := &Node{
		name:   el.Data,
		prefix: el.Prefix,
		parent: parent,
		attrs:  convertAttrs(el.Attr),
		sizer:  p.sizer,
	}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		n.elements = append(n.elements, convertElement(c))
		if isDisplayChild(c.Prefix, c.Data) {
			n.children = append(n.children, p.build(c, n))
		}
	}
	return n
}

func convertElement(el *xmlquery.Node) *model.Element {
	out := &model.Element{
		Prefix: el.Prefix,
		Name:   el.Data,
		Attrs:  convertAttrs(el.Attr),
	}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out.Children = append(out.Children, convertElement(c))
		}
	}
	return out
}

// convertAttrs drops namespace declarations and keeps document order.
func convertAttrs(attrs []xmlquery.Attr) []model.Attr {
	out := make([]model.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		key := a.Name.Local
		if a.Name.Space != "" {
			key = a.Name.Space + ":" + key
		}
		out = append(out, model.Attr{Key: key, Value: a.Value})
	}
	return out
}

func firstElement(doc *xmlquery.Node) *xmlquery.Node {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}
