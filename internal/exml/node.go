package exml

import (
	"strings"

	"github.com/hxzbg/fguiexport/internal/model"
)

// Sizer reports the intrinsic pixel size of an image resource key.
type Sizer interface {
	Size(source string) (width, height int, ok bool)
}

// nonVisual lists element types that never appear on the display list.
var nonVisual = map[string]bool{
	"ArrayCollection":  true,
	"Array":            true,
	"Object":           true,
	"BasicLayout":      true,
	"HorizontalLayout": true,
	"VerticalLayout":   true,
	"TileLayout":       true,
	"Declarations":     true,
}

// Node is a parsed EXML element implementing model.Node.
type Node struct {
	name     string
	prefix   string
	parent   *Node
	attrs    []model.Attr
	children []*Node
	elements []*model.Element
	sizer    Sizer
}

var _ model.Node = (*Node)(nil)

func (n *Node) Name() string   { return n.name }
func (n *Node) Prefix() string { return n.prefix }

func (n *Node) Parent() model.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []model.Node {
	out := make([]model.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) Elements() []*model.Element { return n.elements }

// Attrs returns the attributes in document order.
func (n *Node) Attrs() []model.Attr { return n.attrs }

func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) SetAttr(key, value string) {
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, model.Attr{Key: key, Value: value})
}

func (n *Node) HasMultipleStates() bool {
	for _, a := range n.attrs {
		if _, state := model.SplitStateKey(a.Key); state != "" {
			return true
		}
	}
	return false
}

// Instance computes the runtime value of a numeric property the way the EUI
// layout would: declared values first, percentages against the parent, and
// the bitmap size for unsized images.
func (n *Node) Instance(key string) (float64, bool) {
	if raw, ok := n.Attr(key); ok && raw != "" {
		v, ok := model.ParseNumber(raw)
		if !ok {
			return 0, false
		}
		if !strings.HasSuffix(strings.TrimSpace(raw), "%") {
			return v, true
		}
		if n.parent == nil {
			return 0, false
		}
		pv, ok := n.parent.Instance(key)
		if !ok {
			return 0, false
		}
		return v * 0.01 * pv, true
	}

	if n.name == "Image" && n.sizer != nil && (key == "width" || key == "height") {
		source, _ := n.Attr("source")
		if source == "" {
			return 0, false
		}
		w, h, ok := n.sizer.Size(source)
		if !ok {
			return 0, false
		}
		if key == "width" {
			return float64(w), true
		}
		return float64(h), true
	}
	return 0, false
}

// isDisplayChild reports whether an element contributes to the display list.
// Property elements such as <e:layout> start with a lowercase letter.
func isDisplayChild(prefix, name string) bool {
	if name == "" || prefix == "w" || nonVisual[name] {
		return false
	}
	c := name[0]
	return c < 'a' || c > 'z'
}
