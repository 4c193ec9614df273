package transcode

import (
	"github.com/hxzbg/fguiexport/internal/model"
	"github.com/hxzbg/fguiexport/internal/xmlbuild"
)

const defaultKey = "default"

// Rule is the emission behaviour of one node type.
type Rule struct {
	Tag func(n model.Node) string
	// Overrides replace attribute table entries; a nil resolver suppresses
	// the attribute.
	Overrides map[string]resolver
	// Pre runs before the node's own tag and returns elements emitted ahead
	// of it as siblings.
	Pre func(c *Context, n model.Node) []*xmlbuild.Element
	// Post fills the node's element after its attributes are set.
	Post func(c *Context, n model.Node, el *xmlbuild.Element)
}

// Registry maps (prefix, type) to rules with a per-prefix default.
type Registry struct {
	rules map[string]map[string]*Rule
}

// NewRegistry returns the closed rule table.
func NewRegistry() *Registry {
	custom := &Rule{Tag: literal("component"), Post: postGears}
	list := &Rule{Tag: literal("list"), Post: postList}
	toggle := &Rule{Tag: literal("component"), Post: postToggle}

	return &Registry{rules: map[string]map[string]*Rule{
		model.CustomPrefix: {
			defaultKey: custom,
		},
		defaultKey: {
			"Skin": {Tag: literal("component"), Pre: preSkin, Post: postSkin},
			"Group": {
				Tag: literal("group"),
				Overrides: map[string]resolver{
					"advanced": func(*Context, model.Node, string) string { return "true" },
				},
				Pre:  preGroup,
				Post: postGears,
			},
			"List":        list,
			"TabBar":      list,
			"Scroller":    list,
			"CheckBox":    toggle,
			"RadioButton": toggle,
			defaultKey:    {Tag: genericTag, Post: postGeneric},
		},
	}}
}

// Lookup returns the rule for n. Only the root may act as a Skin; nested
// skins are emitted as custom components.
func (r *Registry) Lookup(n model.Node) *Rule {
	prefix := n.Prefix()
	if prefix != model.CustomPrefix {
		prefix = defaultKey
	}
	if prefix == defaultKey && n.Name() == "Skin" && n.Parent() != nil {
		return r.rules[model.CustomPrefix][defaultKey]
	}

	table := r.rules[prefix]
	if rule, ok := table[n.Name()]; ok {
		return rule
	}
	return table[defaultKey]
}

func literal(tag string) func(model.Node) string {
	return func(model.Node) string { return tag }
}

var genericTags = map[string]string{
	"Image":        "image",
	"Label":        "text",
	"BitmapLabel":  "text",
	"EditableText": "text",
	"Rect":         "graph",
	"Ellipse":      "graph",
}

func genericTag(n model.Node) string {
	if tag, ok := genericTags[n.Name()]; ok {
		return tag
	}
	return n.Name()
}

func preSkin(c *Context, n model.Node) []*xmlbuild.Element {
	if states := splitList(propString(n, "states", "")); len(states) > 0 {
		c.states.Add(DefaultController, states)
	}
	return nil
}

// postSkin builds the display list first; controllers synthesized on the way
// are then declared ahead of it.
func postSkin(c *Context, n model.Node, el *xmlbuild.Element) {
	el.Append(xmlbuild.New("displayList").Append(c.buildChildren(n)...))
	names := c.states.Controllers()
	controllers := make([]*xmlbuild.Element, len(names))
	for i, name := range names {
		controllers[i] = xmlbuild.New("controller").
			Set("name", name).
			SetEmpty("pages", c.states.PagesAttr(name)).
			Set("selected", "0")
	}
	el.Prepend(controllers...)
}

// preGroup emits the group's members ahead of its own tag.
func preGroup(c *Context, n model.Node) []*xmlbuild.Element {
	_, leave := c.enterGroup(n)
	defer leave()
	return c.buildChildren(n)
}

func postGears(c *Context, n model.Node, el *xmlbuild.Element) {
	el.Append(c.gears(n, c.tr.registry.Lookup(n))...)
}

func postToggle(c *Context, n model.Node, el *xmlbuild.Element) {
	mode := "Check"
	if n.Name() == "RadioButton" {
		mode = "Radio"
	}
	button := xmlbuild.New("Button").
		Set("mode", mode).
		Set("title", propString(n, "label", ""))
	if propBool(n, "selected", "") {
		button.Set("selected", "true")
	}
	el.Append(button)
	postGears(c, n, el)
}

func postGeneric(c *Context, n model.Node, el *xmlbuild.Element) {
	postGears(c, n, el)
	el.Append(c.buildChildren(n)...)
}
