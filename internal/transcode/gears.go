package transcode

import (
	"strconv"
	"strings"

	"github.com/hxzbg/fguiexport/internal/model"
	"github.com/hxzbg/fguiexport/internal/xmlbuild"
)

type gearParam struct {
	key string
	def string
	// resolve replaces the attribute table entry when set.
	resolve resolver
}

type gearKind struct {
	tag    string
	params []gearParam
}

var gearKinds = []gearKind{
	{tag: "gearXY", params: []gearParam{{key: "xy", def: "0,0"}}},
	{tag: "gearSize", params: []gearParam{{key: "size", def: "0,0"}, {key: "scale", def: "1,1"}}},
	{tag: "gearColor", params: []gearParam{{key: "color", def: "#ffffff"}}},
	{tag: "gearLook", params: []gearParam{
		{key: "alpha", def: "1"},
		{key: "rotation", def: "0"},
		{key: "grayed", def: "0"},
		{key: "touchable", def: "0", resolve: lookTouchable},
	}},
}

// lookTouchable encodes touchEnabled as a gearLook flag.
func lookTouchable(c *Context, n model.Node, state string) string {
	if propBool(n, "touchEnabled", state) {
		return "1"
	}
	return ""
}

// hasGears reports whether n takes part in gear synthesis at all.
func (c *Context) hasGears(n model.Node) bool {
	if len(c.states.Pages(DefaultController)) == 0 {
		return false
	}
	return n.HasMultipleStates() || declared(n, "includeIn", "") || declared(n, "excludeFrom", "")
}

// gears synthesizes the gear elements of n. Nothing is produced for nodes
// whose tuples never diverge from their defaults.
func (c *Context) gears(n model.Node, r *Rule) []*xmlbuild.Element {
	if !c.hasGears(n) {
		return nil
	}

	var out []*xmlbuild.Element
	if display, ok := c.gearDisplay(n); ok {
		out = append(out, display)
	}

	for _, kind := range gearKinds {
		def := c.gearTuple(n, r, kind, "")
		blocks := 0
		for _, controller := range c.states.Controllers() {
			var pages, values []string
			for i, page := range c.states.Pages(controller) {
				v := c.gearTuple(n, r, kind, page)
				if v != def {
					pages = append(pages, strconv.Itoa(i+1))
					values = append(values, v)
				}
			}
			if len(pages) == 0 {
				continue
			}

			tag := kind.tag
			if blocks > 0 {
				tag += strconv.Itoa(blocks)
			}
			blocks++
			out = append(out, xmlbuild.New(tag).
				Set("controller", controller).
				Set("pages", strings.Join(pages, ",")).
				Set("values", strings.Join(values, "|")).
				Set("default", def))
		}
	}
	return out
}

// gearDisplay lists the default-controller pages n is visible on.
func (c *Context) gearDisplay(n model.Node) (*xmlbuild.Element, bool) {
	pages := c.states.Pages(DefaultController)
	var visible []string

	if include := propString(n, "includeIn", ""); include != "" {
		for _, name := range splitList(include) {
			if i := c.states.PageIndex(DefaultController, name); i > 0 {
				visible = append(visible, strconv.Itoa(i))
			}
		}
	} else if exclude := propString(n, "excludeFrom", ""); exclude != "" {
		excluded := make(map[string]bool)
		for _, name := range splitList(exclude) {
			excluded[name] = true
		}
		for i, name := range pages {
			if !excluded[name] {
				visible = append(visible, strconv.Itoa(i+1))
			}
		}
	} else {
		return nil, false
	}

	return xmlbuild.New("gearDisplay").
		Set("controller", DefaultController).
		SetEmpty("pages", strings.Join(visible, ",")), true
}

// gearTuple joins the values of one gear kind, substituting defaults for
// empty attributes.
func (c *Context) gearTuple(n model.Node, r *Rule, kind gearKind, state string) string {
	parts := make([]string, len(kind.params))
	for i, p := range kind.params {
		var v string
		if p.resolve != nil {
			v = p.resolve(c, n, state)
		} else {
			v = c.attr(r, p.key, n, state)
		}
		if v == "" {
			v = p.def
		}
		parts[i] = v
	}
	return strings.Join(parts, ",")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
