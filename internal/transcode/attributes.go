package transcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hxzbg/fguiexport/internal/model"
	"github.com/hxzbg/fguiexport/internal/pkgindex"
	"github.com/hxzbg/fguiexport/internal/xmlbuild"
)

// resolver computes one output attribute for a node under a page. An empty
// result omits the attribute.
type resolver func(c *Context, n model.Node, state string) string

type attribute struct {
	key     string
	resolve resolver
}

// attributes is the emission order of every output tag.
var attributes []attribute

// attributeIndex maps keys to resolvers for gear evaluation.
var attributeIndex map[string]resolver

func init() {
	attributes = []attribute{
		{"xy", resolveXY},
		{"size", resolveSize},
		{"id", func(c *Context, n model.Node, state string) string { return propString(n, "id", state) }},
		{"name", resolveName},
		{"group", func(c *Context, n model.Node, state string) string { return c.current }},
		{"visible", resolveVisible},
		{"color", textColor("textColor")},
		{"strokeColor", textColor("strokeColor")},
		{"type", resolveType},
		{"corner", resolveCorner},
		{"src", func(c *Context, n model.Node, state string) string { return c.resolve(n, state).res }},
		{"pkg", func(c *Context, n model.Node, state string) string { return c.resolve(n, state).pkg }},
		{"fileName", func(c *Context, n model.Node, state string) string { return c.resolve(n, state).fileName }},
		{"font", resolveFont},
		{"bold", boolAttr("bold")},
		{"text", func(c *Context, n model.Node, state string) string { return propString(n, "text", state) }},
		{"value", intAttr("value")},
		{"alpha", resolveAlpha},
		{"italic", boolAttr("italic")},
		{"fontSize", intAttr("size")},
		{"stroke", intAttr("stroke")},
		{"textAlign", func(c *Context, n model.Node, state string) string { return propString(n, "textAlign", state) }},
		{"vAlign", func(c *Context, n model.Node, state string) string { return propString(n, "verticalAlign", state) }},
		{"minimum", intAttr("minimum")},
		{"maximum", intAttr("maximum")},
		{"rotation", intAttr("rotation")},
		{"touchable", resolveTouchable},
		{"letterSpacing", intAttr("letterSpacing")},
		{"leading", intAttr("lineSpacing")},
		{"skew", resolveSkew},
		{"scale", resolveScale},
		{"advanced", func(c *Context, n model.Node, state string) string { return "" }},
		{"restrictSize", resolveRestrictSize},
		{"pivot", resolvePivot},
		{"anchor", func(c *Context, n model.Node, state string) string {
			if resolvePivot(c, n, state) != "" {
				return "true"
			}
			return ""
		}},
		{"fillColor", shapeColor("fillColor", "fillAlpha")},
		{"lineColor", shapeColor("strokeColor", "strokeAlpha")},
		{"lineSize", resolveLineSize},
		{"scale9grid", resolveScale9Grid},
		{"grayed", func(c *Context, n model.Node, state string) string { return "" }},
	}

	attributeIndex = make(map[string]resolver, len(attributes))
	for _, a := range attributes {
		attributeIndex[a.key] = a.resolve
	}
}

// applyAttributes sets every non-empty attribute on el, honouring the
// rule's overrides.
func (c *Context) applyAttributes(el *xmlbuild.Element, n model.Node, r *Rule) {
	for _, a := range attributes {
		el.Set(a.key, c.attr(r, a.key, n, ""))
	}
}

// attr evaluates one attribute through the rule's override when present.
func (c *Context) attr(r *Rule, key string, n model.Node, state string) string {
	if r != nil {
		if fn, ok := r.Overrides[key]; ok {
			if fn == nil {
				return ""
			}
			return fn(c, n, state)
		}
	}
	if fn, ok := attributeIndex[key]; ok {
		return fn(c, n, state)
	}
	return ""
}

func resolveXY(c *Context, n model.Node, state string) string {
	x := propInt(n, "x", state)
	y := propInt(n, "y", state)
	ox, oy := c.offset(c.current)
	return strconv.Itoa(x+ox) + "," + strconv.Itoa(y+oy)
}

func resolveSize(c *Context, n model.Node, state string) string {
	w := propInt(n, "width", state)
	h := propInt(n, "height", state)
	if w == 0 || h == 0 {
		return ""
	}
	return strconv.Itoa(w) + "," + strconv.Itoa(h)
}

// resolveName prefers the declared name, then the id, then the type.
func resolveName(c *Context, n model.Node, state string) string {
	if v := propString(n, "name", state); v != "" {
		return v
	}
	if v := propString(n, "id", state); v != "" {
		return v
	}
	return n.Name()
}

func resolveVisible(c *Context, n model.Node, state string) string {
	if strings.EqualFold(strings.TrimSpace(propString(n, "visible", state)), "false") {
		return "false"
	}
	return ""
}

func isText(n model.Node) bool {
	if model.IsCustom(n) {
		return false
	}
	switch n.Name() {
	case "Label", "BitmapLabel", "EditableText":
		return true
	}
	return false
}

func isShape(n model.Node) bool {
	if model.IsCustom(n) {
		return false
	}
	switch n.Name() {
	case "Rect", "Ellipse":
		return true
	}
	return false
}

func textColor(key string) resolver {
	return func(c *Context, n model.Node, state string) string {
		if !isText(n) {
			return ""
		}
		return normalizeColor(propString(n, key, state))
	}
}

func resolveType(c *Context, n model.Node, state string) string {
	if model.IsCustom(n) {
		return ""
	}
	switch n.Name() {
	case "Rect":
		return "rect"
	case "Ellipse":
		return "eclipse"
	}
	return ""
}

func resolveCorner(c *Context, n model.Node, state string) string {
	if model.IsCustom(n) || n.Name() != "Rect" {
		return ""
	}
	if v := propInt(n, "ellipseWidth", state); v != 0 {
		return strconv.Itoa(v)
	}
	return intOrEmpty(propInt(n, "ellipseHeight", state))
}

// resolveFont maps a BitmapLabel font to its ui:// font resource and passes
// any other fontFamily through.
func resolveFont(c *Context, n model.Node, state string) string {
	if model.IsCustom(n) || n.Name() != "BitmapLabel" {
		return propString(n, "fontFamily", state)
	}
	font := propString(n, "font", state)
	if font == "" {
		return ""
	}
	for _, key := range []string{font, strings.TrimSuffix(font, "_fnt"), pkgindex.ComponentKey(font)} {
		if pkg, res, ok := c.tr.resources.Lookup(key, pkgindex.KindFont); ok {
			return pkg.URL(res)
		}
	}
	c.missing(pkgindex.KindFont, font)
	return ""
}

func boolAttr(key string) resolver {
	return func(c *Context, n model.Node, state string) string {
		if propBool(n, key, state) {
			return "true"
		}
		return ""
	}
}

func intAttr(key string) resolver {
	return func(c *Context, n model.Node, state string) string {
		return intOrEmpty(propInt(n, key, state))
	}
}

// resolveAlpha emits alpha only where the source declares it, so a
// declared 0 survives.
func resolveAlpha(c *Context, n model.Node, state string) string {
	if !declared(n, "alpha", state) {
		return ""
	}
	return formatFloat(propFloat(n, "alpha", state))
}

func resolveTouchable(c *Context, n model.Node, state string) string {
	if strings.EqualFold(strings.TrimSpace(propString(n, "touchEnabled", state)), "false") {
		return "false"
	}
	return ""
}

func resolveSkew(c *Context, n model.Node, state string) string {
	x := propInt(n, "skewX", state)
	y := propInt(n, "skewY", state)
	if x == 0 && y == 0 {
		return ""
	}
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

func resolveScale(c *Context, n model.Node, state string) string {
	x := propFloatOr(n, "scaleX", state, 1)
	y := propFloatOr(n, "scaleY", state, 1)
	if x == 1 && y == 1 {
		return ""
	}
	return formatFloat(x) + "," + formatFloat(y)
}

func resolveRestrictSize(c *Context, n model.Node, state string) string {
	minW := propInt(n, "minWidth", state)
	maxW := propInt(n, "maxWidth", state)
	minH := propInt(n, "minHeight", state)
	maxH := propInt(n, "maxHeight", state)
	if minW == 0 && maxW == 0 && minH == 0 && maxH == 0 {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d,%d", minW, maxW, minH, maxH)
}

// resolvePivot converts the anchor offset into a size-relative pivot.
func resolvePivot(c *Context, n model.Node, state string) string {
	ax := propInt(n, "anchorOffsetX", state)
	ay := propInt(n, "anchorOffsetY", state)
	if ax == 0 && ay == 0 {
		return ""
	}
	w := propInt(n, "width", state)
	h := propInt(n, "height", state)
	if w <= 0 || h <= 0 {
		return ""
	}
	return fmt.Sprintf("%.3f,%.3f", float64(ax)/float64(w), float64(ay)/float64(h))
}

// shapeColor composites a graph color with its alpha, which defaults to
// fully opaque.
func shapeColor(colorKey, alphaKey string) resolver {
	return func(c *Context, n model.Node, state string) string {
		if !isShape(n) {
			return ""
		}
		return compositeColor(propString(n, colorKey, state), propFloatOr(n, alphaKey, state, 1))
	}
}

func resolveLineSize(c *Context, n model.Node, state string) string {
	if !isShape(n) {
		return ""
	}
	return intOrEmpty(propInt(n, "strokeWeight", state))
}

// resolveScale9Grid copies an Image's 9-slice grid onto its target package
// entry. It never produces an attribute.
func resolveScale9Grid(c *Context, n model.Node, state string) string {
	if model.IsCustom(n) || n.Name() != "Image" || state != "" {
		return ""
	}
	source := propString(n, "source", state)
	grid := propString(n, "scale9Grid", state)
	if source == "" || grid == "" {
		return ""
	}
	if !c.resolve(n, state).ok {
		return ""
	}
	c.tr.resources.SetScale9Grid(c.imageKey(source), grid)
	return ""
}
