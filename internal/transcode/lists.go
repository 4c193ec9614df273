package transcode

import (
	"github.com/hxzbg/fguiexport/internal/model"
	"github.com/hxzbg/fguiexport/internal/xmlbuild"
)

var listLayouts = map[string]string{
	"HorizontalLayout": "row",
	"VerticalLayout":   "column",
	"TileLayout":       "flow_hz",
}

// listSource returns the node carrying the list configuration. A Scroller
// delegates to its first List or TabBar child.
func listSource(n model.Node) model.Node {
	if n.Name() != "Scroller" {
		return n
	}
	for _, child := range n.Children() {
		switch child.Name() {
		case "List", "TabBar":
			return child
		}
	}
	return nil
}

func postList(c *Context, n model.Node, el *xmlbuild.Element) {
	src := listSource(n)
	if src == nil {
		postGears(c, n, el)
		return
	}

	if skin, ok := src.Attr("itemRendererSkinName"); ok {
		el.Set("defaultItem", c.skinURL(skin))
	}
	if layout := findElement(src.Elements(), "layout"); layout != nil && len(layout.Children) > 0 {
		el.Set("layout", listLayouts[layout.Children[0].Name])
	}

	items := listItems(src)
	if src.Name() == "TabBar" {
		id, _ := src.Attr("id")
		name := c.states.UnusedName(id)
		c.states.Add(name, make([]string, len(items)))
		el.Set("selectionController", name)
	}

	postGears(c, n, el)
	for _, item := range items {
		out := xmlbuild.New("item")
		for _, a := range item.Attrs {
			out.Append(xmlbuild.New("property").
				Set("target", a.Key).
				Set("propertyId", "0").
				SetEmpty("value", a.Value))
		}
		el.Append(out)
	}
}

// listItems returns the entries of the list's ArrayCollection, declared
// directly or inside a dataProvider property.
func listItems(n model.Node) []*model.Element {
	collection := findElement(n.Elements(), "ArrayCollection")
	if collection == nil {
		if provider := findElement(n.Elements(), "dataProvider"); provider != nil {
			collection = provider.Find("ArrayCollection")
		}
	}
	if collection == nil {
		return nil
	}

	arrays := collection.Children
	if source := collection.Find("source"); source != nil {
		arrays = source.Children
	}
	var items []*model.Element
	for _, array := range arrays {
		if array.Name == "Array" {
			items = append(items, array.Children...)
		}
	}
	return items
}

func findElement(elements []*model.Element, name string) *model.Element {
	for _, e := range elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}
