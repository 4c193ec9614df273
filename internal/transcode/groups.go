package transcode

import (
	"strconv"

	"github.com/hxzbg/fguiexport/internal/model"
)

const generatedGroupPrefix = "group_generated_"

// Group is a coordinate frame registered while walking a Group node.
// Parent is the enclosing group id, not the visual parent.
type Group struct {
	ID     string
	X, Y   int
	Parent string
}

// offset sums the local offsets of id and every group enclosing it.
func (c *Context) offset(id string) (x, y int) {
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		g, ok := c.groups[id]
		if !ok {
			break
		}
		x += g.X
		y += g.Y
		id = g.Parent
	}
	return x, y
}

// groupID returns the node's id, synthesizing and writing back
// group_generated_<n> when it is missing or already taken.
func (c *Context) groupID(n model.Node) string {
	id, _ := n.Attr("id")
	if id != "" && c.groups[id] == nil {
		return id
	}
	for i := 1; ; i++ {
		candidate := generatedGroupPrefix + strconv.Itoa(i)
		if c.groups[candidate] == nil {
			n.SetAttr("id", candidate)
			c.tr.recorder.GroupGenerated()
			return candidate
		}
	}
}

// enterGroup registers n as a group under the current one and makes it
// current. The returned function restores the previous group.
func (c *Context) enterGroup(n model.Node) (string, func()) {
	id := c.groupID(n)
	c.groups[id] = &Group{
		ID:     id,
		X:      propInt(n, "x", ""),
		Y:      propInt(n, "y", ""),
		Parent: c.current,
	}
	prev := c.current
	c.current = id
	return id, func() { c.current = prev }
}
