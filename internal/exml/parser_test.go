package exml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxzbg/fguiexport/internal/logging"
	"github.com/hxzbg/fguiexport/internal/model"
)

const listSkin = `<?xml version="1.0" encoding="utf-8"?>
<e:Skin class="skins.ListPanelSkin" width="400" height="300" states="up,down"
        xmlns:e="http://ns.egret.com/eui" xmlns:ns1="*" xmlns:w="http://ns.egret.com/wing">
	<w:Config id="16a2b3c4"/>
	<e:Group id="box" x="10" y="20" width="50%">
		<e:Image source="bg_png" width.down="40"/>
	</e:Group>
	<e:List itemRendererSkinName="ItemSkin">
		<e:layout>
			<e:VerticalLayout gap="4"/>
		</e:layout>
		<e:ArrayCollection>
			<e:Array>
				<e:Object label="one"/>
				<e:Object label="two"/>
			</e:Array>
		</e:ArrayCollection>
	</e:List>
	<ns1:Hero x="5"/>
</e:Skin>`

type fixedSizer struct{ w, h int }

func (s fixedSizer) Size(source string) (int, int, bool) {
	if source == "" {
		return 0, 0, false
	}
	return s.w, s.h, true
}

func TestParseTree(t *testing.T) {
	doc, err := Parse(strings.NewReader(listSkin))
	require.NoError(t, err)

	root := doc.Root
	assert.Equal(t, "skins.ListPanelSkin", doc.Class)
	assert.Equal(t, "Skin", root.Name())
	assert.Equal(t, "e", root.Prefix())
	assert.Nil(t, root.Parent())

	children := root.Children()
	require.Len(t, children, 3, "w:Config must not be a display child")
	assert.Equal(t, "Group", children[0].Name())
	assert.Equal(t, "List", children[1].Name())
	assert.Equal(t, "Hero", children[2].Name())
	assert.True(t, model.IsCustom(children[2]))

	list := children[1]
	assert.Empty(t, list.Children(), "layout and ArrayCollection are not display children")
	require.Len(t, list.Elements(), 2)
	assert.Equal(t, "layout", list.Elements()[0].Name)
	assert.Equal(t, "VerticalLayout", list.Elements()[0].Children[0].Name)

	for _, a := range root.Attrs() {
		assert.NotContains(t, a.Key, "xmlns")
	}
}

func TestNodeStates(t *testing.T) {
	doc, err := Parse(strings.NewReader(listSkin))
	require.NoError(t, err)

	group := doc.Root.Children()[0]
	image := group.Children()[0]

	assert.False(t, group.HasMultipleStates())
	assert.True(t, image.HasMultipleStates())

	v, ok := image.Attr("width.down")
	assert.True(t, ok)
	assert.Equal(t, "40", v)
}

func TestNodeInstance(t *testing.T) {
	doc, err := Parse(strings.NewReader(listSkin), WithSizer(fixedSizer{w: 64, h: 32}))
	require.NoError(t, err)

	root := doc.Root
	group := root.Children()[0]
	image := group.Children()[0]

	w, ok := root.Instance("width")
	assert.True(t, ok)
	assert.Equal(t, 400.0, w)

	w, ok = group.Instance("width")
	assert.True(t, ok)
	assert.Equal(t, 200.0, w, "50% of the parent's 400")

	_, ok = group.Instance("height")
	assert.False(t, ok)

	w, ok = image.Instance("width")
	assert.True(t, ok)
	assert.Equal(t, 64.0, w, "unsized images use the bitmap size")

	h, ok := image.Instance("height")
	assert.True(t, ok)
	assert.Equal(t, 32.0, h)
}

func TestSetAttr(t *testing.T) {
	doc, err := Parse(strings.NewReader(listSkin))
	require.NoError(t, err)

	group := doc.Root.Children()[0]
	group.SetAttr("id", "renamed")
	group.SetAttr("name", "fresh")

	v, _ := group.Attr("id")
	assert.Equal(t, "renamed", v)
	v, _ = group.Attr("name")
	assert.Equal(t, "fresh", v)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(`<?xml version="1.0"?>`))
	assert.ErrorIs(t, err, ErrNoRoot)

	_, err = Parse(strings.NewReader(`<?xml version="1.0"?><!-- only a comment -->`))
	assert.ErrorIs(t, err, ErrNoRoot)

	_, err = Parse(strings.NewReader(`<Skin width=`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRoot)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.exml"))
	assert.Error(t, err)
}

func TestBuildSkinIndex(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, class string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		body := `<e:Skin class="` + class + `" xmlns:e="http://ns.egret.com/eui"/>`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("a/ButtonSkin.exml", "skins.ButtonSkin")
	write("b/ItemSkin.EXML", "ItemSkin")
	write("z/Dup.exml", "skins.ButtonSkin")
	write("notes.txt", "ignored")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.exml"), []byte("<e:Skin"), 0o644))

	idx, err := BuildSkinIndex([]string{dir, filepath.Join(dir, "missing")}, ".exml", logging.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	p, ok := idx.Lookup("skins.ButtonSkin")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a", "ButtonSkin.exml"), p)

	p, ok = idx.Lookup("ItemSkin")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "b", "ItemSkin.EXML"), p)

	_, ok = idx.Lookup("Nope")
	assert.False(t, ok)
}
