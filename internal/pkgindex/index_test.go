package pkgindex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxzbg/fguiexport/internal/shared/id"
)

func writeDescriptor(t *testing.T, dir, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "package.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func descriptor(pkgID, resources string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<packageDescription id="` + pkgID + `">
  <resources>
` + resources + `
  </resources>
  <publish name=""/>
</packageDescription>`
}

func TestBuildIndexesManifests(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "Common"), descriptor("pkg00001", `
    <image id="img1" name="btn_ok.png" path="/buttons/"/>
    <image id="img2" name="panel.bg.png" path="/" scale9grid="4,4,8,8"/>
    <component id="cmp1" name="ButtonSkin.xml" path="/"/>
    <font id="fnt1" name="num.fnt" path="/fonts/"/>`))

	ix, err := Build(root)
	require.NoError(t, err)
	require.Len(t, ix.Packages(), 1)

	pkg, res, ok := ix.Lookup("btn_ok_png", KindImage)
	require.True(t, ok)
	assert.Equal(t, "pkg00001", pkg.ID)
	assert.Equal(t, "img1", res.ID)
	assert.Equal(t, "/buttons/btn_ok.png", res.FileName)
	assert.Equal(t, filepath.Join(root, "Common", "buttons", "btn_ok.png"), pkg.FilePath(res))

	_, res, ok = ix.Lookup("panel_bg.png", KindImage)
	require.True(t, ok, "only the first dot is replaced")
	assert.Equal(t, "4,4,8,8", res.Scale9Grid)

	_, res, ok = ix.Lookup("ButtonSkin", KindComponent)
	require.True(t, ok)
	assert.Equal(t, "cmp1", res.ID)

	pkg, res, ok = ix.Lookup("num_fnt", KindFont)
	require.True(t, ok)
	assert.Equal(t, "ui://pkg00001fnt1", pkg.URL(res))

	_, _, ok = ix.Lookup("btn_ok_png", KindComponent)
	assert.False(t, ok, "manifests are separate per kind")

	_, _, ok = ix.Lookup("", KindImage)
	assert.False(t, ok)
}

func TestSourceKey(t *testing.T) {
	assert.Equal(t, "btn_ok_png", SourceKey("btn_ok_png"))
	assert.Equal(t, "btn_ok_png", SourceKey("btn_ok.png"))
	assert.Equal(t, "btn_ok_png", SourceKey("resource/assets/btn_ok.png"))
	assert.Equal(t, "btn_ok_png", SourceKey(`assets\btn_ok.png`))
}

func TestLookupFirstIndexedWins(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "A"), descriptor("aaaa", `<image id="a1" name="btn_ok.png" path="/"/>`))
	writeDescriptor(t, filepath.Join(root, "B"), descriptor("bbbb", `<image id="b1" name="btn_ok.png" path="/"/>`))

	ix, err := Build(root)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		pkg, res, ok := ix.Lookup("btn_ok_png", KindImage)
		require.True(t, ok)
		assert.Equal(t, "aaaa", pkg.ID)
		assert.Equal(t, "a1", res.ID)
	}
}

func TestBuildSkipsMalformedDescriptors(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "NoID"), `<packageDescription><resources/></packageDescription>`)
	writeDescriptor(t, filepath.Join(root, "Broken"), `<packageDescription id="x"`)
	writeDescriptor(t, filepath.Join(root, "Good"), descriptor("good0001", ""))
	writeDescriptor(t, filepath.Join(root, "Zdup"), descriptor("good0001", ""))

	ix, err := Build(root)
	require.NoError(t, err)

	require.Len(t, ix.Packages(), 1)
	assert.Equal(t, "good0001", ix.Packages()[0].ID)
	assert.Len(t, ix.Skipped(), 3)
}

func TestBuildMissingRoot(t *testing.T) {
	ix, err := Build(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, ix.Packages())
}

func TestSetScale9GridAndFlush(t *testing.T) {
	root := t.TempDir()
	path := writeDescriptor(t, filepath.Join(root, "UI"), descriptor("ui000001", `
    <image id="i1" name="frame.png" path="/"/>
    <image id="i2" name="sliced.png" path="/" scale9grid="1,1,2,2"/>`))
	other := writeDescriptor(t, filepath.Join(root, "Other"), descriptor("ot000001", ""))
	before, err := os.ReadFile(other)
	require.NoError(t, err)

	ix, err := Build(root)
	require.NoError(t, err)

	assert.True(t, ix.SetScale9Grid("frame_png", "10,10,20,20"))
	assert.False(t, ix.SetScale9Grid("frame_png", "1,1,1,1"), "existing grids are kept")
	assert.False(t, ix.SetScale9Grid("sliced_png", "3,3,3,3"))
	assert.False(t, ix.SetScale9Grid("missing_png", "3,3,3,3"))
	assert.False(t, ix.SetScale9Grid("frame_png", ""))

	pkg, _ := ix.Get("ui000001")
	assert.True(t, pkg.Dirty())

	n, err := ix.Flush()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, pkg.Dirty())

	n, err = ix.Flush()
	require.NoError(t, err)
	assert.Zero(t, n, "clean packages are not rewritten")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, `<image id="i2" name="sliced.png" path="/" scale9grid="1,1,2,2"/>`)
	assert.Contains(t, text, `<publish name=""/>`)
	assert.NotContains(t, text, "</image>")
	assert.Contains(t, text, "\n    <image id=\"i1\"")

	doc, err := xmlquery.Parse(strings.NewReader(text))
	require.NoError(t, err)
	img := xmlquery.FindOne(doc, "//image[@id='i1']")
	require.NotNil(t, img)
	assert.Equal(t, "9grid", img.SelectAttr("scale"))
	assert.Equal(t, "10,10,20,20", img.SelectAttr("scale9grid"))

	after, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreatePackage(t *testing.T) {
	root := t.TempDir()
	ix := New(WithGenerator(id.NewSeededGenerator(3, 4)))

	pkg, err := ix.CreatePackage(filepath.Join(root, "Fresh"))
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-z]{9}$`, pkg.ID)
	assert.Empty(t, pkg.Images)

	got, ok := ix.Get(pkg.ID)
	assert.True(t, ok)
	assert.Same(t, pkg, got)

	data, err := os.ReadFile(filepath.Join(root, "Fresh", "package.xml"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `<packageDescription id="`+pkg.ID+`">`))
	assert.Contains(t, string(data), `<publish name=""/>`)

	_, err = ix.CreatePackage(filepath.Join(root, "Fresh"))
	assert.ErrorIs(t, err, ErrPackageExists)

	reloaded, err := Build(root)
	require.NoError(t, err)
	_, ok = reloaded.Get(pkg.ID)
	assert.True(t, ok)
}

func TestCreatePackageAvoidsUsedIDs(t *testing.T) {
	root := t.TempDir()
	ref := id.NewSeededGenerator(9, 9)
	taken := ref.Candidate().String()
	writeDescriptor(t, filepath.Join(root, "Taken"), descriptor(taken, ""))

	ix, err := Build(root, WithGenerator(id.NewSeededGenerator(9, 9)))
	require.NoError(t, err)

	pkg, err := ix.CreatePackage(filepath.Join(root, "New"))
	require.NoError(t, err)
	assert.NotEqual(t, taken, pkg.ID)
}
