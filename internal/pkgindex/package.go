package pkgindex

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/hxzbg/fguiexport/internal/shared/paths"
)

// Kind selects one manifest of a package.
type Kind string

const (
	KindImage     Kind = "image"
	KindComponent Kind = "component"
	KindFont      Kind = "font"
)

// Resource is one manifest entry of a package descriptor.
type Resource struct {
	ID   string
	Name string
	Path string
	// FileName is Path+Name, the form FairyGUI components reference.
	FileName   string
	Scale9Grid string

	el *xmlquery.Node
}

// Package is one parsed package.xml.
type Package struct {
	ID string
	// Path is the descriptor file, Dir the directory holding it.
	Path string
	Dir  string

	Images     map[string]*Resource
	Components map[string]*Resource
	Fonts      map[string]*Resource

	doc   *xmlquery.Node
	dirty bool
}

// Manifest returns the entries of one kind.
func (p *Package) Manifest(kind Kind) map[string]*Resource {
	switch kind {
	case KindImage:
		return p.Images
	case KindComponent:
		return p.Components
	case KindFont:
		return p.Fonts
	}
	return nil
}

// Resource returns the entry for key in the given manifest.
func (p *Package) Resource(kind Kind, key string) (*Resource, bool) {
	r, ok := p.Manifest(kind)[key]
	return r, ok
}

// Dirty reports whether the descriptor has unsaved changes.
func (p *Package) Dirty() bool { return p.dirty }

// FilePath returns the on-disk location of a resource's file.
func (p *Package) FilePath(r *Resource) string {
	return filepath.Join(p.Dir, filepath.FromSlash(strings.TrimPrefix(r.FileName, "/")))
}

// URL returns the ui:// reference FairyGUI uses for a resource of this package.
func (p *Package) URL(r *Resource) string {
	return "ui://" + p.ID + r.ID
}

// XML serializes the descriptor, including any in-memory changes. Empty
// elements stay self-closed and indentation is kept.
func (p *Package) XML() string {
	return p.doc.OutputXMLWithOptions(xmlquery.WithEmptyTagSupport(), xmlquery.WithPreserveSpace())
}

// ImageKey converts a resource file name into the EUI resource key form:
// the first '.' becomes '_' ("btn_ok.png" → "btn_ok_png").
func ImageKey(name string) string {
	return strings.Replace(name, ".", "_", 1)
}

// SourceKey converts an image source given as a file path
// ("assets/btn_ok.png") to its resource key ("btn_ok_png"). Plain keys are
// returned unchanged.
func SourceKey(source string) string {
	base := source
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	return ImageKey(base)
}

// ComponentKey strips the extension of a component file name.
func ComponentKey(name string) string {
	return paths.TrimExt(name)
}

// parsePackage reads one descriptor. A descriptor lacking an id yields
// ErrMalformedDescriptor.
func parsePackage(r io.Reader, path string) (*Package, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDescriptor, path, err)
	}

	root := xmlquery.FindOne(doc, "/packageDescription")
	if root == nil {
		return nil, fmt.Errorf("%w: %s: missing packageDescription", ErrMalformedDescriptor, path)
	}
	pkgID := root.SelectAttr("id")
	if pkgID == "" {
		return nil, fmt.Errorf("%w: %s: missing id", ErrMalformedDescriptor, path)
	}

	pkg := &Package{
		ID:         pkgID,
		Path:       path,
		Dir:        filepath.Dir(path),
		Images:     make(map[string]*Resource),
		Components: make(map[string]*Resource),
		Fonts:      make(map[string]*Resource),
		doc:        doc,
	}

	for _, el := range xmlquery.Find(root, "resources/*") {
		name := el.SelectAttr("name")
		if name == "" {
			continue
		}
		res := &Resource{
			ID:         el.SelectAttr("id"),
			Name:       name,
			Path:       el.SelectAttr("path"),
			Scale9Grid: el.SelectAttr("scale9grid"),
			el:         el,
		}
		res.FileName = res.Path + res.Name

		switch Kind(el.Data) {
		case KindImage:
			pkg.Images[ImageKey(name)] = res
		case KindComponent:
			pkg.Components[ComponentKey(name)] = res
		case KindFont:
			pkg.Fonts[ImageKey(name)] = res
		}
	}
	return pkg, nil
}

// minimalDescriptor is written by CreatePackage.
func minimalDescriptor(pkgID string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
		`<packageDescription id="` + pkgID + `">` + "\n" +
		"  <resources/>\n" +
		`  <publish name=""/>` + "\n" +
		"</packageDescription>\n"
}
