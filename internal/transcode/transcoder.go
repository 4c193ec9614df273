package transcode

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/hxzbg/fguiexport/internal/logging"
	"github.com/hxzbg/fguiexport/internal/model"
	"github.com/hxzbg/fguiexport/internal/pkgindex"
	"github.com/hxzbg/fguiexport/internal/shared/paths"
	"github.com/hxzbg/fguiexport/internal/xmlbuild"
)

var (
	// ErrResourceNotFound marks a reference no target package provides. It is
	// recovered inside the transcoder; the attribute is omitted.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrNilRoot is returned when there is no tree to transcode.
	ErrNilRoot = errors.New("transcode: nil root node")
)

// Resources is the package lookup the transcoder resolves references against.
type Resources interface {
	Lookup(key string, kind pkgindex.Kind) (*pkgindex.Package, *pkgindex.Resource, bool)
	SetScale9Grid(key, grid string) bool
}

// SkinResolver maps skin class names to their EXML file.
type SkinResolver interface {
	Lookup(class string) (string, bool)
}

// Recorder receives transcode events for metrics.
type Recorder interface {
	ResourceMissing(kind string)
	GroupGenerated()
}

type nopRecorder struct{}

func (nopRecorder) ResourceMissing(string) {}
func (nopRecorder) GroupGenerated()        {}

type noSkins struct{}

func (noSkins) Lookup(string) (string, bool) { return "", false }

// Transcoder converts EUI component trees into FairyGUI component documents.
// A Transcoder may be reused for many documents; per-document state lives in
// a Context. It is not safe for concurrent use because Resources may be
// mutated.
type Transcoder struct {
	resources Resources
	skins     SkinResolver
	registry  *Registry
	logger    *logging.Logger
	recorder  Recorder
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Transcoder) { t.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(t *Transcoder) { t.recorder = r }
}

// WithSkins sets the skin class resolver.
func WithSkins(s SkinResolver) Option {
	return func(t *Transcoder) { t.skins = s }
}

// New creates a Transcoder resolving references through resources.
func New(resources Resources, opts ...Option) *Transcoder {
	t := &Transcoder{
		resources: resources,
		skins:     noSkins{},
		registry:  NewRegistry(),
		logger:    logging.NewNop(),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcode converts a tree into its root element.
func (t *Transcoder) Transcode(root model.Node) (*xmlbuild.Element, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	c := newContext(t)
	out := c.build(root)
	if len(out) == 1 {
		return out[0], nil
	}
	// Only a bare Group root expands to several siblings.
	return xmlbuild.New("component").Append(xmlbuild.New("displayList").Append(out...)), nil
}

// Document converts a tree into a complete XML document.
func (t *Transcoder) Document(root model.Node) (string, error) {
	el, err := t.Transcode(root)
	if err != nil {
		return "", err
	}
	return xmlbuild.Document(el), nil
}

// build emits the elements for one node. Groups emit their members before
// their own tag, so a node can yield several siblings.
func (c *Context) build(n model.Node) []*xmlbuild.Element {
	rule := c.tr.registry.Lookup(n)

	var out []*xmlbuild.Element
	if rule.Pre != nil {
		out = append(out, rule.Pre(c, n)...)
	}

	el := xmlbuild.New(rule.Tag(n))
	c.applyAttributes(el, n, rule)
	if rule.Post != nil {
		rule.Post(c, n, el)
	}
	return append(out, el)
}

// buildChildren emits every display child in order.
func (c *Context) buildChildren(n model.Node) []*xmlbuild.Element {
	var out []*xmlbuild.Element
	for _, child := range n.Children() {
		out = append(out, c.build(child)...)
	}
	return out
}

// isCompound reports whether n references a component resource.
func isCompound(n model.Node) bool {
	if model.IsCustom(n) {
		return true
	}
	switch n.Name() {
	case "CheckBox", "RadioButton":
		return true
	}
	return false
}

// resolve finds the package resource backing an Image or compound node.
func (c *Context) resolve(n model.Node, state string) resolution {
	key := resolutionKey{node: n, state: state}
	if r, ok := c.resolved[key]; ok {
		return r
	}

	var r resolution
	switch {
	case !model.IsCustom(n) && n.Name() == "Image":
		if source := propString(n, "source", state); source != "" {
			if pkg, res, ok := c.lookupImage(source); ok {
				r = resolution{pkg: pkg.ID, res: res.ID, fileName: res.FileName, ok: true}
			} else {
				c.missing(pkgindex.KindImage, source)
			}
		}
	case isCompound(n):
		skin := propString(n, "skinName", state)
		if skin == "" {
			skin = n.Name()
		}
		name := c.skinName(skin)
		if pkg, res, ok := c.tr.resources.Lookup(name, pkgindex.KindComponent); ok {
			r = resolution{pkg: pkg.ID, res: res.ID, fileName: res.FileName, ok: true}
		} else {
			c.missing(pkgindex.KindComponent, name)
		}
	}
	c.resolved[key] = r
	return r
}

// lookupImage resolves an EUI image source. Besides resource keys, sources
// given as file paths ("assets/btn_ok.png") are tried by their key form.
func (c *Context) lookupImage(source string) (*pkgindex.Package, *pkgindex.Resource, bool) {
	if pkg, res, ok := c.tr.resources.Lookup(source, pkgindex.KindImage); ok {
		return pkg, res, true
	}
	if key := pkgindex.SourceKey(source); key != source {
		return c.tr.resources.Lookup(key, pkgindex.KindImage)
	}
	return nil, nil, false
}

// imageKey returns the manifest key an Image source resolved under.
func (c *Context) imageKey(source string) string {
	if _, _, ok := c.tr.resources.Lookup(source, pkgindex.KindImage); ok {
		return source
	}
	return pkgindex.SourceKey(source)
}

// skinName normalizes an EUI skin reference to a component resource name.
func (c *Context) skinName(skin string) string {
	skin = strings.TrimPrefix(skin, "skins.")
	if skin == "" {
		return ""
	}
	for _, candidate := range []string{skin, "skins." + skin, "skins." + skin + "Skin"} {
		if uri, ok := c.tr.skins.Lookup(candidate); ok {
			return paths.BaseName(uri)
		}
	}
	return skin
}

// skinURL renders a ui:// reference for a skin, or the bare name.
func (c *Context) skinURL(skin string) string {
	name := c.skinName(skin)
	if name == "" {
		return ""
	}
	if pkg, _, ok := c.tr.resources.Lookup(name, pkgindex.KindComponent); ok {
		return "ui://" + pkg.ID + "/" + name
	}
	c.missing(pkgindex.KindComponent, name)
	return name
}

func (c *Context) missing(kind pkgindex.Kind, key string) {
	c.tr.recorder.ResourceMissing(string(kind))
	c.tr.logger.Debug("Resource not found",
		zap.String("kind", string(kind)),
		zap.String("key", key),
		zap.Error(ErrResourceNotFound))
}
