package pkgindex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/hxzbg/fguiexport/internal/logging"
	"github.com/hxzbg/fguiexport/internal/shared/id"
	"github.com/hxzbg/fguiexport/internal/shared/paths"
)

var (
	// ErrMalformedDescriptor marks a package.xml that cannot be indexed.
	ErrMalformedDescriptor = errors.New("malformed package descriptor")

	// ErrPackageExists is returned by CreatePackage for a directory that
	// already holds a descriptor.
	ErrPackageExists = errors.New("package descriptor already exists")
)

// Index is the per-session view of every package under a target asset root.
// It is not safe for concurrent use.
type Index struct {
	packages []*Package
	byID     map[string]*Package
	skipped  []string

	logger *logging.Logger
	gen    *id.Generator
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used for skipped descriptors.
func WithLogger(l *logging.Logger) Option {
	return func(ix *Index) { ix.logger = l }
}

// WithGenerator sets the package id source used by CreatePackage.
func WithGenerator(g *id.Generator) Option {
	return func(ix *Index) { ix.gen = g }
}

// New creates an empty index.
func New(opts ...Option) *Index {
	ix := &Index{
		byID:   make(map[string]*Package),
		logger: logging.NewNop(),
		gen:    id.NewGenerator(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build creates an index and scans root.
func Build(root string, opts ...Option) (*Index, error) {
	ix := New(opts...)
	if err := ix.Scan(root); err != nil {
		return nil, err
	}
	return ix, nil
}

// Scan recursively indexes every package.xml below root. Descriptors are
// indexed in lexical path order so lookups are stable between runs.
// Malformed descriptors are skipped. A missing root yields an empty index.
func (ix *Index) Scan(root string) error {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ix.logger.Warn("Package root does not exist", zap.String("root", root))
			return nil
		}
		return fmt.Errorf("stat package root: %w", err)
	}

	var (
		mu    sync.Mutex
		found []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if d.Name() == paths.PackageDescriptor {
			mu.Lock()
			found = append(found, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(found)
	for _, p := range found {
		if err := ix.load(p); err != nil {
			if errors.Is(err, ErrMalformedDescriptor) {
				ix.skipped = append(ix.skipped, p)
				ix.logger.Warn("Skipping package descriptor", zap.String("path", p), zap.Error(err))
				continue
			}
			return err
		}
	}
	return nil
}

func (ix *Index) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open descriptor: %w", err)
	}
	defer f.Close()

	pkg, err := parsePackage(f, path)
	if err != nil {
		return err
	}
	if prev, dup := ix.Get(pkg.ID); dup {
		return fmt.Errorf("%w: %s: id %s already used by %s", ErrMalformedDescriptor, path, pkg.ID, prev.Path)
	}
	ix.add(pkg)
	return nil
}

func (ix *Index) add(pkg *Package) {
	ix.packages = append(ix.packages, pkg)
	ix.byID[pkg.ID] = pkg
}

// Packages returns packages in discovery order.
func (ix *Index) Packages() []*Package { return ix.packages }

// Skipped returns the descriptor paths rejected during scanning.
func (ix *Index) Skipped() []string { return ix.skipped }

// Get returns a package by id.
func (ix *Index) Get(pkgID string) (*Package, bool) {
	p, ok := ix.byID[pkgID]
	return p, ok
}

// Lookup returns the first package, in discovery order, whose manifest of
// the given kind contains key. A name present in several packages always
// resolves to the earliest one.
func (ix *Index) Lookup(key string, kind Kind) (*Package, *Resource, bool) {
	if key == "" {
		return nil, nil, false
	}
	for _, p := range ix.packages {
		if r, ok := p.Resource(kind, key); ok {
			return p, r, true
		}
	}
	return nil, nil, false
}

// MarkDirty flags pkg for rewriting at Flush.
func (ix *Index) MarkDirty(pkg *Package) {
	pkg.dirty = true
}

// SetScale9Grid records a 9-slice grid on an image entry that has none yet.
// It reports whether the descriptor changed.
func (ix *Index) SetScale9Grid(key, grid string) bool {
	if grid == "" {
		return false
	}
	pkg, res, ok := ix.Lookup(key, KindImage)
	if !ok || res.Scale9Grid != "" {
		return false
	}
	res.el.SetAttr("scale", "9grid")
	res.el.SetAttr("scale9grid", grid)
	res.Scale9Grid = grid
	ix.MarkDirty(pkg)
	return true
}

// Flush rewrites every dirty descriptor once and returns how many were written.
func (ix *Index) Flush() (int, error) {
	written := 0
	for _, p := range ix.packages {
		if !p.Dirty() {
			continue
		}
		if err := os.WriteFile(p.Path, []byte(p.XML()), 0o644); err != nil {
			return written, fmt.Errorf("write descriptor %s: %w", p.Path, err)
		}
		p.dirty = false
		written++
	}
	return written, nil
}

// CreatePackage writes a minimal descriptor with a fresh id into dir and
// indexes it.
func (ix *Index) CreatePackage(dir string) (*Package, error) {
	path := filepath.Join(dir, paths.PackageDescriptor)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrPackageExists, path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create package dir: %w", err)
	}

	pkgID := ix.gen.NewPackageID(func(candidate id.PackageID) bool {
		_, used := ix.byID[candidate.String()]
		return used
	})
	if err := os.WriteFile(path, []byte(minimalDescriptor(pkgID.String())), 0o644); err != nil {
		return nil, fmt.Errorf("write descriptor: %w", err)
	}
	if err := ix.load(path); err != nil {
		return nil, err
	}
	return ix.byID[pkgID.String()], nil
}
