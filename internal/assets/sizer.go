// Package assets measures bitmap resources referenced by skins.
//
// EUI lays out an unsized Image at its bitmap's natural size. The exporter
// needs the same numbers to emit size and pivot attributes, so the sizer
// reads image headers of the files the target packages point at.
package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/hxzbg/fguiexport/internal/pkgindex"
)

// Locator maps an image resource key to a file on disk.
type Locator func(key string) (string, bool)

// PackageLocator resolves keys through the image manifests of a package index.
// Sources given as file paths are tried by their key form.
func PackageLocator(ix *pkgindex.Index) Locator {
	return func(key string) (string, bool) {
		pkg, res, ok := ix.Lookup(key, pkgindex.KindImage)
		if !ok {
			pkg, res, ok = ix.Lookup(pkgindex.SourceKey(key), pkgindex.KindImage)
		}
		if !ok {
			return "", false
		}
		return pkg.FilePath(res), true
	}
}

type size struct {
	w, h int
	ok   bool
}

// Sizer caches decoded image dimensions per resource key.
type Sizer struct {
	locate Locator
	cache  map[string]size
}

// NewSizer creates a sizer using locate to find files.
func NewSizer(locate Locator) *Sizer {
	return &Sizer{locate: locate, cache: make(map[string]size)}
}

// Size returns the pixel dimensions for an image resource key.
func (s *Sizer) Size(key string) (int, int, bool) {
	if c, hit := s.cache[key]; hit {
		return c.w, c.h, c.ok
	}

	var c size
	if path, ok := s.locate(key); ok {
		if w, h, err := DecodeSize(path); err == nil {
			c = size{w: w, h: h, ok: true}
		}
	}
	s.cache[key] = c
	return c.w, c.h, c.ok
}

// DecodeSize reads only the header of an image file. Files that are not
// images by content are rejected before decoding.
func DecodeSize(path string) (int, int, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("detect %s: %w", filepath.Base(path), err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return 0, 0, fmt.Errorf("%s is %s, not an image", filepath.Base(path), mt.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height, nil
}
