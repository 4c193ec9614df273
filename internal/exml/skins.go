package exml

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/hxzbg/fguiexport/internal/logging"
)

// SkinIndex maps skin class names ("skins.ButtonSkin") to EXML file paths.
type SkinIndex struct {
	byClass map[string]string
}

// NewSkinIndex creates an index from an explicit class→path mapping.
func NewSkinIndex(classes map[string]string) *SkinIndex {
	idx := &SkinIndex{byClass: make(map[string]string, len(classes))}
	for k, v := range classes {
		idx.byClass[k] = v
	}
	return idx
}

// Lookup returns the EXML path declaring class.
func (s *SkinIndex) Lookup(class string) (string, bool) {
	if s == nil {
		return "", false
	}
	p, ok := s.byClass[class]
	return p, ok
}

// Len returns the number of indexed classes.
func (s *SkinIndex) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byClass)
}

// BuildSkinIndex scans roots for files with extension ext and indexes each
// document's root class. When two files declare the same class the
// lexically first path wins. Unreadable files are logged and skipped.
func BuildSkinIndex(roots []string, ext string, logger *logging.Logger) (*SkinIndex, error) {
	files, err := FindSources(roots, ext)
	if err != nil {
		return nil, err
	}

	classes := make(map[string]string, len(files))
	for _, path := range files {
		doc, err := ParseFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable skin", zap.String("path", path), zap.Error(err))
			continue
		}
		if doc.Class == "" {
			continue
		}
		if _, exists := classes[doc.Class]; !exists {
			classes[doc.Class] = path
		}
	}
	return NewSkinIndex(classes), nil
}

// FindSources walks roots concurrently and returns every file whose extension
// matches ext case-insensitively, sorted. Missing roots are ignored.
func FindSources(roots []string, ext string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	conf := fastwalk.Config{Follow: false}

	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(p), ext) {
				mu.Lock()
				files = append(files, p)
				mu.Unlock()
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
