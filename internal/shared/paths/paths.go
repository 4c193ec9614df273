// Package paths maps Egret project paths onto the FairyGUI target tree.
//
// Source files live under one of the project's EXML roots (for example
// resource/eui_skins). Their position relative to that root is preserved
// below the target assets directory, with the extension rewritten to .xml.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Well-known file names
const (
	// PackageDescriptor is the FairyGUI package manifest file name.
	PackageDescriptor = "package.xml"

	// EgretProperties holds the EUI configuration of an Egret project.
	EgretProperties = "egretProperties.json"

	// WingProperties holds editor settings, including the FairyGUI target root.
	WingProperties = "wingProperties.json"

	// OutputExt is the extension of emitted component documents.
	OutputExt = ".xml"
)

// Layout describes where exported components land.
type Layout struct {
	// SkinRoots are the absolute EXML source roots, longest match wins.
	SkinRoots []string
	// TargetDir is the absolute directory receiving the mapped tree.
	TargetDir string
}

// Target returns the output path for a source file. Files outside every skin
// root are placed directly in the target directory. Relative sources and
// roots are taken relative to the working directory.
func (l Layout) Target(source string) string {
	source = absPath(source)
	rel := filepath.Base(source)

	best := -1
	for _, root := range l.SkinRoots {
		root = absPath(root)
		r, err := filepath.Rel(root, source)
		if err != nil || r == "." || strings.HasPrefix(r, "..") {
			continue
		}
		if len(root) > best {
			best = len(root)
			rel = r
		}
	}

	return filepath.Join(l.TargetDir, ChangeExt(rel, OutputExt))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// ChangeExt replaces the extension of path; names starting with a dot keep it.
func ChangeExt(path, ext string) string {
	return TrimExt(path) + ext
}

// TrimExt removes the last extension of path's base name.
func TrimExt(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return path[:len(path)-len(base)+i]
	}
	return path
}

// BaseName returns the base name of a slash- or OS-separated path without extension.
func BaseName(path string) string {
	path = ToSlash(path)
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	return TrimExt(path)
}

// ToSlash normalizes Windows separators, which Egret project files may contain
// regardless of the host OS.
func ToSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// ResolveProjectPath resolves a project-relative path. Leading slashes are
// treated as project-relative, matching how Egret stores exmlRoot entries.
func ResolveProjectPath(projectRoot, p string) string {
	p = ToSlash(p)
	if filepath.IsAbs(p) && !strings.HasPrefix(p, "/") {
		return filepath.Clean(p)
	}
	return filepath.Join(projectRoot, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

// ValidateTargetRoot checks if a configured target root can be used.
func ValidateTargetRoot(root string) error {
	if root == "" {
		return fmt.Errorf("target root cannot be empty")
	}
	if strings.ContainsRune(root, 0) {
		return fmt.Errorf("target root contains a NUL byte")
	}
	return nil
}
