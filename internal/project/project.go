package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/hxzbg/fguiexport/internal/shared/paths"
)

// DefaultExmlRoot is used when egretProperties.json declares no EUI roots.
const DefaultExmlRoot = "resource"

// ErrNotProject is returned when the directory holds no egretProperties.json.
var ErrNotProject = errors.New("not an Egret project")

// Project is the subset of Egret project settings the exporter consumes.
type Project struct {
	Root string
	// ExmlRoots are absolute source roots, in declaration order.
	ExmlRoots []string
	// TargetRoot is the FairyGUI project receiving the export, or empty.
	TargetRoot string
}

type egretProperties struct {
	EUI struct {
		ExmlRoot stringList `json:"exmlRoot"`
	} `json:"eui"`
}

type wingProperties struct {
	FGUI string `json:"fgui"`
}

// stringList accepts either a JSON string or an array of strings.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := sonic.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := sonic.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("exmlRoot: %w", err)
	}
	if one != "" {
		*s = []string{one}
	}
	return nil
}

// Load reads the project settings under root. A missing wingProperties.json
// leaves TargetRoot empty.
func Load(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	p := &Project{Root: abs}

	var egret egretProperties
	if err := readJSON(filepath.Join(abs, paths.EgretProperties), &egret); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotProject, abs)
		}
		return nil, err
	}
	roots := []string(egret.EUI.ExmlRoot)
	if len(roots) == 0 {
		roots = []string{DefaultExmlRoot}
	}
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		p.ExmlRoots = append(p.ExmlRoots, paths.ResolveProjectPath(abs, r))
	}

	var wing wingProperties
	if err := readJSON(filepath.Join(abs, paths.WingProperties), &wing); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if wing.FGUI != "" {
		p.TargetRoot = resolveTarget(abs, wing.FGUI)
	}
	return p, nil
}

// SetTargetRoot records the target root in wingProperties.json, keeping
// any other editor settings already stored there.
func (p *Project) SetTargetRoot(target string) error {
	if err := paths.ValidateTargetRoot(target); err != nil {
		return err
	}
	path := filepath.Join(p.Root, paths.WingProperties)

	settings := map[string]interface{}{}
	if err := readJSON(path, &settings); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	settings["fgui"] = paths.ToSlash(target)

	data, err := sonic.ConfigStd.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", paths.WingProperties, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", paths.WingProperties, err)
	}
	p.TargetRoot = resolveTarget(p.Root, target)
	return nil
}

// resolveTarget keeps absolute targets, which usually point outside the
// project, and resolves relative ones against the project root.
func resolveTarget(root, target string) string {
	target = filepath.FromSlash(paths.ToSlash(target))
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(root, target)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
