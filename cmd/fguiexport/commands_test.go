package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxzbg/fguiexport/internal/export"
)

const skin = `<?xml version="1.0" encoding="utf-8"?>
<e:Skin class="skins.PanelSkin" width="200" height="100" xmlns:e="http://ns.egret.com/eui">
	<e:Rect width="100" height="50" fillColor="0xff0000"/>
</e:Skin>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "egretProperties.json"), `{"eui":{"exmlRoot":["resource/eui_skins"]}}`)
	writeFile(t, filepath.Join(root, "resource", "eui_skins", "PanelSkin.exml"), skin)
	writeFile(t, filepath.Join(root, "resource", "eui_skins", "dlg", "AlertSkin.exml"), skin)
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBatchCommand(t *testing.T) {
	proj := newProject(t)
	target := t.TempDir()

	out, err := run(t, "batch", "--project", proj, "--target", target)
	require.NoError(t, err)
	assert.Contains(t, out, "2 files exported")
	assert.FileExists(t, filepath.Join(target, "assets", "PanelSkin.xml"))
	assert.FileExists(t, filepath.Join(target, "assets", "dlg", "AlertSkin.xml"))
}

func TestExportCommand(t *testing.T) {
	proj := newProject(t)
	target := t.TempDir()
	src := filepath.Join(proj, "resource", "eui_skins", "dlg", "AlertSkin.exml")

	out, err := run(t, "export", "--project", proj, "--target", target, src)
	require.NoError(t, err)
	want := filepath.Join(target, "assets", "dlg", "AlertSkin.xml")
	assert.Equal(t, want, strings.TrimSpace(out))

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fillColor="#ffff0000"`)
}

func TestExportRequiresTarget(t *testing.T) {
	proj := newProject(t)
	t.Setenv("FGUI_TARGET_ROOT", "")

	_, err := run(t, "export", "--project", proj, "x.exml")
	assert.ErrorIs(t, err, export.ErrConfigurationMissing)
}

func TestTargetThenPackageCreate(t *testing.T) {
	proj := newProject(t)
	target := t.TempDir()

	_, err := run(t, "target", "--project", proj, target)
	require.NoError(t, err)

	out, err := run(t, "package", "create", "--project", proj, "common")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Len(t, fields[0], 9)
	assert.Equal(t, filepath.Join(target, "assets", "common", "package.xml"), fields[1])
}

func TestConfigFileAndFlags(t *testing.T) {
	proj := newProject(t)
	target := t.TempDir()
	metrics := filepath.Join(t.TempDir(), "run.prom")
	cfgFile := filepath.Join(t.TempDir(), "fgui.yaml")
	writeFile(t, cfgFile, "export:\n  target_root: "+filepath.ToSlash(target)+"\n  assets_dir: ui\n")

	_, err := run(t, "batch", "--project", proj, "--config", cfgFile, "--metrics-file", metrics)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "ui", "PanelSkin.xml"))
	assert.FileExists(t, metrics)
}

func TestNotAProject(t *testing.T) {
	_, err := run(t, "batch", "--project", t.TempDir(), "--target", t.TempDir())
	assert.Error(t, err)
}
