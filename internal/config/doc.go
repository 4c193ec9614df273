// Package config provides 12-factor configuration management for the exporter.
//
// Configuration is loaded from environment variables with sensible defaults.
// A YAML or TOML file can be layered on top, and CLI flags override both.
//
// Configuration Sections:
//   - Project: Egret project root
//   - Export: target export root, assets directory, source extension, settle delay
//   - Logging: Log level and output format
//   - Metrics: optional Prometheus textfile path
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	if err := config.LoadFile(cfg, "fgui.yaml"); err != nil {
//		return err
//	}
//
// Environment Variables:
//   - FGUI_PROJECT_ROOT, FGUI_TARGET_ROOT, FGUI_ASSETS_DIR
//   - FGUI_SOURCE_EXT, FGUI_SETTLE_DELAY, FGUI_METRICS_FILE
//   - LOG_LEVEL, LOG_DEV
package config
