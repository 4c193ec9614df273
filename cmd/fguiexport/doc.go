// Package main is the entry point of the EUI to FairyGUI exporter.
//
// The exporter reads an Egret project's EXML skins and writes FairyGUI
// component documents into the project's FairyGUI target, resolving images
// and nested components against the target's package descriptors.
//
// Configuration:
//   - Environment variables (FGUI_*, LOG_LEVEL, LOG_DEV)
//   - A YAML or TOML file passed with --config
//   - CLI flags (override both)
//
// Usage:
//
//	# Export every skin below the project's EXML roots
//	fguiexport batch --project ./game
//
//	# Export selected skins into an explicit target
//	fguiexport export --target ../ui resource/eui_skins/MainSkin.exml
//
//	# Create an empty package in the target
//	fguiexport package create common
//
// Signals:
//   - SIGINT, SIGTERM: stop after the current file
package main
