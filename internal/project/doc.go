// Package project reads the Egret project settings the exporter needs: the
// EUI source roots from egretProperties.json and the FairyGUI target root
// from wingProperties.json.
package project
