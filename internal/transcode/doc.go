// Package transcode converts EUI component trees into FairyGUI component
// documents.
//
// A Transcoder holds the session-wide collaborators: the target package
// index, the skin class index and the rule registry. Every document is
// walked with a fresh Context carrying its controllers and group frames.
// Groups are flattened: their members are emitted before the group tag and
// reference it through the group attribute.
package transcode
