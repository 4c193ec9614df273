// Package pkgindex indexes FairyGUI package descriptors (package.xml) below a
// target asset root.
//
// Each descriptor contributes three manifests keyed the way EUI code refers to
// resources:
//   - image: resource name with its first '.' replaced by '_' (btn_ok_png)
//   - component: resource name without extension (ButtonSkin)
//   - font: same keying as images
//
// The index is built once per export session. Transcoding may augment image
// entries (9-slice grids); those packages are marked dirty and rewritten once
// by Flush at the end of the session.
package pkgindex
