// Package exml loads Egret EUI skin documents into the model.Node tree.
//
// Display children are separated from property elements: an element whose
// local name starts with a lowercase letter (<e:layout>, <e:skinName>) or that
// is a data container (ArrayCollection, Array, Object, layouts) stays reachable
// through Elements() but is not a display child.
//
// The package also indexes skin classes across the project's EXML roots so
// skin names used by components and list item renderers can be resolved to
// file names.
package exml
