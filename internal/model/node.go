// Package model defines the read-only component tree the transcoder consumes.
//
// The tree is owned by the host (an editor model or the EXML loader). The
// transcoder reads it and, as its only mutation, backfills an id attribute on
// Group nodes that lack a unique one.
package model

import (
	"strconv"
	"strings"
)

// CustomPrefix is the namespace prefix EXML uses for user-authored components.
const CustomPrefix = "ns1"

// Attr is one attribute in document order.
type Attr struct {
	Key   string
	Value string
}

// Element is a raw child element, used for non-visual content such as
// <e:layout>, <e:ArrayCollection> and the items inside them.
type Element struct {
	Prefix   string
	Name     string
	Attrs    []Attr
	Children []*Element
}

// Attr returns the value of key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first direct child named name.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Node is one component of the authored tree.
type Node interface {
	// Name is the component type, e.g. "Image" or "Group".
	Name() string
	// Prefix is the namespace prefix, e.g. "e" or "ns1".
	Prefix() string
	Parent() Node
	// Children returns display children in document order.
	Children() []Node
	// Elements returns every raw child element, property elements included.
	Elements() []*Element
	// Attr returns an attribute by exact key; state-qualified keys use "key.state".
	Attr(key string) (string, bool)
	// SetAttr writes an attribute. Only used for the Group id backfill.
	SetAttr(key, value string)
	// HasMultipleStates reports whether any attribute is state-qualified.
	HasMultipleStates() bool
	// Instance returns the computed runtime value of a numeric property.
	Instance(key string) (float64, bool)
}

// SplitStateKey splits "width.down" into ("width", "down").
func SplitStateKey(key string) (string, string) {
	if i := strings.IndexByte(key, '.'); i > 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// IsCustom reports whether n is a user-authored component.
func IsCustom(n Node) bool {
	return n.Prefix() == CustomPrefix
}

// ParseNumber parses the leading numeric prefix of s, so "50%", "12px" and
// " 3.5" all yield a value. It reports false when no digits are present.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
scan:
	for ; end < len(s); end++ {
		c := s[end]
		switch {
		case isDigit(c):
			seenDigit = true
		case c == '+' || c == '-':
			if end != 0 && s[end-1] != 'e' && s[end-1] != 'E' {
				break scan
			}
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp && hasExponent(s[end+1:]):
			seenExp = true
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func hasExponent(rest string) bool {
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		rest = rest[1:]
	}
	return rest != "" && isDigit(rest[0])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
