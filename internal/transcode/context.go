package transcode

import (
	"strconv"
	"strings"

	"github.com/hxzbg/fguiexport/internal/model"
)

// DefaultController drives visibility and is always declared first.
const DefaultController = "default"

// StateSet is the ordered set of controllers of one document.
type StateSet struct {
	names []string
	pages map[string][]string
}

// NewStateSet creates an empty set.
func NewStateSet() *StateSet {
	return &StateSet{pages: make(map[string][]string)}
}

// Add declares a controller, keeping the default controller first.
// Redeclaring a controller replaces its pages in place.
func (s *StateSet) Add(name string, pages []string) {
	if _, ok := s.pages[name]; !ok {
		if name == DefaultController {
			s.names = append([]string{name}, s.names...)
		} else {
			s.names = append(s.names, name)
		}
	}
	s.pages[name] = pages
}

// Has reports whether a controller is declared.
func (s *StateSet) Has(name string) bool {
	_, ok := s.pages[name]
	return ok
}

// Controllers returns controller names in declaration order.
func (s *StateSet) Controllers() []string { return s.names }

// Pages returns the page names of a controller.
func (s *StateSet) Pages(name string) []string { return s.pages[name] }

// PageIndex returns the 1-based index of page within controller, or 0.
func (s *StateSet) PageIndex(controller, page string) int {
	for i, p := range s.pages[controller] {
		if p == page {
			return i + 1
		}
	}
	return 0
}

// UnusedName returns base when free, otherwise the smallest free "c<n>".
func (s *StateSet) UnusedName(base string) string {
	if base != "" && !s.Has(base) {
		return base
	}
	for n := 1; ; n++ {
		name := "c" + strconv.Itoa(n)
		if !s.Has(name) {
			return name
		}
	}
}

// PagesAttr renders "1,nameA,2,nameB".
func (s *StateSet) PagesAttr(name string) string {
	pages := s.pages[name]
	parts := make([]string, 0, len(pages)*2)
	for i, p := range pages {
		parts = append(parts, strconv.Itoa(i+1), p)
	}
	return strings.Join(parts, ",")
}

type resolutionKey struct {
	node  model.Node
	state string
}

type resolution struct {
	pkg, res, fileName string
	ok                 bool
}

// Context carries the mutable state of one document transcode. A new
// Context is created for every file.
type Context struct {
	tr *Transcoder

	states  *StateSet
	groups  map[string]*Group
	current string

	resolved map[resolutionKey]resolution
}

func newContext(tr *Transcoder) *Context {
	return &Context{
		tr:       tr,
		states:   NewStateSet(),
		groups:   make(map[string]*Group),
		resolved: make(map[resolutionKey]resolution),
	}
}


