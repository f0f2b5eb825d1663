package schema

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxDepth bounds recursion over panel/matrix nesting. Valid schemas
// stay far below it; a malformed or hostile document that exceeds the cap has
// its deeper levels skipped rather than walked.
const DefaultMaxDepth = 32

// ErrDepthExceeded reports that a walk hit the nesting cap and skipped the
// levels below it.
var ErrDepthExceeded = errors.New("schema: element nesting exceeds depth cap")

// Path locates an element inside a form, rendered as
// "page:<pageName>/<elementName>[/<nestedName>...]".
type Path []string

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Child returns a new path extended by one segment without aliasing the
// parent's backing array.
func (p Path) Child(segment string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, segment)
}

// Visitor receives every element of a walk in depth-first order. The pointer
// is live: visitors may mutate the element in place.
type Visitor func(el *Element, path Path)

// Walk traverses pages, elements, nested panel children, and matrix row
// children with the default depth cap. It returns ErrDepthExceeded (wrapped
// with the offending path) if any branch was cut short; every node within the
// cap is still visited.
func Walk(form *Form, visit Visitor) error {
	return WalkDepth(form, visit, DefaultMaxDepth)
}

// WalkDepth is Walk with a caller-chosen nesting cap.
func WalkDepth(form *Form, visit Visitor, maxDepth int) error {
	if form == nil || visit == nil {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	w := &walker{visit: visit, maxDepth: maxDepth}
	for i := range form.Pages {
		page := &form.Pages[i]
		base := Path{"page:" + nameOrUnnamed(page.Name)}
		w.elements(page.Elements, base, 1)
	}
	return w.capErr
}

type walker struct {
	visit    Visitor
	maxDepth int
	capErr   error
}

func (w *walker) elements(elements []Element, base Path, depth int) {
	for i := range elements {
		el := &elements[i]
		path := base.Child(nameOrUnnamed(el.Name))
		w.visit(el, path)

		// Recurse regardless of the element's declared type: panels of any
		// kind may carry nested elements, and matrix rows own elements too.
		if len(el.Elements) > 0 {
			if w.guard(path, depth) {
				w.elements(el.Elements, path, depth+1)
			}
		}
		for j := range el.Rows {
			row := &el.Rows[j]
			if len(row.Elements) == 0 {
				continue
			}
			if w.guard(path, depth) {
				w.elements(row.Elements, path, depth+1)
			}
		}
	}
}

// guard reports whether descending one more level stays within the cap,
// recording the first violation.
func (w *walker) guard(path Path, depth int) bool {
	if depth < w.maxDepth {
		return true
	}
	if w.capErr == nil {
		w.capErr = fmt.Errorf("%w at %s", ErrDepthExceeded, path)
	}
	return false
}

func nameOrUnnamed(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}
