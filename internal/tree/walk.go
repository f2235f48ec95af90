// Package tree turns one record buffer into an ordered sequence of element
// visits.
//
// The walk is depth-first and pre-order, driven by an explicit frame stack
// rather than recursion, so deep documents cost heap rather than goroutine
// stack and a half-finished walk can be inspected between steps.
package tree

import (
	"strings"

	"github.com/beevik/etree"

	"clinvartab/internal/errors"
)

// Visit describes one element reached by the walk.
//
// Path runs from the record root to the element, inclusive, so
// len(Path) == Depth and the root has depth 1. Path shares storage with the
// walker: it is only valid until the next step, copy it to keep it.
type Visit struct {
	Path    []string
	Depth   int
	Attrs   map[string]string // local attribute name -> value
	Text    string            // trimmed character data directly inside the element
	HasText bool              // first child is character data, blank or not
}

// Name is the local name of the visited element.
func (v Visit) Name() string {
	if len(v.Path) == 0 {
		return ""
	}
	return v.Path[len(v.Path)-1]
}

// Parse parses a record buffer and returns its root element.
func Parse(buf []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(buf); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse record"), errors.ErrMalformed)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.Wrap(errors.ErrMalformed, "record has no root element")
	}
	return root, nil
}

type frame struct {
	el   *etree.Element
	next int // index of the next child token to examine
}

// Walker steps through the elements below (and including) a root element.
//
//	w := tree.NewWalker(root)
//	for w.Next() {
//	    v := w.Visit()
//	    ...
//	}
type Walker struct {
	root    *etree.Element
	stack   []frame
	path    []string
	cur     Visit
	started bool
}

// NewWalker returns a walker positioned before root.
func NewWalker(root *etree.Element) *Walker {
	return &Walker{root: root}
}

// Next advances to the next element in pre-order. It returns false when the
// walk is complete.
func (w *Walker) Next() bool {
	if !w.started {
		w.started = true
		if w.root == nil {
			return false
		}
		w.push(w.root)
		return true
	}
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if top.next >= len(top.el.Child) {
			w.pop()
			continue
		}
		tok := top.el.Child[top.next]
		top.next++
		if el, ok := tok.(*etree.Element); ok {
			w.push(el)
			return true
		}
	}
	w.cur = Visit{}
	return false
}

// Visit returns the element the walker is positioned on.
func (w *Walker) Visit() Visit { return w.cur }

// Depth is the number of open elements, the current one included.
func (w *Walker) Depth() int { return len(w.path) }

// Path is the current ancestor chain; valid until the next step.
func (w *Walker) Path() []string { return w.path }

func (w *Walker) push(el *etree.Element) {
	w.stack = append(w.stack, frame{el: el})
	w.path = append(w.path, el.Tag)
	w.cur = Visit{
		Path:    w.path,
		Depth:   len(w.path),
		Attrs:   attributes(el),
		Text:    strings.TrimSpace(el.Text()),
		HasText: leadingText(el),
	}
}

func (w *Walker) pop() {
	w.stack = w.stack[:len(w.stack)-1]
	w.path = w.path[:len(w.path)-1]
}

func leadingText(el *etree.Element) bool {
	if len(el.Child) == 0 {
		return false
	}
	_, ok := el.Child[0].(*etree.CharData)
	return ok
}

func attributes(el *etree.Element) map[string]string {
	if len(el.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		m[a.Key] = a.Value
	}
	return m
}

// Walk calls fn for every element of the tree rooted at root, in pre-order,
// and stops at the first error fn returns.
func Walk(root *etree.Element, fn func(Visit) error) error {
	w := NewWalker(root)
	for w.Next() {
		if err := fn(w.Visit()); err != nil {
			return err
		}
	}
	return nil
}
