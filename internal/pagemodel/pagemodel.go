// Package pagemodel wraps a parsed HTML page behind a small structural query
// surface. Extraction policy lives in internal/app; this package only answers
// "give me the text behind this descriptor", so a different markup structure
// (or a different parser) can be swapped in without touching policy.
package pagemodel

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

type Document struct {
	root *html.Node
}

func Parse(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: n}, nil
}

// Node is one element of the parsed page.
type Node struct {
	n *html.Node
}

// Selector is a structural descriptor: an optional tag name, an optional
// class token, and an optional attribute equality. It covers the shapes
// used by review pages (`div.Review-comment-bubble`,
// `h4[data-testid=review-title]`, `span`, `.Review-comment-reviewer`).
type Selector struct {
	Tag   string
	Class string
	Attr  string
	Val   string
}

// Sel parses a descriptor string into a Selector. Quotes around attribute
// values are optional.
func Sel(s string) Selector {
	var sel Selector
	if i := strings.IndexByte(s, '['); i >= 0 {
		attr := strings.TrimSuffix(s[i+1:], "]")
		if j := strings.IndexByte(attr, '='); j >= 0 {
			sel.Attr = attr[:j]
			sel.Val = strings.Trim(attr[j+1:], `"'`)
		} else {
			sel.Attr = attr
		}
		s = s[:i]
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		sel.Class = s[i+1:]
		s = s[:i]
	}
	sel.Tag = s
	return sel
}

func (sel Selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if sel.Tag != "" && n.Data != sel.Tag {
		return false
	}
	if sel.Class != "" && !hasClass(n, sel.Class) {
		return false
	}
	if sel.Attr != "" {
		v, ok := attrVal(n, sel.Attr)
		if !ok {
			return false
		}
		if sel.Val != "" && v != sel.Val {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attrVal(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (d *Document) Find(sel Selector) []*Node {
	return findAll(d.root, sel)
}

func (d *Document) FindFirst(sel Selector) *Node {
	return first(findAll(d.root, sel))
}

// FindByText returns the first node matching sel whose collapsed text
// matches re.
func (d *Document) FindByText(sel Selector, re *regexp.Regexp) *Node {
	for _, n := range findAll(d.root, sel) {
		if re.MatchString(n.Text()) {
			return n
		}
	}
	return nil
}

func (n *Node) Find(sel Selector) []*Node {
	return findAll(n.n, sel)
}

func (n *Node) FindFirst(sel Selector) *Node {
	return first(n.Find(sel))
}

// Closest walks the ancestor chain (excluding the node itself) and returns
// the nearest ancestor matching sel.
func (n *Node) Closest(sel Selector) *Node {
	for p := n.n.Parent; p != nil; p = p.Parent {
		if sel.matches(p) {
			return &Node{n: p}
		}
	}
	return nil
}

// FindPrevious returns the nearest element matching sel that precedes n in
// document order, ancestors excluded. Review pages place the score badge
// just before its comment bubble, which is what this exists for.
func (n *Node) FindPrevious(sel Selector) *Node {
	var prev *html.Node
	var walk func(cur *html.Node) bool
	walk = func(cur *html.Node) bool {
		if cur == n.n {
			return true
		}
		if sel.matches(cur) && !isAncestorOf(cur, n.n) {
			prev = cur
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	root := n.n
	for root.Parent != nil {
		root = root.Parent
	}
	walk(root)
	if prev == nil {
		return nil
	}
	return &Node{n: prev}
}

// FindTextMatch returns the first text fragment in the subtree matching re,
// or "" when none does.
func (n *Node) FindTextMatch(re *regexp.Regexp) string {
	var out string
	var walk func(cur *html.Node) bool
	walk = func(cur *html.Node) bool {
		if cur.Type == html.TextNode && re.MatchString(cur.Data) {
			out = cur.Data
			return true
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(n.n)
	return out
}

// Text returns the subtree's text content with whitespace collapsed.
func (n *Node) Text() string {
	var b strings.Builder
	gather(n.n, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func gather(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		gather(c, b)
	}
}

func findAll(root *html.Node, sel Selector) []*Node {
	var out []*Node
	var walk func(cur *html.Node)
	walk = func(cur *html.Node) {
		if cur != root && sel.matches(cur) {
			out = append(out, &Node{n: cur})
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func first(ns []*Node) *Node {
	if len(ns) == 0 {
		return nil
	}
	return ns[0]
}

func isAncestorOf(a, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}
