// Package fake is a hand-built cursor.Stream implementation used by
// internal/xlate's unit tests to pin the exact end-to-end scenarios from
// spec.md §8 without depending on a real C frontend.
package fake

import (
	"github.com/oxhq/cfind/internal/cursor"
	"github.com/oxhq/cfind/internal/ref"
)

// Node is a fake cursor: every field is a plain value, set directly by test
// code building a tree.
type Node struct {
	kind        cursor.Kind
	spelling    string
	anon        bool
	pretty      string
	file        string
	line, col   int
	opaque      ref.Opaque
	isAggType   bool
	canonUnder  ref.Opaque
	incomplete  bool
	children    []cursor.Cursor
}

// NewNode builds a fake cursor node.
func NewNode(kind cursor.Kind, spelling string, opts ...Option) *Node {
	n := &Node{kind: kind, spelling: spelling}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Option configures a Node built by NewNode.
type Option func(*Node)

func Anonymous() Option        { return func(n *Node) { n.anon = true } }
func Pretty(p string) Option   { return func(n *Node) { n.pretty = p } }
func At(file string, line, col int) Option {
	return func(n *Node) { n.file = file; n.line = line; n.col = col }
}
func Opaque(id ref.Opaque) Option { return func(n *Node) { n.opaque = id } }
func AggregateType() Option      { return func(n *Node) { n.isAggType = true } }
func Underlying(id ref.Opaque) Option {
	return func(n *Node) { n.canonUnder = id }
}
func Incomplete() Option { return func(n *Node) { n.incomplete = true } }
func Children(cs ...*Node) Option {
	return func(n *Node) {
		n.children = make([]cursor.Cursor, len(cs))
		for i, c := range cs {
			n.children[i] = c
		}
	}
}

func (n *Node) Kind() cursor.Kind           { return n.kind }
func (n *Node) Spelling() string            { return n.spelling }
func (n *Node) IsAnonymousRecord() bool     { return n.anon }
func (n *Node) PrettyPrints() string        { return n.pretty }
func (n *Node) ExpansionLocation() (string, int, int) { return n.file, n.line, n.col }
func (n *Node) OpaqueType() ref.Opaque      { return n.opaque }
func (n *Node) IsAggregateType() bool       { return n.isAggType }
func (n *Node) CanonicalUnderlyingType() ref.Opaque { return n.canonUnder }
func (n *Node) IsIncomplete() bool          { return n.incomplete }
func (n *Node) Children() []cursor.Cursor   { return n.children }

// Stream is a fake cursor.Stream wrapping a root Node and an include list.
type Stream struct {
	includes []string
	root     *Node
}

// NewStream builds a fake Stream. root's Kind should be KindTranslationUnit.
func NewStream(includes []string, root *Node) *Stream {
	return &Stream{includes: includes, root: root}
}

func (s *Stream) Includes() []string   { return s.includes }
func (s *Stream) Root() cursor.Cursor  { return s.root }
