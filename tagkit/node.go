package tagkit

import (
	"fmt"
	"io"
	"strings"
)

// Node is a parse tree node.
//
// A leaf is a lifted Token.  An internal node's Content is the ordered concatenation of its
// children's Content and its Tags are exactly the tags it was created with.
type Node struct {
	Content  string
	Tags     TagSet
	Children []*Node
	Line     int
	Char     int
	File     string
}

// Lift promotes each Token to a leaf Node (1:1).
func Lift(tokens Tokens) []*Node {
	nodes := make([]*Node, len(tokens))
	for i := range tokens {
		tok := &tokens[i]
		nodes[i] = &Node{
			Content: tok.Content(),
			Tags:    tok.Tags.Clone(),
			Line:    tok.Line,
			Char:    tok.Char,
			File:    tok.File(),
		}
	}
	return nodes
}

// NewParent returns a Node whose children are run (in order) and whose tags are exactly tags.
// Position is taken from run[0].
func NewParent(run []*Node, tags []string) *Node {
	parent := &Node{
		Tags:     NewTagSet(tags...),
		Children: make([]*Node, len(run)),
	}
	copy(parent.Children, run)

	b := strings.Builder{}
	for _, child := range run {
		b.WriteString(child.Content)
	}
	parent.Content = b.String()

	if len(run) > 0 {
		parent.Line = run[0].Line
		parent.Char = run[0].Char
		parent.File = run[0].File
	}
	return parent
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Depth returns the number of levels in the tree rooted at n (a leaf has depth 1).
func (n *Node) Depth() int {
	depth := 0
	for _, child := range n.Children {
		if d := child.Depth(); d > depth {
			depth = d
		}
	}
	return depth + 1
}

func (n *Node) String() string {
	return fmt.Sprintf("%q (line %d, char %d in %s): %v", n.Content, n.Line, n.Char, n.File, n.Tags)
}

// WriteTree writes n and its descendants, one node per line, children indented below their parent.
func (n *Node) WriteTree(out io.Writer, opts PrintOpts) {
	buf := strings.Builder{}
	buf.Grow(256)
	n.appendTree(&buf, opts, 0)
	io.WriteString(out, buf.String())
}

func (n *Node) appendTree(buf *strings.Builder, opts PrintOpts, depth int) {
	if len(opts.Label) > 0 {
		buf.WriteString(opts.Label)
	}
	for i := 0; i < depth; i++ {
		buf.WriteString(opts.Indent)
	}
	if opts.Position {
		buf.WriteString(n.String())
	} else {
		fmt.Fprintf(buf, "%q: %v", n.Content, n.Tags)
	}
	buf.WriteByte('\n')

	for _, child := range n.Children {
		child.appendTree(buf, opts, depth+1)
	}
}

// WriteNodes writes each tree of a node sequence.
func WriteNodes(out io.Writer, nodes []*Node, opts PrintOpts) {
	for _, n := range nodes {
		n.WriteTree(out, opts)
	}
}
