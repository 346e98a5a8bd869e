package calc

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Trees are never
// modified after parsing.
type node struct {
	kind nodeKind

	// name is the identifier for nodeName and the function name for nodeCall.
	name string
	// num is the value of a nodeNum.
	num Number

	left  *node
	right *node

	// args are the arguments of a nodeCall.
	args []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // literal num
	nodeName // lookup(name)

	// nodeCall calls the function name with args. If the callee was not an
	// identifier, name is empty and left is the callee.
	nodeCall

	nodeNeg      // evaluate left, then negate
	nodePos      // evaluate left
	nodeAdd      // evaluate left, add right
	nodeSub      // evaluate left, sub right
	nodeMul      // evaluate left, mul right
	nodeDiv      // evaluate left, div by right
	nodeMod      // evaluate left, mod by right
	nodeFloorDiv // evaluate left, floor div by right
	nodePow      // evaluate left, exp by right
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

// allowed reports whether the evaluator has a case for k.
func (k nodeKind) allowed() bool {
	switch k {
	case nodeNum, nodeName, nodeCall,
		nodeNeg, nodePos,
		nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodeFloorDiv, nodePow:
		return true
	default:
		return false
	}
}

// symbol returns the operator text for an operator node kind.
func (k nodeKind) symbol() string {
	switch k {
	case nodeNeg, nodeSub:
		return "-"
	case nodePos, nodeAdd:
		return "+"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodeMod:
		return "%"
	case nodeFloorDiv:
		return "//"
	case nodePow:
		return "**"
	default:
		return ""
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n fully parenthesized so that the result parses to the same tree.
func (n *node) fmt(b *strings.Builder) {
	if n == nil {
		b.WriteString("$nil$")
		return
	}
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNum:
		b.WriteString(n.num.String())
	case nodeName:
		b.WriteString(n.name)
	case nodeCall:
		if n.left != nil {
			n.left.fmt(b)
		} else {
			b.WriteString(n.name)
		}
		b.WriteByte('(')
		for i, arg := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.fmt(b)
		}
		b.WriteByte(')')
	case nodeNeg, nodePos:
		b.WriteString(n.kind.symbol())
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodeFloorDiv, nodePow:
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.kind.symbol())
		b.WriteByte(' ')
		n.right.fmt(b)
	default:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		b.WriteString(n.kind.String())
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	}
}
