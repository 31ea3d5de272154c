package ast

import (
	"fmt"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// NodeID indexes a node within an Expr arena. Nodes are stored in a flat
// slice (not linked by pointers) to avoid cyclic parent/child ownership,
// per spec §9's arena design note; this mirrors
// original_source/src/models/relational_algebra.rs's ExpressionArena.
type NodeID int

// none is the zero value of an optional NodeID field.
const none NodeID = -1

// NodeKind tags the variant of relational-algebra operator a Node holds
// (spec §3: "Variant of: Relation(atom); Selection(...); Projection(...);
// Product; Join(...)").
type NodeKind uint8

const (
	// NodeRelation is a leaf scan of a body atom.
	NodeRelation NodeKind = iota
	// NodeSelection retains rows matching a literal or an equi-column test.
	NodeSelection
	// NodeProjection re-orders/narrows columns, deduplicating rows.
	NodeProjection
	// NodeProduct is the unrestricted Cartesian product of its children.
	NodeProduct
	// NodeJoin is an equi-join on one column from each child.
	NodeJoin
)

// Node is one entry in an Expr arena.
type Node struct {
	Kind NodeKind

	// NodeRelation:
	RelAtom Atom
	// Column offset of this leaf's first term within the enclosing
	// product's concatenated term vector (spec §4.2 step 2).
	ColumnOffset int

	// NodeSelection:
	SelCol      int
	SelIsColumn bool // true: equi-selection against SelTargetCol; false: literal
	SelLiteral  value.Value
	SelTargetCol int

	// NodeProjection:
	ProjCols []int

	// NodeJoin:
	JoinLeftCol  int
	JoinRightCol int

	parent     NodeID
	leftChild  NodeID
	rightChild NodeID
}

// Expr is an arena of relational-algebra nodes with a single root,
// acyclic by construction (spec §3).
type Expr struct {
	nodes []Node
	root  NodeID
}

// NewExpr returns an empty arena with no root.
func NewExpr() *Expr {
	return &Expr{root: none}
}

// Root returns the arena's current root, or ok=false if the arena is empty.
func (e *Expr) Root() (NodeID, bool) {
	if e.root == none {
		return 0, false
	}
	return e.root, true
}

// Node returns the node stored at id.
func (e *Expr) Node(id NodeID) Node {
	return e.nodes[id]
}

// Parent returns id's parent, or ok=false at the root.
func (e *Expr) Parent(id NodeID) (NodeID, bool) {
	p := e.nodes[id].parent
	if p == none {
		return 0, false
	}
	return p, true
}

// Children returns id's left and right children; either may be ok=false.
func (e *Expr) Children(id NodeID) (left NodeID, lok bool, right NodeID, rok bool) {
	n := e.nodes[id]
	if n.leftChild != none {
		left, lok = n.leftChild, true
	}
	if n.rightChild != none {
		right, rok = n.rightChild, true
	}
	return
}

func (e *Expr) allocate(n Node) NodeID {
	n.parent, n.leftChild, n.rightChild = none, none, none
	id := NodeID(len(e.nodes))
	e.nodes = append(e.nodes, n)
	if e.root == none {
		e.root = id
	}
	return id
}

// AddRelation allocates a new leaf scan node for atom, recorded at the
// given column offset within the enclosing product (spec §4.2 step 2).
func (e *Expr) AddRelation(atom Atom, columnOffset int) NodeID {
	return e.allocate(Node{Kind: NodeRelation, RelAtom: atom, ColumnOffset: columnOffset})
}

// AddProduct allocates a Product node over left and right, and sets it as
// the new root (the left-deep chaining described in spec §4.2 step 2).
func (e *Expr) AddProduct(left, right NodeID) NodeID {
	id := e.allocate(Node{Kind: NodeProduct})
	e.setLeftChild(id, left)
	e.setRightChild(id, right)
	e.setRoot(id)
	return id
}

// WrapSelectionLiteral wraps child in a Selection(col, literal) node and
// makes the wrapper the new root (spec §4.2 step 3).
func (e *Expr) WrapSelectionLiteral(child NodeID, col int, lit value.Value) NodeID {
	id := e.allocate(Node{Kind: NodeSelection, SelCol: col, SelLiteral: lit})
	e.setLeftChild(id, child)
	e.setRoot(id)
	return id
}

// WrapSelectionColumn wraps child in an equi-selection Selection(col,
// target_col) node and makes the wrapper the new root (spec §4.2 step 4).
func (e *Expr) WrapSelectionColumn(child NodeID, col, targetCol int) NodeID {
	id := e.allocate(Node{Kind: NodeSelection, SelCol: col, SelIsColumn: true, SelTargetCol: targetCol})
	e.setLeftChild(id, child)
	e.setRoot(id)
	return id
}

// WrapProjection wraps child in a Projection(indices) node and makes the
// wrapper the new root (spec §4.2 step 5).
func (e *Expr) WrapProjection(child NodeID, cols []int) NodeID {
	id := e.allocate(Node{Kind: NodeProjection, ProjCols: append([]int(nil), cols...)})
	e.setLeftChild(id, child)
	e.setRoot(id)
	return id
}

// AddJoin allocates a Join(left, right, leftCol, rightCol) node, used by
// the algebraic evaluator's rewrite of a Product-plus-equi-Selection into
// a dedicated sort-merge join node (spec §4.4).
func (e *Expr) AddJoin(left, right NodeID, leftCol, rightCol int) NodeID {
	id := e.allocate(Node{Kind: NodeJoin, JoinLeftCol: leftCol, JoinRightCol: rightCol})
	e.setLeftChild(id, left)
	e.setRightChild(id, right)
	e.setRoot(id)
	return id
}

func (e *Expr) setLeftChild(parent, child NodeID) {
	e.nodes[parent].leftChild = child
	e.nodes[child].parent = parent
}

func (e *Expr) setRightChild(parent, child NodeID) {
	e.nodes[parent].rightChild = child
	e.nodes[child].parent = parent
}

// setRoot records id as the tree's root. It does not touch any parent
// pointer; a wrapper's link to the previous root is set by setLeftChild.
func (e *Expr) setRoot(id NodeID) {
	e.root = id
}

func (e *Expr) String() string {
	root, ok := e.Root()
	if !ok {
		return "<empty>"
	}
	return e.stringNode(root)
}

func (e *Expr) stringNode(id NodeID) string {
	n := e.nodes[id]
	switch n.Kind {
	case NodeRelation:
		return n.RelAtom.String(nil)
	case NodeSelection:
		if n.SelIsColumn {
			return fmt.Sprintf("σ_%d=%d(%s)", n.SelCol, n.SelTargetCol, e.stringNode(n.leftChild))
		}
		return fmt.Sprintf("σ_%d=%s(%s)", n.SelCol, n.SelLiteral.String(), e.stringNode(n.leftChild))
	case NodeProjection:
		return fmt.Sprintf("π_%v(%s)", n.ProjCols, e.stringNode(n.leftChild))
	case NodeProduct:
		return fmt.Sprintf("(%s × %s)", e.stringNode(n.leftChild), e.stringNode(n.rightChild))
	case NodeJoin:
		return fmt.Sprintf("(%s ⋈_%d=%d %s)", e.stringNode(n.leftChild), n.JoinLeftCol, n.JoinRightCol, e.stringNode(n.rightChild))
	default:
		return "<?>"
	}
}
