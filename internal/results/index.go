package results

import "errors"

// Tree is the indexed, read-only projection of a ResultSet.
type Tree struct {
	// Lookup maps every node id to its node.
	Lookup map[ID]*ResultNode

	// Root is the node named by root_result.
	Root *ResultNode

	// RootChildren are the root's direct children, in order.
	RootChildren []*ResultNode

	// order keeps the payload order for Nodes.
	order []*ResultNode
}

// Index builds the id lookup for set and resolves the root's children.
//
// It fails with *DuplicateIDError when an id occurs twice, and with
// *MissingNodeError when root_result or one of the root's children is not
// in the set. Deeper references are not checked here; see Tree.Validate.
// The returned tree does not share memory with set.
func Index(set ResultSet) (*Tree, error) {
	nodes := make([]ResultNode, len(set.Results))
	copy(nodes, set.Results)

	lookup := make(map[ID]*ResultNode, len(nodes))
	positions := make(map[ID]int, len(nodes))
	order := make([]*ResultNode, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if first, dup := positions[n.ID]; dup {
			return nil, &DuplicateIDError{ID: n.ID, First: first, Second: i}
		}
		positions[n.ID] = i
		lookup[n.ID] = n
		order = append(order, n)
	}

	root, ok := lookup[set.RootResult]
	if !ok {
		return nil, &MissingNodeError{ID: set.RootResult}
	}

	t := &Tree{Lookup: lookup, Root: root, order: order}
	children, err := t.Children(root)
	if err != nil {
		return nil, err
	}
	t.RootChildren = children

	return t, nil
}

// Get returns the node with the given id.
func (t *Tree) Get(id ID) (*ResultNode, bool) {
	n, ok := t.Lookup[id]
	return n, ok
}

// Len returns the number of indexed nodes.
func (t *Tree) Len() int {
	return len(t.Lookup)
}

// Nodes returns every node in payload order.
func (t *Tree) Nodes() []*ResultNode {
	out := make([]*ResultNode, len(t.order))
	copy(out, t.order)
	return out
}

// Children resolves the children of n through the lookup, preserving order.
func (t *Tree) Children(n *ResultNode) ([]*ResultNode, error) {
	children := make([]*ResultNode, 0, len(n.Children))
	for _, id := range n.Children {
		child, ok := t.Lookup[id]
		if !ok {
			return nil, &MissingNodeError{ID: id, Parent: n.ID}
		}
		children = append(children, child)
	}
	return children, nil
}

// WalkFunc is called for every node visited by Walk. Depth is 0 for the
// node the walk started at. Returning SkipChildren skips the node's subtree.
type WalkFunc func(n *ResultNode, depth int) error

// SkipChildren can be returned by a WalkFunc to skip a subtree.
var SkipChildren = errors.New("skip children")

// Walk visits the tree depth-first in pre-order starting at the root.
func (t *Tree) Walk(fn WalkFunc) error {
	return t.WalkFrom(t.Root, fn)
}

// WalkFrom visits the subtree rooted at start depth-first in pre-order.
// A node that is its own ancestor yields a *CycleError.
func (t *Tree) WalkFrom(start *ResultNode, fn WalkFunc) error {
	onPath := make(map[ID]bool)
	var path []ID

	var visit func(n *ResultNode, depth int) error
	visit = func(n *ResultNode, depth int) error {
		if onPath[n.ID] {
			cycle := append(append([]ID(nil), path...), n.ID)
			return &CycleError{Path: cycle}
		}

		if err := fn(n, depth); err != nil {
			if errors.Is(err, SkipChildren) {
				return nil
			}
			return err
		}

		children, err := t.Children(n)
		if err != nil {
			return err
		}

		onPath[n.ID] = true
		path = append(path, n.ID)
		for _, child := range children {
			if err := visit(child, depth+1); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(onPath, n.ID)

		return nil
	}

	return visit(start, 0)
}

// Validate checks referential integrity of every node, not only the root:
// every child id must resolve and no node may be its own ancestor.
// All problems found are joined into one error.
func (t *Tree) Validate() error {
	var errs []error
	for _, n := range t.order {
		for _, id := range n.Children {
			if _, ok := t.Lookup[id]; !ok {
				errs = append(errs, &MissingNodeError{ID: id, Parent: n.ID})
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return t.Walk(func(*ResultNode, int) error { return nil })
}

// Unreachable returns nodes that cannot be reached from the root, in
// payload order. It assumes the tree is valid.
func (t *Tree) Unreachable() []*ResultNode {
	seen := make(map[ID]bool, len(t.order))
	_ = t.Walk(func(n *ResultNode, _ int) error {
		seen[n.ID] = true
		return nil
	})

	var out []*ResultNode
	for _, n := range t.order {
		if !seen[n.ID] {
			out = append(out, n)
		}
	}
	return out
}
