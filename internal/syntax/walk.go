package syntax

// Parents maps a node to its parent. It is built during a tree walk instead
// of storing back-pointers in Node, so ownership stays strictly hierarchical.
type Parents map[*Node]*Node

// Of returns n's parent, or nil for the root and unknown nodes.
func (p Parents) Of(n *Node) *Node {
	return p[n]
}

// Ancestor returns the nth ancestor of n (1 is the parent).
func (p Parents) Ancestor(n *Node, depth int) *Node {
	for i := 0; i < depth && n != nil; i++ {
		n = p[n]
	}
	return n
}

// Depth returns the number of ancestors of n.
func (p Parents) Depth(n *Node) int {
	d := 0
	for n = p[n]; n != nil; n = p[n] {
		d++
	}
	return d
}

// Walk visits root and its descendants in pre-order. visit receives the
// node's parent (nil for root); returning false skips the node's children.
func Walk(root *Node, visit func(n, parent *Node) bool) {
	if root == nil {
		return
	}
	walk(root, nil, visit)
}

func walk(n, parent *Node, visit func(n, parent *Node) bool) {
	if !visit(n, parent) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, visit)
	}
}

// IndexParents builds the parent index for the tree under root in one walk.
func IndexParents(root *Node) Parents {
	parents := make(Parents)
	Walk(root, func(n, parent *Node) bool {
		if parent != nil {
			parents[n] = parent
		}
		return true
	})
	return parents
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node, *Node) bool {
		total++
		return true
	})
	return total
}

// Equal reports whether two trees are structurally identical: same kinds,
// fields, spans and text in the same shape.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Field != b.Field || a.Text != b.Text || a.Span() != b.Span() {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
