package node

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes     int `json:"nodes"`
	Depth     int `json:"depth"`
	TextNodes int `json:"textNodes"`
}

// Measure walks a RawNode tree and counts nodes, levels and TEXT nodes.
func Measure(root *RawNode) Stats {
	var s Stats
	if root == nil {
		return s
	}

	type item struct {
		n     *RawNode
		depth int
	}
	stack := []item{{root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s.Nodes++
		if it.depth > s.Depth {
			s.Depth = it.depth
		}
		if it.n.IsText() {
			s.TextNodes++
		}
		for _, c := range it.n.Children {
			if c != nil {
				stack = append(stack, item{c, it.depth + 1})
			}
		}
	}
	return s
}

// MeasureProjected is Measure for a projected tree.
func MeasureProjected(root *ProjectedNode) Stats {
	var s Stats
	if root == nil {
		return s
	}

	type item struct {
		n     *ProjectedNode
		depth int
	}
	stack := []item{{root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s.Nodes++
		if it.depth > s.Depth {
			s.Depth = it.depth
		}
		if it.n.Type != nil && *it.n.Type == TypeText {
			s.TextNodes++
		}
		for _, c := range it.n.Children {
			if c != nil {
				stack = append(stack, item{c, it.depth + 1})
			}
		}
	}
	return s
}

// Walk calls fn for every node of the projected tree in pre-order.
func (p *ProjectedNode) Walk(fn func(*ProjectedNode)) {
	if p == nil {
		return
	}
	stack := []*ProjectedNode{p}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		// push in reverse so children are visited in order
		for i := len(n.Children) - 1; i >= 0; i-- {
			if n.Children[i] != nil {
				stack = append(stack, n.Children[i])
			}
		}
	}
}
