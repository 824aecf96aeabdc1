package node

// Project reduces a RawNode tree to a ProjectedNode tree of identical shape.
// It never fails: missing attributes are simply not carried over. A nil root
// yields nil.
//
// The walk keeps its own stack of pending (source, destination) pairs, so
// tree depth is limited by memory rather than by the goroutine stack.
func Project(root *RawNode) *ProjectedNode {
	if root == nil {
		return nil
	}

	type frame struct {
		src *RawNode
		dst *ProjectedNode
	}

	out := projectAttrs(root)
	stack := []frame{{src: root, dst: out}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.src.Children) == 0 {
			continue
		}
		f.dst.Children = make([]*ProjectedNode, len(f.src.Children))
		for i, child := range f.src.Children {
			pc := projectAttrs(child)
			f.dst.Children[i] = pc
			if child != nil {
				stack = append(stack, frame{src: child, dst: pc})
			}
		}
	}
	return out
}

// projectAttrs copies the recognized attributes of a single node, leaving
// Children for the caller.
func projectAttrs(n *RawNode) *ProjectedNode {
	p := &ProjectedNode{}
	if n == nil {
		return p
	}

	p.ID = copyString(n.ID)
	p.Name = copyString(n.Name)
	p.Type = copyString(n.Type)

	if b := n.AbsoluteBoundingBox; b != nil {
		p.AbsoluteBoundingBox = &Box{
			X:      b.X,
			Y:      b.Y,
			Width:  b.Width,
			Height: b.Height,
		}
	}

	if n.Fills != nil {
		p.Fills = append(Raw(nil), n.Fills...)
	}

	if n.IsText() {
		p.Characters = copyString(n.Characters)
		if s := n.Style; s != nil {
			p.Style = &Style{
				FontFamily:    s.FontFamily,
				FontWeight:    s.FontWeight,
				FontSize:      s.FontSize,
				LetterSpacing: s.LetterSpacing,
				LineHeightPx:  s.LineHeightPx,
			}
		}
	}

	return p
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
