package node

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrTreeTooDeep is returned when a tree exceeds DecodeOptions.MaxDepth.
	ErrTreeTooDeep = errors.New("node tree too deep")
	// ErrNullChild is returned when a children list contains a null entry.
	ErrNullChild = errors.New("null entry in children")
	// ErrNotObject is returned when the input is not a JSON object.
	ErrNotObject = errors.New("node is not a JSON object")
	// ErrInvalidJSON is returned for input that does not parse.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrFieldType is returned when a recognized attribute has the wrong
	// JSON type.
	ErrFieldType = errors.New("attribute has the wrong type")
)

// DecodeOptions bounds the trees Decode accepts.
type DecodeOptions struct {
	// MaxDepth is the maximum number of levels, root included. Zero means
	// no limit.
	MaxDepth int
}

// Decode parses a single RawNode and checks it is safe to hand to Project.
//
// Attribute names match exactly, so "Type" or "FontSize" are unrecognized
// keys and dropped like any other. A null attribute is treated as absent,
// except fills, which is kept verbatim.
func Decode(data []byte, opts DecodeOptions) (*RawNode, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("decoding node: %w", ErrInvalidJSON)
	}

	type item struct {
		src   gjson.Result
		dst   *RawNode
		depth int
	}
	root := &RawNode{}
	stack := []item{{gjson.ParseBytes(trimmed), root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if opts.MaxDepth > 0 && it.depth > opts.MaxDepth {
			return nil, fmt.Errorf("%w: more than %d levels", ErrTreeTooDeep, opts.MaxDepth)
		}
		children, err := decodeAttrs(it.src, it.dst)
		if err != nil {
			return nil, fmt.Errorf("decoding node %s: %w", nodeName(it.dst), err)
		}
		for i, c := range children {
			if c.Type == gjson.Null {
				return nil, fmt.Errorf("%w: node %s child %d", ErrNullChild, nodeName(it.dst), i)
			}
			if !c.IsObject() {
				return nil, fmt.Errorf("decoding node %s: %w",
					nodeName(it.dst), typeError(fmt.Sprintf("children[%d]", i), c, "object"))
			}
			child := &RawNode{}
			it.dst.Children[i] = child
			stack = append(stack, item{c, child, it.depth + 1})
		}
	}
	return root, nil
}

// decodeAttrs fills the scalar attributes of n from src and returns the
// unparsed children. Later duplicates of a key win.
func decodeAttrs(src gjson.Result, n *RawNode) ([]gjson.Result, error) {
	var children []gjson.Result
	var err error
	src.ForEach(func(key, v gjson.Result) bool {
		switch key.Str {
		case "id":
			n.ID, err = stringAttr(key.Str, v)
		case "name":
			n.Name, err = stringAttr(key.Str, v)
		case "type":
			n.Type, err = stringAttr(key.Str, v)
		case "characters":
			n.Characters, err = stringAttr(key.Str, v)
		case "fills":
			n.Fills = Raw(v.Raw)
		case "absoluteBoundingBox":
			n.AbsoluteBoundingBox, err = decodeBox(v)
		case "style":
			n.Style, err = decodeStyle(v)
		case "children":
			switch {
			case v.Type == gjson.Null:
				children, n.Children = nil, nil
			case v.IsArray():
				children = v.Array()
				n.Children = make([]*RawNode, len(children))
			default:
				err = typeError(key.Str, v, "array")
			}
		}
		return err == nil
	})
	return children, err
}

func decodeBox(v gjson.Result) (*RawBox, error) {
	if v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, typeError("absoluteBoundingBox", v, "object")
	}
	var b RawBox
	var err error
	v.ForEach(func(key, f gjson.Result) bool {
		switch key.Str {
		case "x":
			b.X, err = numberAttr(key.Str, f)
		case "y":
			b.Y, err = numberAttr(key.Str, f)
		case "width":
			b.Width, err = numberAttr(key.Str, f)
		case "height":
			b.Height, err = numberAttr(key.Str, f)
		}
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("absoluteBoundingBox: %w", err)
	}
	return &b, nil
}

func decodeStyle(v gjson.Result) (*RawStyle, error) {
	if v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, typeError("style", v, "object")
	}
	var s RawStyle
	var err error
	v.ForEach(func(key, f gjson.Result) bool {
		switch key.Str {
		case "fontFamily":
			var p *string
			if p, err = stringAttr(key.Str, f); p != nil {
				s.FontFamily = Some(*p)
			} else {
				s.FontFamily = Opt[string]{}
			}
		case "fontWeight":
			s.FontWeight, err = numberAttr(key.Str, f)
		case "fontSize":
			s.FontSize, err = numberAttr(key.Str, f)
		case "letterSpacing":
			s.LetterSpacing, err = numberAttr(key.Str, f)
		case "lineHeightPx":
			s.LineHeightPx, err = numberAttr(key.Str, f)
		}
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	return &s, nil
}

func stringAttr(name string, v gjson.Result) (*string, error) {
	switch v.Type {
	case gjson.Null:
		return nil, nil
	case gjson.String:
		s := v.Str
		return &s, nil
	default:
		return nil, typeError(name, v, "string")
	}
}

func numberAttr(name string, v gjson.Result) (Opt[float64], error) {
	switch v.Type {
	case gjson.Null:
		return Opt[float64]{}, nil
	case gjson.Number:
		return Some(v.Num), nil
	default:
		return Opt[float64]{}, typeError(name, v, "number")
	}
}

func typeError(name string, v gjson.Result, want string) error {
	got := strings.ToLower(v.Type.String())
	switch {
	case v.IsObject():
		got = "object"
	case v.IsArray():
		got = "array"
	}
	return fmt.Errorf("%w: %s is %s, want %s", ErrFieldType, name, got, want)
}

func nodeName(n *RawNode) string {
	if n.ID != nil {
		return *n.ID
	}
	return "<unnamed>"
}
