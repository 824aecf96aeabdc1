package node

// TypeText is the node type that carries characters and a text style.
const TypeText = "TEXT"

// RawNode is a design node as returned by the Figma API. Only the attributes
// the projector reads are decoded; everything else is dropped on decode.
type RawNode struct {
	ID                  *string    `json:"id"`
	Name                *string    `json:"name"`
	Type                *string    `json:"type"`
	AbsoluteBoundingBox *RawBox    `json:"absoluteBoundingBox"`
	Fills               Raw        `json:"fills"`
	Characters          *string    `json:"characters"`
	Style               *RawStyle  `json:"style"`
	Children            []*RawNode `json:"children"`
}

// RawBox is the absolute bounding box of a RawNode.
type RawBox struct {
	X      Opt[float64] `json:"x"`
	Y      Opt[float64] `json:"y"`
	Width  Opt[float64] `json:"width"`
	Height Opt[float64] `json:"height"`
}

// RawStyle is the type style of a TEXT RawNode.
type RawStyle struct {
	FontFamily    Opt[string]  `json:"fontFamily"`
	FontWeight    Opt[float64] `json:"fontWeight"`
	FontSize      Opt[float64] `json:"fontSize"`
	LetterSpacing Opt[float64] `json:"letterSpacing"`
	LineHeightPx  Opt[float64] `json:"lineHeightPx"`
}

// IsText reports whether the node's type is TEXT.
func (n *RawNode) IsText() bool {
	return n != nil && n.Type != nil && *n.Type == TypeText
}

// ProjectedNode is the reduced form of a RawNode. Pointer and slice fields
// are nil exactly when the source lacked the attribute.
type ProjectedNode struct {
	ID                  *string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name                *string          `json:"name,omitempty" yaml:"name,omitempty"`
	Type                *string          `json:"type,omitempty" yaml:"type,omitempty"`
	AbsoluteBoundingBox *Box             `json:"absoluteBoundingBox,omitempty" yaml:"absoluteBoundingBox,omitempty"`
	Fills               Raw              `json:"fills,omitempty" yaml:"fills,omitempty"`
	Characters          *string          `json:"characters,omitempty" yaml:"characters,omitempty"`
	Style               *Style           `json:"style,omitempty" yaml:"style,omitempty"`
	Children            []*ProjectedNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Box always carries all four sub-fields; unset ones encode as null.
type Box struct {
	X      Opt[float64] `json:"x" yaml:"x"`
	Y      Opt[float64] `json:"y" yaml:"y"`
	Width  Opt[float64] `json:"width" yaml:"width"`
	Height Opt[float64] `json:"height" yaml:"height"`
}

// Style always carries all five sub-fields; unset ones encode as null.
type Style struct {
	FontFamily    Opt[string]  `json:"fontFamily" yaml:"fontFamily"`
	FontWeight    Opt[float64] `json:"fontWeight" yaml:"fontWeight"`
	FontSize      Opt[float64] `json:"fontSize" yaml:"fontSize"`
	LetterSpacing Opt[float64] `json:"letterSpacing" yaml:"letterSpacing"`
	LineHeightPx  Opt[float64] `json:"lineHeightPx" yaml:"lineHeightPx"`
}
