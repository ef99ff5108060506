package htmlsketch

import "fmt"

// NodeKind identifies which variant a Node holds.
type NodeKind int

const (
	DocumentNode NodeKind = iota
	DoctypeNode
	TextNode
	CommentNode
	ElementNode
	// ProcessingInstructionNode is never produced by the HTML parser.
	ProcessingInstructionNode
)

func (k NodeKind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case DoctypeNode:
		return "doctype"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ElementNode:
		return "element"
	case ProcessingInstructionNode:
		return "processing-instruction"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Attribute is a single name/value pair of an element. Names may repeat.
type Attribute struct {
	Name  string
	Value string
}

// Node is one entry of a document tree.
//
// Which fields are meaningful depends on Kind:
//   - DocumentNode: Children
//   - DoctypeNode: Name, PublicID, SystemID
//   - TextNode, CommentNode, ProcessingInstructionNode: Data
//   - ElementNode: Name (the tag), Attrs, Children
type Node struct {
	Kind     NodeKind
	Name     string
	PublicID string
	SystemID string
	Data     string
	Attrs    []Attribute
	Children []*Node
}

// Document is a parsed tree together with the diagnostics produced while
// reading it.
type Document struct {
	Root        *Node
	Diagnostics []string
}

// NewDocument returns an empty document root holding children.
func NewDocument(children ...*Node) *Node {
	return &Node{Kind: DocumentNode, Children: children}
}

// NewElement returns an element node.
func NewElement(tag string, attrs []Attribute, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Name: tag, Attrs: attrs, Children: children}
}

// NewText returns a text node.
func NewText(data string) *Node {
	return &Node{Kind: TextNode, Data: data}
}

// NewComment returns a comment node.
func NewComment(data string) *Node {
	return &Node{Kind: CommentNode, Data: data}
}

// NewDoctype returns a doctype node.
func NewDoctype(name, publicID, systemID string) *Node {
	return &Node{Kind: DoctypeNode, Name: name, PublicID: publicID, SystemID: systemID}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}
