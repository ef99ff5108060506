package htmlsketch

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/net/html"
)

// ParseOptions configures the HTML parser.
type ParseOptions struct {
	// Scripting mirrors html.ParseOptionEnableScripting. With scripting on,
	// <noscript> content is kept as raw text.
	Scripting bool
}

// DefaultParseOptions matches the defaults of golang.org/x/net/html.
func DefaultParseOptions() *ParseOptions {
	return &ParseOptions{Scripting: true}
}

// ParseHTML parses r into an *html.Node tree.
func ParseHTML(r io.Reader, options *ParseOptions) (*html.Node, error) {
	if options == nil {
		options = DefaultParseOptions()
	}
	root, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(options.Scripting))
	if err != nil {
		return nil, NewParseError("failed to parse HTML", err)
	}
	return root, nil
}

// Parse reads a complete HTML document and converts it to a Node tree. The
// returned document carries no diagnostics; see Diagnose.
func Parse(r io.Reader, options *ParseOptions) (*Document, error) {
	root, err := ParseHTML(r, options)
	if err != nil {
		return nil, err
	}
	node, err := FromHTML(root)
	if err != nil {
		return nil, err
	}
	slog.Debug("parsed document", "nodes", node.Count())
	return &Document{Root: node}, nil
}

// ParseBytes parses src and attaches the diagnostics found by Diagnose.
func ParseBytes(src []byte, options *ParseOptions) (*Document, error) {
	doc, err := Parse(bytes.NewReader(src), options)
	if err != nil {
		return nil, err
	}
	doc.Diagnostics = Diagnose(src)
	return doc, nil
}

// FromHTML converts an x/net/html tree into a Node tree.
func FromHTML(n *html.Node) (*Node, error) {
	node := &Node{}

	switch n.Type {
	case html.DocumentNode:
		node.Kind = DocumentNode

	case html.DoctypeNode:
		node.Kind = DoctypeNode
		node.Name = n.Data
		for _, attr := range n.Attr {
			switch attr.Key {
			case "public":
				node.PublicID = attr.Val
			case "system":
				node.SystemID = attr.Val
			}
		}
		return node, nil

	case html.TextNode:
		node.Kind = TextNode
		node.Data = n.Data
		return node, nil

	case html.CommentNode:
		node.Kind = CommentNode
		node.Data = n.Data
		return node, nil

	case html.ElementNode:
		node.Kind = ElementNode
		node.Name = n.Data
		if len(n.Attr) > 0 {
			node.Attrs = make([]Attribute, 0, len(n.Attr))
		}
		// Foreign attributes such as xlink:href keep only their local name.
		for _, attr := range n.Attr {
			node.Attrs = append(node.Attrs, Attribute{Name: attr.Key, Value: attr.Val})
		}

	default:
		return nil, NewParseError(fmt.Sprintf("unsupported html node type %d", n.Type), nil)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		child, err := FromHTML(c)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}
