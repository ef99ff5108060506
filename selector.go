package htmlsketch

import (
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

// SelectCSS returns the outermost nodes under root matching a CSS selector,
// in document order.
func SelectCSS(root *html.Node, selector string) ([]*html.Node, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, NewSelectError(fmt.Sprintf("invalid CSS selector %q", selector), err)
	}

	doc := goquery.NewDocumentFromNode(root)
	return outermost(doc.FindMatcher(matcher).Nodes), nil
}

// SelectXPath returns the outermost nodes under root matching an XPath
// expression, in document order.
func SelectXPath(root *html.Node, expr string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, NewSelectError(fmt.Sprintf("invalid XPath expression %q", expr), err)
	}
	return outermost(nodes), nil
}

// outermost drops duplicates and nodes nested inside another match so that
// no subtree is printed twice.
func outermost(nodes []*html.Node) []*html.Node {
	nodes = lo.Uniq(nodes)
	matched := lo.Associate(nodes, func(n *html.Node) (*html.Node, bool) {
		return n, true
	})

	return lo.Filter(nodes, func(n *html.Node, _ int) bool {
		for p := n.Parent; p != nil; p = p.Parent {
			if matched[p] {
				return false
			}
		}
		return true
	})
}

// Selection restricts a parsed tree to the subtrees matching a CSS selector
// or an XPath expression. At most one of the two may be set.
type Selection struct {
	CSS   string
	XPath string
}

// Empty reports whether the selection keeps the whole document.
func (s Selection) Empty() bool {
	return s.CSS == "" && s.XPath == ""
}

// Apply converts root, keeping only the selected subtrees. The result is
// always a document node; matched subtrees become its children.
func (s Selection) Apply(root *html.Node) (*Node, error) {
	if s.Empty() {
		return FromHTML(root)
	}
	if s.CSS != "" && s.XPath != "" {
		return nil, NewConfigError("select and xpath are mutually exclusive")
	}

	var (
		nodes []*html.Node
		err   error
	)
	if s.CSS != "" {
		nodes, err = SelectCSS(root, s.CSS)
	} else {
		nodes, err = SelectXPath(root, s.XPath)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("selection applied", "css", s.CSS, "xpath", s.XPath, "matches", len(nodes))

	doc := NewDocument()
	for _, n := range nodes {
		child, err := FromHTML(n)
		if err != nil {
			return nil, err
		}
		if child.Kind == DocumentNode {
			return child, nil
		}
		doc.Children = append(doc.Children, child)
	}
	return doc, nil
}
