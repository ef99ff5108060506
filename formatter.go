package htmlsketch

import (
	"bufio"
	"io"
	"strings"
)

// DefaultIndentWidth is the number of spaces added per nesting level.
const DefaultIndentWidth = 4

// FormatOptions controls the notation layout.
type FormatOptions struct {
	IndentWidth int
	// KeepDivTag prints "div" unless the element has a real id or class.
	// By default the div tag is always dropped.
	KeepDivTag bool
}

// DefaultFormatOptions returns the layout used by the CLI without flags.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{IndentWidth: DefaultIndentWidth}
}

// Formatter renders document trees into the sketch notation.
type Formatter struct {
	options *FormatOptions
}

// NewFormatter creates a formatter. A nil options value means defaults.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format writes the notation for the tree rooted at n.
//
// Format panics with *InvariantError when it meets a processing
// instruction, which the HTML parser never produces.
func (f *Formatter) Format(w io.Writer, n *Node) error {
	p := newPrinter(w)
	f.walk(p, n, 0)
	return p.flush()
}

// Render writes the tree of doc followed by its diagnostics report.
func (f *Formatter) Render(w io.Writer, doc *Document) error {
	p := newPrinter(w)
	f.walk(p, doc.Root, 0)
	p.diagnostics(doc.Diagnostics)
	return p.flush()
}

func (f *Formatter) walk(p *printer, n *Node, indent int) {
	if n == nil {
		panic(&InvariantError{Message: "nil node in document tree"})
	}

	switch n.Kind {
	case DocumentNode:
		p.line(0, "html! {")
		f.walkChildren(p, n, indent)
		p.line(0, "}")

	case DoctypeNode:
		p.line(indent, "(DOCTYPE)")

	case TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			p.line(indent, `"`, Escape(text), `"`)
		}

	case CommentNode:
		p.line(indent, "/* ", n.Data, " */")

	case ElementNode:
		attrs := ClassifyAttrs(n.Attrs)
		tag := n.Name
		if tag == "div" && f.suppressDiv(attrs) {
			tag = ""
		}

		p.indent(indent)
		p.print(tag, attrs.IDString(), attrs.ClassString(), attrs.PropString())
		if len(n.Children) == 0 {
			p.print(";\n")
			return
		}
		p.print(" {\n")
		f.walkChildren(p, n, indent)
		p.line(indent, "}")

	default:
		panic(&InvariantError{Kind: n.Kind, Message: "unsupported node kind " + n.Kind.String()})
	}
}

func (f *Formatter) walkChildren(p *printer, n *Node, indent int) {
	for _, child := range n.Children {
		f.walk(p, child, indent+f.options.IndentWidth)
	}
}

func (f *Formatter) suppressDiv(attrs AttrBuckets) bool {
	if !f.options.KeepDivTag {
		return true
	}
	return len(attrs.IDs) > 0 || len(attrs.Classes) > 0
}

// WriteDiagnostics writes the "Parse errors:" report for diags. Nothing is
// written when diags is empty.
func WriteDiagnostics(w io.Writer, diags []string) error {
	p := newPrinter(w)
	p.diagnostics(diags)
	return p.flush()
}

// printer buffers output and keeps the first write error.
type printer struct {
	w   *bufio.Writer
	err error
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: bufio.NewWriter(w)}
}

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = p.w.WriteString(s)
	}
}

func (p *printer) indent(n int) {
	if n > 0 {
		p.print(strings.Repeat(" ", n))
	}
}

func (p *printer) line(indent int, parts ...string) {
	p.indent(indent)
	p.print(parts...)
	p.print("\n")
}

func (p *printer) diagnostics(diags []string) {
	if len(diags) == 0 {
		return
	}
	p.print("\n")
	p.line(0, "Parse errors:")
	for _, msg := range diags {
		p.line(4, msg)
	}
}

func (p *printer) flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}
