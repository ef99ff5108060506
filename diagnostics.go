package htmlsketch

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// impliedElements are always open, whether or not their start tag was
// written, so their end tags are never unexpected.
var impliedElements = map[string]bool{
	"html": true, "head": true, "body": true,
}

// Diagnose scans src with the HTML tokenizer and returns warnings about
// malformed markup, in source order. It never fails: the parser recovers
// from all of these, and the messages are informational only.
func Diagnose(src []byte) []string {
	d := &diagnoser{line: 1}
	z := html.NewTokenizer(bytes.NewReader(src))

	for {
		tt := z.Next()
		raw := z.Raw()
		line := d.line
		d.line += bytes.Count(raw, []byte{'\n'})

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				d.report(line, "tokenizer error: %v", err)
			}
			return d.diags

		case html.DoctypeToken:
			if d.seenTag {
				d.report(line, "unexpected DOCTYPE after the first tag")
			}
			d.seenDoctype = true

		case html.StartTagToken, html.SelfClosingTagToken:
			d.startTag(line, z.Token(), tt == html.SelfClosingTagToken)

		case html.EndTagToken:
			d.endTag(line, z.Token())
		}
	}
}

type diagnoser struct {
	diags       []string
	open        []string
	line        int
	seenDoctype bool
	seenTag     bool
}

func (d *diagnoser) report(line int, format string, args ...any) {
	d.diags = append(d.diags, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
}

func (d *diagnoser) firstTag(line int, name string) {
	if !d.seenTag && !d.seenDoctype {
		d.report(line, "missing DOCTYPE before <%s>", name)
	}
	d.seenTag = true
}

func (d *diagnoser) startTag(line int, tok html.Token, selfClosing bool) {
	d.firstTag(line, tok.Data)

	seen := make(map[string]bool, len(tok.Attr))
	for _, attr := range tok.Attr {
		if seen[attr.Key] {
			d.report(line, "duplicate attribute %q on <%s>", attr.Key, tok.Data)
		}
		seen[attr.Key] = true
	}

	if voidElements[tok.Data] {
		return
	}
	if selfClosing {
		if tok.Data == "svg" || tok.Data == "math" || d.inForeignContent() {
			return
		}
		d.report(line, "self-closing syntax on non-void element <%s>", tok.Data)
	}
	d.open = append(d.open, tok.Data)
}

func (d *diagnoser) endTag(line int, tok html.Token) {
	d.firstTag(line, tok.Data)

	for i := len(d.open) - 1; i >= 0; i-- {
		if d.open[i] == tok.Data {
			d.open = d.open[:i]
			return
		}
	}
	if impliedElements[tok.Data] {
		return
	}
	d.report(line, "unexpected end tag </%s>", tok.Data)
}

func (d *diagnoser) inForeignContent() bool {
	for _, name := range d.open {
		if name == "svg" || name == "math" {
			return true
		}
	}
	return false
}
