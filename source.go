package htmlsketch

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html/charset"
)

// Input formats accepted by the pipeline.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadInput reads the whole input. An empty path or "-" reads stdin.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, NewIOError("failed to read stdin", err)
		}
		slog.Debug("read input", "source", "stdin", "bytes", len(data))
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}
	slog.Debug("read input", "source", path, "bytes", len(data))
	return data, nil
}

// Decode converts src to UTF-8. With a charset label the input is
// transcoded from that charset. Otherwise it is taken as UTF-8: a leading
// byte order mark is dropped and every invalid byte becomes U+FFFD, unless
// strict is set, in which case invalid input is a DecodeError.
func Decode(src []byte, label string, strict bool) ([]byte, error) {
	if label == "" {
		src = bytes.TrimPrefix(src, utf8BOM)
		if utf8.Valid(src) {
			return src, nil
		}
		offset := invalidUTF8Offset(src)
		if strict {
			return nil, NewDecodeError(fmt.Sprintf("input is not valid UTF-8 (first bad byte at offset %d)", offset), nil)
		}
		slog.Debug("replacing invalid UTF-8", "first_offset", offset)
		return toValidUTF8(src), nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(src))
	if err != nil {
		return nil, NewDecodeError(fmt.Sprintf("unsupported charset %q", label), err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, NewDecodeError(fmt.Sprintf("failed to decode input as %s", label), err)
	}
	slog.Debug("decoded input", "charset", label, "bytes", len(out))
	return out, nil
}

func invalidUTF8Offset(src []byte) int {
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// toValidUTF8 replaces each byte that does not start a valid sequence with
// U+FFFD. bytes.ToValidUTF8 would merge a run of bad bytes into one.
func toValidUTF8(src []byte) []byte {
	out := make([]byte, 0, len(src)+8)
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			out = utf8.AppendRune(out, utf8.RuneError)
		} else {
			out = append(out, src[i:i+size]...)
		}
		i += size
	}
	return out
}

var markdown = goldmark.New(
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// RenderMarkdown converts Markdown source to an HTML fragment.
func RenderMarkdown(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, NewParseError("failed to render markdown", err)
	}
	return buf.Bytes(), nil
}
