package htmlsketch

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sketcher runs the whole pipeline: acquire input, decode, parse, select,
// format and report diagnostics.
type Sketcher struct {
	config *Config
	stdin  io.Reader
}

// NewSketcher creates a pipeline for config reading stdin when no input
// file or URL is configured.
func NewSketcher(config *Config, stdin io.Reader) *Sketcher {
	return &Sketcher{config: config, stdin: stdin}
}

// Load acquires, decodes and parses the configured input.
func (s *Sketcher) Load() (*Document, error) {
	cfg := s.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, label, err := s.acquire()
	if err != nil {
		return nil, err
	}

	text, err := Decode(src, label, cfg.StrictUTF8)
	if err != nil {
		return nil, err
	}

	isMarkdown := strings.EqualFold(cfg.From, FormatMarkdown)
	if isMarkdown {
		text, err = RenderMarkdown(text)
		if err != nil {
			return nil, err
		}
	}

	root, err := ParseHTML(bytes.NewReader(text), cfg.ParseOptions())
	if err != nil {
		return nil, err
	}

	node, err := cfg.Selection().Apply(root)
	if err != nil {
		return nil, err
	}

	doc := &Document{Root: node}
	// Rendered markdown is a fragment; only diagnose markup the user wrote.
	if !cfg.NoDiagnostics && !isMarkdown {
		doc.Diagnostics = Diagnose(text)
		slog.Debug("diagnostics collected", "count", len(doc.Diagnostics))
	}
	return doc, nil
}

// acquire returns the raw input and the charset label still to be applied
// to it. Fetched bodies are already UTF-8.
func (s *Sketcher) acquire() ([]byte, string, error) {
	cfg := s.config
	if cfg.URL == "" {
		src, err := ReadInput(cfg.Input, s.stdin)
		return src, cfg.Charset, err
	}

	result, err := NewFetcher(cfg.HTTPOptions()).Fetch(cfg.URL)
	if err != nil {
		return nil, "", err
	}
	return result.Body, "", nil
}

// Run loads the input and writes its sketch to w.
func (s *Sketcher) Run(w io.Writer) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	if err := NewFormatter(s.config.FormatOptions()).Render(w, doc); err != nil {
		return NewIOError("failed to write output", err)
	}
	return nil
}

// RunToFile is Run with the output going to path, or to stdout when path is
// empty or "-".
func (s *Sketcher) RunToFile(path string, stdout io.Writer) error {
	if path == "" || path == "-" {
		return s.Run(stdout)
	}

	doc, err := s.Load()
	if err != nil {
		return err
	}

	return writeFileAtomic(path, func(w io.Writer) error {
		return NewFormatter(s.config.FormatOptions()).Render(w, doc)
	})
}

// writeFileAtomic writes through a temporary file in the target directory
// and renames it over path only when write succeeds, so path never holds
// partial output.
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return NewIOError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		return NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return NewIOError(fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}
