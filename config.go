package htmlsketch

import (
	"fmt"
	"strings"
	"time"
)

// Config 应用配置
type Config struct {
	// 输入配置
	Input   string `toml:"input" mapstructure:"input"`     // input file, empty or "-" for stdin
	URL     string `toml:"url" mapstructure:"url"`         // fetch input over HTTP
	From    string `toml:"from" mapstructure:"from"`       // html or markdown
	Charset string `toml:"charset" mapstructure:"charset"` // forced input charset label

	StrictUTF8 bool `toml:"strict_utf8" mapstructure:"strict_utf8"` // reject invalid UTF-8 instead of replacing it

	// 输出配置
	Output        string `toml:"output" mapstructure:"output"`                 // output file, empty for stdout
	IndentWidth   int    `toml:"indent" mapstructure:"indent"`                 // spaces per nesting level
	KeepDivTag    bool   `toml:"keep_div_tag" mapstructure:"keep_div_tag"`     // only drop div with a real id/class
	NoDiagnostics bool   `toml:"no_diagnostics" mapstructure:"no_diagnostics"` // skip the diagnostics pass

	// 解析与选择
	Scripting bool   `toml:"scripting" mapstructure:"scripting"` // parser scripting flag
	Select    string `toml:"select" mapstructure:"select"`       // CSS selector
	XPath     string `toml:"xpath" mapstructure:"xpath"`         // XPath expression

	// HTTP
	HTTPTimeout    time.Duration `toml:"timeout" mapstructure:"timeout"`
	HTTPUserAgent  string        `toml:"user_agent" mapstructure:"user_agent"`
	HTTPMaxRetries int           `toml:"max_retries" mapstructure:"max_retries"`
	HTTPRetryDelay time.Duration `toml:"retry_delay" mapstructure:"retry_delay"`
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		From:           FormatHTML,
		IndentWidth:    DefaultIndentWidth,
		Scripting:      true,
		HTTPTimeout:    30 * time.Second,
		HTTPUserAgent:  "htmlsketch/1.0",
		HTTPMaxRetries: 2,
		HTTPRetryDelay: time.Second,
	}
}

// Validate checks option combinations that cannot be resolved later.
func (c *Config) Validate() error {
	if c.Select != "" && c.XPath != "" {
		return NewConfigError("--select and --xpath are mutually exclusive")
	}
	if c.URL != "" && c.Input != "" && c.Input != "-" {
		return NewConfigError("--url and --input are mutually exclusive")
	}
	switch strings.ToLower(c.From) {
	case FormatHTML, FormatMarkdown:
	default:
		return NewConfigError(fmt.Sprintf("unknown input format %q (want html or markdown)", c.From))
	}
	if c.IndentWidth < 0 {
		return NewConfigError("indent must not be negative")
	}
	if c.URL != "" && c.HTTPTimeout <= 0 {
		return NewConfigError("timeout must be greater than 0")
	}
	if c.HTTPMaxRetries < 0 {
		return NewConfigError("max-retries must not be negative")
	}
	return nil
}

// FormatOptions returns the formatter layout for this configuration.
func (c *Config) FormatOptions() *FormatOptions {
	return &FormatOptions{
		IndentWidth: c.IndentWidth,
		KeepDivTag:  c.KeepDivTag,
	}
}

// ParseOptions returns the parser options for this configuration.
func (c *Config) ParseOptions() *ParseOptions {
	return &ParseOptions{Scripting: c.Scripting}
}

// HTTPOptions returns the fetcher options for this configuration.
func (c *Config) HTTPOptions() *HTTPOptions {
	return &HTTPOptions{
		Timeout:    c.HTTPTimeout,
		UserAgent:  c.HTTPUserAgent,
		MaxRetries: c.HTTPMaxRetries,
		RetryDelay: c.HTTPRetryDelay,
		Charset:    c.Charset,
	}
}

// Selection returns the subtree filter for this configuration.
func (c *Config) Selection() Selection {
	return Selection{CSS: c.Select, XPath: c.XPath}
}
