package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fdkevin0/htmlsketch"
	"github.com/spf13/pflag"
)

func resetCLIStateForTest(t *testing.T) {
	t.Helper()

	// Keep ./htmlsketch.toml and the user config dir out of the way.
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	defaultConfig := htmlsketch.NewDefaultConfig()
	flagConfigFile = ""
	flagInputFile = ""
	flagURL = ""
	flagOutputFile = ""
	flagFrom = defaultConfig.From
	flagCharset = ""
	flagStrictUTF8 = false
	flagSelect = ""
	flagXPath = ""
	flagScripting = defaultConfig.Scripting
	flagIndent = defaultConfig.IndentWidth
	flagKeepDivTag = false
	flagNoDiagnostics = false
	flagTimeout = int(defaultConfig.HTTPTimeout.Seconds())
	flagUserAgent = defaultConfig.HTTPUserAgent
	flagMaxRetries = defaultConfig.HTTPMaxRetries
	flagRetryDelay = defaultConfig.HTTPRetryDelay.String()
	flagDebug = false

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
		_ = f.Value.Set(f.DefValue)
	})
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return out.String(), err
}

func TestBuildRuntimeConfigDefaults(t *testing.T) {
	resetCLIStateForTest(t)

	cfg, err := buildRuntimeConfig(rootCmd, nil)
	if err != nil {
		t.Fatalf("buildRuntimeConfig returned error: %v", err)
	}

	if cfg.App.IndentWidth != htmlsketch.DefaultIndentWidth {
		t.Fatalf("expected default indent, got %d", cfg.App.IndentWidth)
	}
	if cfg.App.From != htmlsketch.FormatHTML {
		t.Fatalf("expected html input format, got %q", cfg.App.From)
	}
	if cfg.App.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.App.HTTPTimeout)
	}
	if cfg.ConfigFile != "" {
		t.Fatalf("expected no config file, got %q", cfg.ConfigFile)
	}
}

func TestBuildRuntimeConfigUsesPositionalInput(t *testing.T) {
	resetCLIStateForTest(t)

	cfg, err := buildRuntimeConfig(rootCmd, []string{"page.html"})
	if err != nil {
		t.Fatalf("buildRuntimeConfig returned error: %v", err)
	}

	if cfg.App.Input != "page.html" {
		t.Fatalf("expected positional input, got %q", cfg.App.Input)
	}
}

func TestBuildRuntimeConfigFlagOverridesPositionalInput(t *testing.T) {
	resetCLIStateForTest(t)
	if err := rootCmd.PersistentFlags().Set("input", "flag.html"); err != nil {
		t.Fatalf("set input flag: %v", err)
	}

	cfg, err := buildRuntimeConfig(rootCmd, []string{"page.html"})
	if err != nil {
		t.Fatalf("buildRuntimeConfig returned error: %v", err)
	}

	if cfg.App.Input != "flag.html" {
		t.Fatalf("expected flag input override, got %q", cfg.App.Input)
	}
}

func TestBuildRuntimeConfigEnvOverridesConfigFile(t *testing.T) {
	resetCLIStateForTest(t)

	configPath := filepath.Join(t.TempDir(), "htmlsketch.toml")
	content := strings.Join([]string{
		"indent = 2",
		"select = \"main\"",
		"timeout = 5",
		"retry_delay = \"250ms\"",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("HTMLSKETCH_CONFIG", configPath)
	t.Setenv("HTMLSKETCH_INDENT", "8")

	cfg, err := buildRuntimeConfig(rootCmd, nil)
	if err != nil {
		t.Fatalf("buildRuntimeConfig returned error: %v", err)
	}

	if cfg.App.IndentWidth != 8 {
		t.Fatalf("expected env indent override, got %d", cfg.App.IndentWidth)
	}
	if cfg.App.Select != "main" {
		t.Fatalf("expected config file select, got %q", cfg.App.Select)
	}
	if cfg.App.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout from config, got %v", cfg.App.HTTPTimeout)
	}
	if cfg.App.HTTPRetryDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms retry delay from config, got %v", cfg.App.HTTPRetryDelay)
	}
	if cfg.ConfigFile != configPath {
		t.Fatalf("expected config file %q, got %q", configPath, cfg.ConfigFile)
	}
}

func TestBuildRuntimeConfigFlagOverridesEnv(t *testing.T) {
	resetCLIStateForTest(t)
	t.Setenv("HTMLSKETCH_INDENT", "8")

	if err := rootCmd.PersistentFlags().Set("indent", "3"); err != nil {
		t.Fatalf("set indent flag: %v", err)
	}

	cfg, err := buildRuntimeConfig(rootCmd, nil)
	if err != nil {
		t.Fatalf("buildRuntimeConfig returned error: %v", err)
	}

	if cfg.App.IndentWidth != 3 {
		t.Fatalf("expected flag indent override, got %d", cfg.App.IndentWidth)
	}
}

func TestBuildRuntimeConfigRejectsSelectWithXPath(t *testing.T) {
	resetCLIStateForTest(t)
	t.Setenv("HTMLSKETCH_SELECT", "p")
	t.Setenv("HTMLSKETCH_XPATH", "//p")

	_, err := buildRuntimeConfig(rootCmd, nil)
	if err == nil {
		t.Fatal("expected select/xpath conflict error")
	}
	if !htmlsketch.IsType(err, htmlsketch.ConfigError) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestBuildRuntimeConfigRejectsUnknownFormat(t *testing.T) {
	resetCLIStateForTest(t)
	if err := rootCmd.PersistentFlags().Set("from", "rst"); err != nil {
		t.Fatalf("set from flag: %v", err)
	}

	_, err := buildRuntimeConfig(rootCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown input format") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRuntimeConfigMissingExplicitConfigFile(t *testing.T) {
	resetCLIStateForTest(t)
	t.Setenv("HTMLSKETCH_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := buildRuntimeConfig(rootCmd, nil)
	if err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecuteSketchesStdin(t *testing.T) {
	resetCLIStateForTest(t)

	out, err := runCLI(t, "<!DOCTYPE html><p class=intro>hi</p>")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := strings.Join([]string{
		"html! {",
		"    (DOCTYPE)",
		"    html {",
		"        head;",
		"        body {",
		"            p.intro {",
		"                \"hi\"",
		"            }",
		"        }",
		"    }",
		"}",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestExecutePrintsDiagnostics(t *testing.T) {
	resetCLIStateForTest(t)

	out, err := runCLI(t, "<p>hi</span>")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.HasSuffix(out, "\nParse errors:\n    line 1: missing DOCTYPE before <p>\n    line 1: unexpected end tag </span>\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestExecuteReplacesInvalidUTF8(t *testing.T) {
	resetCLIStateForTest(t)

	out, err := runCLI(t, "<!doctype html><p>\xff</p>", "--select", "p")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "html! {\n    p {\n        \"\\u{fffd}\"\n    }\n}\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExecuteStrictUTF8Fails(t *testing.T) {
	resetCLIStateForTest(t)

	_, err := runCLI(t, "<p>\xff\xfe</p>", "--strict-utf8")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !htmlsketch.IsType(err, htmlsketch.DecodeError) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestExecuteWritesOutputFile(t *testing.T) {
	resetCLIStateForTest(t)

	input := filepath.Join(t.TempDir(), "in.html")
	if err := os.WriteFile(input, []byte("<!doctype html><title>t</title>"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(t.TempDir(), "out.txt")

	out, err := runCLI(t, "", input, "--output", output, "--select", "title")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "" {
		t.Fatalf("expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "html! {\n    title {\n        \"t\"\n    }\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected output file %q, want %q", data, want)
	}
}

func TestConfigCommandPrintsTOML(t *testing.T) {
	resetCLIStateForTest(t)

	out, err := runCLI(t, "", "config", "--indent", "6", "--keep-div-tag")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var dumped map[string]any
	if _, err := toml.Decode(out, &dumped); err != nil {
		t.Fatalf("decode dumped config: %v\n%s", err, out)
	}
	if dumped["indent"] != int64(6) {
		t.Fatalf("expected indent 6, got %#v", dumped["indent"])
	}
	if dumped["keep_div_tag"] != true {
		t.Fatalf("expected keep_div_tag true, got %#v", dumped["keep_div_tag"])
	}
	if dumped["from"] != "html" {
		t.Fatalf("expected from html, got %#v", dumped["from"])
	}
}
