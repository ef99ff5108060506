package cli

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/fdkevin0/htmlsketch"
	"github.com/spf13/cobra"
)

var (
	// 命令行参数
	flagConfigFile    string
	flagInputFile     string
	flagURL           string
	flagOutputFile    string
	flagFrom          string
	flagCharset       string
	flagStrictUTF8    bool
	flagSelect        string
	flagXPath         string
	flagScripting     bool
	flagIndent        int
	flagKeepDivTag    bool
	flagNoDiagnostics bool
	flagTimeout       int
	flagUserAgent     string
	flagMaxRetries    int
	flagRetryDelay    string
	flagDebug         bool
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "htmlsketch [FILE]",
	Short: "Print the DOM of an HTML document as a compact indented sketch",
	Long: `htmlsketch parses an HTML document and prints its tree in a compact notation:
tag names with #id and .class shorthands, other attributes as name="value",
children nested in braces. Parser warnings are listed after the tree.

Without arguments the document is read from standard input.`,
	Example: `  # Sketch a page from stdin
  htmlsketch < index.html

  # Only the navigation bar of a remote page
  htmlsketch --url=https://example.com --select="nav"

  # Sketch the HTML produced by a Markdown file
  htmlsketch README.md --from=markdown`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		htmlsketch.InitLogger(flagDebug)
	},
	RunE: runSketch,
}

// configCmd 打印生效配置
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long:  `Print the configuration after merging flags, HTMLSKETCH_* environment variables, the config file and defaults.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigDump,
}

func init() {
	defaultConfig := htmlsketch.NewDefaultConfig()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfigFile, "config", "", "config file path (TOML)")
	flags.StringVar(&flagInputFile, "input", "", "input file, - for stdin")
	flags.StringVar(&flagURL, "url", "", "fetch the document from this URL")
	flags.StringVar(&flagOutputFile, "output", "", "write the sketch to this file instead of stdout")
	flags.StringVar(&flagFrom, "from", defaultConfig.From, "input format: html or markdown")
	flags.StringVar(&flagCharset, "charset", "", "input charset label, e.g. windows-1252 (default: UTF-8, or the charset sent by the server)")
	flags.BoolVar(&flagStrictUTF8, "strict-utf8", defaultConfig.StrictUTF8, "fail on invalid UTF-8 instead of replacing it with U+FFFD")
	flags.StringVar(&flagSelect, "select", "", "only sketch subtrees matching this CSS selector")
	flags.StringVar(&flagXPath, "xpath", "", "only sketch subtrees matching this XPath expression")
	flags.BoolVar(&flagScripting, "scripting", defaultConfig.Scripting, "parse with scripting enabled (<noscript> as raw text)")
	flags.IntVar(&flagIndent, "indent", defaultConfig.IndentWidth, "spaces per nesting level")
	flags.BoolVar(&flagKeepDivTag, "keep-div-tag", defaultConfig.KeepDivTag, "print div unless it has an id or class")
	flags.BoolVar(&flagNoDiagnostics, "no-diagnostics", defaultConfig.NoDiagnostics, "do not list parser warnings")
	flags.IntVar(&flagTimeout, "timeout", int(defaultConfig.HTTPTimeout.Seconds()), "HTTP timeout (seconds)")
	flags.StringVar(&flagUserAgent, "user-agent", defaultConfig.HTTPUserAgent, "HTTP User-Agent")
	flags.IntVar(&flagMaxRetries, "max-retries", defaultConfig.HTTPMaxRetries, "HTTP retries")
	flags.StringVar(&flagRetryDelay, "retry-delay", defaultConfig.HTTPRetryDelay.String(), "delay between HTTP retries")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.MarkFlagsMutuallyExclusive("select", "xpath")
	rootCmd.MarkFlagsMutuallyExclusive("input", "url")

	rootCmd.AddCommand(configCmd)
}

// Execute 执行命令行程序
func Execute() error {
	return rootCmd.Execute()
}

// runSketch 运行主流程
func runSketch(cmd *cobra.Command, args []string) error {
	cfg, err := buildRuntimeConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Debug {
		htmlsketch.InitLogger(true)
	}
	if cfg.ConfigFile != "" {
		slog.Debug("using config file", "path", cfg.ConfigFile)
	}

	sketcher := htmlsketch.NewSketcher(cfg.App, cmd.InOrStdin())
	return sketcher.RunToFile(cfg.App.Output, cmd.OutOrStdout())
}

// runConfigDump 打印生效配置
func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := buildRuntimeConfig(cmd, nil)
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg.App); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
