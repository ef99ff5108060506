package configsource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fdkevin0/htmlsketch"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. HTMLSKETCH_INDENT.
const EnvPrefix = "HTMLSKETCH"

// NewViperForCommand layers flags, environment, config file and defaults
// for cmd, in that order of precedence.
func NewViperForCommand(cmd *cobra.Command, configFlagValue string) (*viper.Viper, error) {
	v := viper.New()
	applyViperDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := bindViperFlags(v, cmd); err != nil {
		return nil, err
	}

	configPath, explicit, err := resolveConfigFilePath(cmd, configFlagValue)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if isNotFound(err) && !explicit {
				return v, nil
			}
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	return v, nil
}

func applyViperDefaults(v *viper.Viper) {
	defaultConfig := htmlsketch.NewDefaultConfig()
	v.SetDefault("input", defaultConfig.Input)
	v.SetDefault("url", defaultConfig.URL)
	v.SetDefault("from", defaultConfig.From)
	v.SetDefault("charset", defaultConfig.Charset)
	v.SetDefault("strict_utf8", defaultConfig.StrictUTF8)
	v.SetDefault("output", defaultConfig.Output)
	v.SetDefault("indent", defaultConfig.IndentWidth)
	v.SetDefault("keep_div_tag", defaultConfig.KeepDivTag)
	v.SetDefault("no_diagnostics", defaultConfig.NoDiagnostics)
	v.SetDefault("scripting", defaultConfig.Scripting)
	v.SetDefault("select", defaultConfig.Select)
	v.SetDefault("xpath", defaultConfig.XPath)
	v.SetDefault("timeout", int(defaultConfig.HTTPTimeout.Seconds()))
	v.SetDefault("user_agent", defaultConfig.HTTPUserAgent)
	v.SetDefault("max_retries", defaultConfig.HTTPMaxRetries)
	v.SetDefault("retry_delay", defaultConfig.HTTPRetryDelay)
	v.SetDefault("debug", false)
}

func bindViperFlags(v *viper.Viper, cmd *cobra.Command) error {
	visited := make(map[string]struct{})
	var bindErr error
	bindFlag := func(f *pflag.Flag) {
		if f == nil || bindErr != nil {
			return
		}
		if f.Name == "config" || f.Name == "help" {
			return
		}
		if _, ok := visited[f.Name]; ok {
			return
		}
		visited[f.Name] = struct{}{}
		configName := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(configName, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %q to key %q: %w", f.Name, configName, err)
		}
	}

	cmd.Flags().VisitAll(bindFlag)
	cmd.PersistentFlags().VisitAll(bindFlag)
	cmd.InheritedFlags().VisitAll(bindFlag)
	return bindErr
}

func resolveConfigFilePath(cmd *cobra.Command, configFlagValue string) (string, bool, error) {
	if flagChanged(cmd, "config") {
		path := strings.TrimSpace(configFlagValue)
		if path == "" {
			return "", true, errors.New("--config must not be empty")
		}
		return path, true, nil
	}

	if value := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")); value != "" {
		return value, true, nil
	}

	candidates := []string{
		filepath.Join(".", "htmlsketch.toml"),
		filepath.Join(htmlsketch.DefaultConfigDir("htmlsketch"), "config.toml"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, false, nil
		}
	}

	return "", false, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Changed
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil {
		return f.Changed
	}
	return false
}
