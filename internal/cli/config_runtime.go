package cli

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/fdkevin0/htmlsketch"
	"github.com/fdkevin0/htmlsketch/internal/configsource"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type runtimeConfig struct {
	App        *htmlsketch.Config
	Debug      bool
	ConfigFile string
}

type runtimeConfigValues struct {
	htmlsketch.Config `mapstructure:",squash"`
	Debug             bool `mapstructure:"debug"`
}

func buildRuntimeConfig(cmd *cobra.Command, args []string) (*runtimeConfig, error) {
	v, err := configsource.NewViperForCommand(cmd, flagConfigFile)
	if err != nil {
		return nil, err
	}

	values := runtimeConfigValues{
		Config: *htmlsketch.NewDefaultConfig(),
	}
	if err := v.Unmarshal(&values, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	values.Input = strings.TrimSpace(values.Input)
	values.URL = strings.TrimSpace(values.URL)
	values.Output = strings.TrimSpace(values.Output)
	values.From = strings.ToLower(strings.TrimSpace(values.From))
	values.Charset = strings.TrimSpace(values.Charset)
	values.Select = strings.TrimSpace(values.Select)
	values.XPath = strings.TrimSpace(values.XPath)
	values.HTTPUserAgent = strings.TrimSpace(values.HTTPUserAgent)

	if values.Input == "" && len(args) > 0 {
		values.Input = args[0]
	}

	cfg := &runtimeConfig{
		App:        &values.Config,
		Debug:      values.Debug,
		ConfigFile: v.ConfigFileUsed(),
	}

	if err := cfg.App.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func durationDecodeHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType {
			return data, nil
		}

		switch value := data.(type) {
		case int:
			return time.Duration(value) * time.Second, nil
		case int64:
			return time.Duration(value) * time.Second, nil
		case float64:
			return time.Duration(value) * time.Second, nil
		case string:
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return time.Duration(0), nil
			}
			if strings.ContainsAny(trimmed, "hmsuµns") {
				return time.ParseDuration(trimmed)
			}
			return time.ParseDuration(trimmed + "s")
		default:
			return data, nil
		}
	}
}
