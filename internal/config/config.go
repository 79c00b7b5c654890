// Package config provides configuration types, defaults, and loading for langload tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava12/langload"
	"github.com/ava12/langload/internal/logutil"
	"github.com/ava12/langload/style"
)

// EnvPrefix is the prefix of environment variables overriding configuration, e.g. LANGLOAD_LOG_LEVEL.
const EnvPrefix = "LANGLOAD"

// Config holds all configuration options for langload.
type Config struct {
	// SearchPaths lists directories with *.lang files, earlier directories take precedence.
	SearchPaths []string `mapstructure:"search_paths"`
	// ThemeStyles lists qualified style ids the theme recognizes.
	ThemeStyles []string  `mapstructure:"theme_styles"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig holds logging options.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// Defaults returns configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		SearchPaths: DefaultSearchPaths(),
		ThemeStyles: style.DefaultThemeStyles,
		Log:         LogConfig{Level: "warn"},
	}
}

// DefaultSearchPaths returns GtkSourceView language directories: user ones first, then system ones.
func DefaultSearchPaths() []string {
	var result []string
	if home, e := os.UserHomeDir(); e == nil {
		result = append(result,
			filepath.Join(home, ".local", "share", "gtksourceview-5", "language-specs"),
			filepath.Join(home, ".local", "share", "gtksourceview-4", "language-specs"),
		)
	}
	return append(result,
		"/usr/share/gtksourceview-5/language-specs",
		"/usr/share/gtksourceview-4/language-specs",
		"/usr/share/gtksourceview-3.0/language-specs",
	)
}

// Validate checks configuration for errors.
func (c Config) Validate() error {
	if len(c.SearchPaths) == 0 {
		return errors.New("search_paths must not be empty")
	}
	for i, p := range c.SearchPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("search_paths[%d] is empty", i)
		}
	}
	for _, id := range c.ThemeStyles {
		if _, qualified := langload.Namespace(id); !qualified {
			return fmt.Errorf("theme_styles: %q has no language prefix", id)
		}
	}
	if _, e := logutil.ParseLevel(c.Log.Level); e != nil {
		return fmt.Errorf("log.level: %w", e)
	}
	return nil
}

// AddFlags defines command line flags overriding configuration options.
func AddFlags(flags *pflag.FlagSet) {
	flags.StringSlice("search-path", nil, "directory with language definitions (repeatable, overrides search_paths)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
}

// Load merges defaults, configuration file, environment, and flags (in increasing priority).
// If cfgFile is empty, config.yaml is looked up in ~/.config/langload and its absence is not an error.
// flags may be nil.
func Load(fs afero.Fs, cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetFs(fs)

	defaults := Defaults()
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("theme_styles", defaults.ThemeStyles)
	v.SetDefault("log.level", defaults.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{"search_paths": "search-path", "log.level": "log-level"} {
			if f := flags.Lookup(name); f != nil {
				if e := v.BindPFlag(key, f); e != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", name, e)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "langload"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if e := v.ReadInConfig(); e != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(e, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", e)
		}
	}

	var cfg Config
	if e := v.Unmarshal(&cfg); e != nil {
		return Config{}, fmt.Errorf("decoding config: %w", e)
	}
	return cfg, cfg.Validate()
}
