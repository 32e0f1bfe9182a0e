package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Settings is the launcher's own ambient configuration: logging, corpus
// scan tuning, and cache sizing. The user-facing script config.<ext> format
// is explicitly opaque to this spec; Settings governs only this host's
// runtime knobs.
type Settings struct {
	ScriptsDir string
	IgnoreList []string

	LogLevel  string // "debug", "info", "warn", "error"
	LogFormat string // "json" or "console"

	RefreshDebounce time.Duration
	SearchCacheSize int
	FrecencyFlush   time.Duration
}

// Default returns the built-in defaults, used when no config file is
// present and overridable by it when one is.
func Default() Settings {
	return Settings{
		ScriptsDir:      ScriptsDir(),
		IgnoreList:      []string{"node_modules", ".git"},
		LogLevel:        "info",
		LogFormat:       "console",
		RefreshDebounce: 500 * time.Millisecond,
		SearchCacheSize: 256,
		FrecencyFlush:   2 * time.Second,
	}
}

// Load reads settings from Dir()/config.toml, layered over Default(). A
// missing file is not an error; a malformed one is reported to the caller
// so it can log and continue with defaults, matching the corpus and
// frecency packages' "tolerant of a broken config file" posture.
func Load() (Settings, error) {
	s := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(Dir())

	v.SetDefault("scripts_dir", s.ScriptsDir)
	v.SetDefault("ignore_list", s.IgnoreList)
	v.SetDefault("log_level", s.LogLevel)
	v.SetDefault("log_format", s.LogFormat)
	v.SetDefault("refresh_debounce_ms", s.RefreshDebounce.Milliseconds())
	v.SetDefault("search_cache_size", s.SearchCacheSize)
	v.SetDefault("frecency_flush_ms", s.FrecencyFlush.Milliseconds())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return s, nil
		}
		return s, err
	}

	s.ScriptsDir = v.GetString("scripts_dir")
	s.IgnoreList = v.GetStringSlice("ignore_list")
	s.LogLevel = v.GetString("log_level")
	s.LogFormat = v.GetString("log_format")
	s.RefreshDebounce = time.Duration(v.GetInt64("refresh_debounce_ms")) * time.Millisecond
	s.SearchCacheSize = v.GetInt("search_cache_size")
	s.FrecencyFlush = time.Duration(v.GetInt64("frecency_flush_ms")) * time.Millisecond
	return s, nil
}

// ScriptsDir returns the default scripts directory: Dir()/scripts.
func ScriptsDir() string {
	return filepath.Join(Dir(), "scripts")
}

// DataDir returns the directory holding persisted runtime state: the
// frecency store and log files.
func DataDir() string {
	return filepath.Join(Dir(), "data")
}

// ThemeFile returns the path to the theme file watched by C5.
func ThemeFile() string {
	return filepath.Join(Dir(), "theme.toml")
}

// ThemeOverrides mirrors ui/style.Overrides without importing it, so this
// package stays usable from anything that doesn't need lipgloss.
type ThemeOverrides struct {
	ListBorderColor  string `toml:"list_border_color"`
	ListSelectedBG   string `toml:"list_selected_bg"`
	ListSelectedFG   string `toml:"list_selected_fg"`
	ListMatchColor   string `toml:"list_match_color"`
	InputPromptColor string `toml:"input_prompt_color"`
	ErrorColor       string `toml:"error_color"`
	WarningColor     string `toml:"warning_color"`
}

// LoadTheme decodes ThemeFile() directly with BurntSushi/toml (no viper
// layering needed: the theme file has no defaults to merge, only overrides
// to apply on top of ui/style.Default()). A missing file returns a zero
// ThemeOverrides and no error, matching Load's "absent is fine" posture.
func LoadTheme() (ThemeOverrides, error) {
	var o ThemeOverrides
	path := ThemeFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return o, nil
	}
	_, err := toml.DecodeFile(path, &o)
	return o, err
}

// ConfigFile returns the path to the user configuration file watched by C5.
func ConfigFile() string {
	return filepath.Join(Dir(), "config.toml")
}
