package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultEndpoint = "https://community-blog-410b.onrender.com/api/blogs"

	FormatJSON = "json"
	FormatFeed = "feed"

	SearchSubstring = "substring"
	SearchRanked    = "ranked"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Listing ListingConfig `mapstructure:"listing"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Media   MediaConfig   `mapstructure:"media"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Format       string        `mapstructure:"format"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	FallbackScan bool          `mapstructure:"fallback_scan"`
}

type ListingConfig struct {
	LatestWindowDays int `mapstructure:"latest_window_days"`
	PageSize         int `mapstructure:"page_size"`
}

type SearchConfig struct {
	Mode  string `mapstructure:"mode"`
	Limit int    `mapstructure:"limit"`
}

type UIConfig struct {
	Colors  UIColors      `mapstructure:"colors"`
	Article ArticleConfig `mapstructure:"article"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type ArticleConfig struct {
	MaxSnippetLength int    `mapstructure:"max_snippet_length"`
	WordWrapMaxWidth int    `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int    `mapstructure:"word_wrap_min_width"`
	PlaceholderImage string `mapstructure:"placeholder_image"`
}

type MediaConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".blogr", "blogr.log")

	return &Config{
		API: APIConfig{
			Endpoint:     DefaultEndpoint,
			Format:       FormatJSON,
			HTTPTimeout:  30 * time.Second,
			UserAgent:    "blogr/1.0 (https://github.com/pders01/blogr)",
			FallbackScan: true,
		},
		Listing: ListingConfig{
			LatestWindowDays: 10,
			PageSize:         19,
		},
		Search: SearchConfig{
			Mode:  SearchSubstring,
			Limit: 50,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#1E3A8A",
				Secondary: "#4ECDC4",
				Accent:    "#FFD700",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Article: ArticleConfig{
				MaxSnippetLength: 150,
				WordWrapMaxWidth: 120,
				WordWrapMinWidth: 40,
				PlaceholderImage: "placeholder:cover",
			},
		},
		Media: MediaConfig{
			Darwin:        []string{"open"},
			Linux:         []string{"feh", "sxiv", "eog", "xdg-open"},
			Windows:       []string{"start"},
			DefaultOpener: getDefaultOpener(),
		},
		Log: LogConfig{
			Level: "off",
			Path:  logPath,
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// Load reads configuration from configPath, or from the default search
// locations when it is empty. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	return LoadWith(viper.New(), configPath)
}

// LoadWith is Load on a caller-provided viper instance, so command line
// flags bound to v take precedence over the file.
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "blogr")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BLOGR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)
	normalize(&config)

	return &config, nil
}

// setDefaults registers defaults key by key so a config file that sets
// only some keys of a section keeps the defaults for the rest.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.endpoint", cfg.API.Endpoint)
	v.SetDefault("api.format", cfg.API.Format)
	v.SetDefault("api.http_timeout", cfg.API.HTTPTimeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.fallback_scan", cfg.API.FallbackScan)

	v.SetDefault("listing.latest_window_days", cfg.Listing.LatestWindowDays)
	v.SetDefault("listing.page_size", cfg.Listing.PageSize)

	v.SetDefault("search.mode", cfg.Search.Mode)
	v.SetDefault("search.limit", cfg.Search.Limit)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)
	v.SetDefault("ui.article.max_snippet_length", cfg.UI.Article.MaxSnippetLength)
	v.SetDefault("ui.article.word_wrap_max_width", cfg.UI.Article.WordWrapMaxWidth)
	v.SetDefault("ui.article.word_wrap_min_width", cfg.UI.Article.WordWrapMinWidth)
	v.SetDefault("ui.article.placeholder_image", cfg.UI.Article.PlaceholderImage)

	v.SetDefault("media.darwin", cfg.Media.Darwin)
	v.SetDefault("media.linux", cfg.Media.Linux)
	v.SetDefault("media.windows", cfg.Media.Windows)
	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

// normalize replaces values the pipeline cannot work with by their defaults.
func normalize(cfg *Config) {
	def := defaultConfig()
	if cfg.API.Endpoint == "" {
		cfg.API.Endpoint = def.API.Endpoint
	}
	if cfg.API.Format != FormatJSON && cfg.API.Format != FormatFeed {
		cfg.API.Format = def.API.Format
	}
	if cfg.API.HTTPTimeout <= 0 {
		cfg.API.HTTPTimeout = def.API.HTTPTimeout
	}
	if cfg.Listing.LatestWindowDays <= 0 {
		cfg.Listing.LatestWindowDays = def.Listing.LatestWindowDays
	}
	if cfg.Listing.PageSize <= 0 {
		cfg.Listing.PageSize = def.Listing.PageSize
	}
	if cfg.Search.Mode != SearchSubstring && cfg.Search.Mode != SearchRanked {
		cfg.Search.Mode = def.Search.Mode
	}
	if cfg.Search.Limit <= 0 {
		cfg.Search.Limit = def.Search.Limit
	}
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	apiCfg := map[string]interface{}{
		"endpoint":      config.API.Endpoint,
		"format":        config.API.Format,
		"http_timeout":  config.API.HTTPTimeout.String(),
		"user_agent":    config.API.UserAgent,
		"fallback_scan": config.API.FallbackScan,
	}

	listingCfg := map[string]interface{}{
		"latest_window_days": config.Listing.LatestWindowDays,
		"page_size":          config.Listing.PageSize,
	}

	searchCfg := map[string]interface{}{
		"mode":  config.Search.Mode,
		"limit": config.Search.Limit,
	}

	logCfg := map[string]interface{}{
		"level": config.Log.Level,
		"path":  config.Log.Path,
	}

	v.Set("api", apiCfg)
	v.Set("listing", listingCfg)
	v.Set("search", searchCfg)
	uiCfg := map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
			"success":   config.UI.Colors.Success,
		},
		"article": map[string]interface{}{
			"max_snippet_length":  config.UI.Article.MaxSnippetLength,
			"word_wrap_max_width": config.UI.Article.WordWrapMaxWidth,
			"word_wrap_min_width": config.UI.Article.WordWrapMinWidth,
			"placeholder_image":   config.UI.Article.PlaceholderImage,
		},
	}

	mediaCfg := map[string]interface{}{
		"darwin":         config.Media.Darwin,
		"linux":          config.Media.Linux,
		"windows":        config.Media.Windows,
		"default_opener": config.Media.DefaultOpener,
	}

	v.Set("ui", uiCfg)
	v.Set("media", mediaCfg)
	v.Set("log", logCfg)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
