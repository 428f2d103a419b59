// Package config loads generator settings from blog.yaml, BLOG_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileName = "blog"
	configFileType = "yaml"
	envPrefix      = "BLOG"
)

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every generator setting.
type Config struct {
	Site        string  `mapstructure:"site"`
	Base        string  `mapstructure:"base"`
	Title       string  `mapstructure:"title"`
	Description string  `mapstructure:"description"`
	Language    string  `mapstructure:"language"`
	Theme       string  `mapstructure:"theme"`
	ContentDir  string  `mapstructure:"content_dir"`
	PublicDir   string  `mapstructure:"public_dir"`
	StaticDir   string  `mapstructure:"static_dir"`
	ThemeFile   string  `mapstructure:"theme_file"`
	MinContrast float64 `mapstructure:"min_contrast"`
	LogLevel    string  `mapstructure:"log_level"`
	Watch       string  `mapstructure:"watch"`
	Serve       string  `mapstructure:"serve"`
}

// SiteURL is the absolute URL of the site root, base path included.
func (c *Config) SiteURL() string {
	return strings.TrimRight(c.Site, "/") + c.Base
}

// Path prefixes an absolute site path with the base path.
func (c *Config) Path(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.Base + p
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Site:        "https://NicoGrassetto.github.io",
		Base:        "/nico-grassetto-blog",
		Title:       "Nico Grassetto's Blog",
		Description: "Engineering thoughtful web experiences with modern technologies.",
		Language:    "en-us",
		Theme:       "dark",
		ContentDir:  "content",
		PublicDir:   "public",
		StaticDir:   "static",
		ThemeFile:   "content/theme.md",
		MinContrast: 2,
		LogLevel:    "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("site", d.Site)
	v.SetDefault("base", d.Base)
	v.SetDefault("title", d.Title)
	v.SetDefault("description", d.Description)
	v.SetDefault("language", d.Language)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("content_dir", d.ContentDir)
	v.SetDefault("public_dir", d.PublicDir)
	v.SetDefault("static_dir", d.StaticDir)
	v.SetDefault("theme_file", d.ThemeFile)
	v.SetDefault("min_contrast", d.MinContrast)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("watch", "")
	v.SetDefault("serve", "")
}

// Load reads the configuration. flags may be nil; when it defines "config",
// that file is read instead of ./blog.yaml and must exist.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(".")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.Base = strings.TrimRight(strings.TrimSpace(cfg.Base), "/")
	if cfg.Base != "" && !strings.HasPrefix(cfg.Base, "/") {
		cfg.Base = "/" + cfg.Base
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
}

// Validate checks the settings that would otherwise fail mid-build.
func Validate(cfg *Config) error {
	var problems []string

	u, err := url.Parse(cfg.Site)
	if err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("site must be an absolute URL, got %q", cfg.Site))
	}
	if cfg.Title == "" {
		problems = append(problems, "title must not be empty")
	}
	if cfg.ContentDir == "" {
		problems = append(problems, "content_dir must not be empty")
	}
	if cfg.PublicDir == "" {
		problems = append(problems, "public_dir must not be empty")
	}
	if cfg.MinContrast < 0 || cfg.MinContrast > 21 {
		problems = append(problems, fmt.Sprintf("min_contrast must be between 0 and 21, got %g", cfg.MinContrast))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
