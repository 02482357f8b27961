// Package config loads the scraper configuration from a YAML file, the
// environment and .env files.
package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes every environment variable, e.g. TCGSCRAPER_AUTH_EMAIL.
const EnvPrefix = "TCGSCRAPER"

// Config holds the full scraper configuration.
type Config struct {
	Site   SiteConfig   `mapstructure:"site"`
	Pages  PagesConfig  `mapstructure:"pages"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Render RenderConfig `mapstructure:"render"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// SiteConfig locates the catalog.
type SiteConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	ListingPath string `mapstructure:"listing_path"`
	SignInPath  string `mapstructure:"sign_in_path"`
}

// PagesConfig is the inclusive range of listing pages to crawl.
type PagesConfig struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
}

// AuthConfig holds the account credentials.
type AuthConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// RenderConfig configures the browser rendering of the collection modal.
type RenderConfig struct {
	Settle          time.Duration `mapstructure:"settle"`
	Timeout         time.Duration `mapstructure:"timeout"`
	LoginTimeout    time.Duration `mapstructure:"login_timeout"`
	Headless        bool          `mapstructure:"headless"`
	ModalSelector   string        `mapstructure:"modal_selector"`
	ReadySelector   string        `mapstructure:"ready_selector"`
	ControlsTimeout time.Duration `mapstructure:"controls_timeout"`
}

// HTTPConfig configures the page downloads.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// OutputConfig configures the sink.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with the defaults, the environment binding
// and the optional config file set up. Flags can be bound to it before
// calling Load.
func New(configFile string) *viper.Viper {
	v := viper.New()

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tcg-cardscraper")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("site.base_url", "https://www.tcgcollector.com")
	v.SetDefault("site.listing_path", "/cards/intl")
	v.SetDefault("site.sign_in_path", "/account/sign-in")
	v.SetDefault("pages.start", 1)
	v.SetDefault("pages.end", 1)
	v.SetDefault("auth.email", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("render.settle", 100*time.Millisecond)
	v.SetDefault("render.timeout", 20*time.Second)
	v.SetDefault("render.login_timeout", 60*time.Second)
	v.SetDefault("render.headless", true)
	v.SetDefault("render.modal_selector", `//button[@class='card-collection-card-modal-button']`)
	v.SetDefault("render.ready_selector", `//div[contains(@class,'modal')]`)
	v.SetDefault("render.controls_timeout", 5*time.Second)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "")
	v.SetDefault("output.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	return v
}

// LoadDotEnv loads the .env.local and .env files of the working directory
// into the environment, without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// Load reads the configuration file (if any) and unmarshals v.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the options the scraper can't run without.
func (c *Config) Validate() error {
	var problems []string

	base, err := url.Parse(c.Site.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		problems = append(problems, "site.base_url must be an absolute URL")
	}
	if c.Pages.Start < 1 {
		problems = append(problems, "pages.start must be at least 1")
	}
	if c.Pages.End < c.Pages.Start {
		problems = append(problems, "pages.end must not be lower than pages.start")
	}
	if len(c.Auth.Email) == 0 || len(c.Auth.Password) == 0 {
		problems = append(problems, "auth.email and auth.password are required")
	}
	if c.Render.Timeout <= 0 {
		problems = append(problems, "render.timeout must be positive")
	}
	if c.Render.LoginTimeout <= 0 {
		problems = append(problems, "render.login_timeout must be positive")
	}
	if c.Render.ControlsTimeout < 0 {
		problems = append(problems, "render.controls_timeout must not be negative")
	}
	if c.Render.Settle < 0 {
		problems = append(problems, "render.settle must not be negative")
	}
	if len(c.Output.Path) == 0 {
		problems = append(problems, "output.path is required")
	}

	if len(problems) > 0 {
		return eris.Wrap(ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

// SignInURL is the absolute URL of the sign-in page.
func (c *Config) SignInURL() string {
	return strings.TrimSuffix(c.Site.BaseURL, "/") + c.Site.SignInPath
}
