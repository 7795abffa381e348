package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
)

const (
	defaultListen         = "0.0.0.0:3000"
	defaultSiteRoot       = "."
	defaultSiteURL        = "http://localhost:3000"
	defaultSiteTitle      = "Behind the Curtain"
	defaultLogLevel       = "info"
	defaultLogMode        = "production"
	defaultPostsPerPage   = 10
	defaultFeedSize       = 20
	defaultHighlightStyle = "github"
	postsDir              = "posts"
	templatesDir          = "templates/pages"
	staticDir             = "static"
)

type Config struct {
	File            string   `json:"-" arg:"--config,env:CURTAIN_CONFIG" help:"JSON configuration file, comments allowed"`
	SiteRoot        string   `json:"site_root" arg:"--site-root,env:SITE_ROOT" help:"directory containing posts/, templates/pages/ and static/"`
	Listen          string   `json:"listen" arg:"--listen,env:LISTEN_ADDR" help:"Listen on this address"`
	LogLevel        string   `json:"log_level" arg:"--log-level,env:LOG_LEVEL" help:"One of debug, info, warn, error, dpanic, panic, fatal"`
	LogMode         string   `json:"log_mode" arg:"--log-mode,env:LOG_MODE" help:"development or production"`
	SiteURL         string   `json:"site_url" arg:"--site-url,env:SITE_URL" help:"absolute URL the site is reachable at, used in the feed"`
	SiteTitle       string   `json:"site_title" arg:"--site-title,env:SITE_TITLE"`
	SiteDescription string   `json:"site_description" arg:"--site-description,env:SITE_DESCRIPTION"`
	SiteAuthor      string   `json:"site_author" arg:"--site-author,env:SITE_AUTHOR"`
	PostsPerPage    int      `json:"posts_per_page" arg:"--posts-per-page,env:POSTS_PER_PAGE" help:"number of posts listed on the index page"`
	FeedSize        int      `json:"feed_size" arg:"--feed-size,env:FEED_SIZE" help:"number of posts in the RSS feed"`
	Codecs          []string `json:"codecs" arg:"--codecs,env:CODECS" help:"content codings to negotiate, from gzip, deflate, zlib, br, zstd; defaults to gzip, deflate, zlib"`
	HighlightStyle  string   `json:"highlight_style" arg:"--highlight-style,env:HIGHLIGHT_STYLE" help:"chroma style for code blocks"`
}

func LoadBytes(input []byte) (*Config, error) {
	config := &Config{}
	if err := json.Unmarshal(jsonc.ToJSON(input), config); err != nil {
		return nil, errors.WithMessage(err, "while decoding config")
	}
	return config, nil
}

func LoadFile(path string) (*Config, error) {
	if raw, err := os.ReadFile(path); err != nil {
		return nil, errors.WithMessagef(err, "while opening file %s", path)
	} else if config, err := LoadBytes(raw); err != nil {
		return nil, errors.WithMessagef(err, "while decoding file %s", path)
	} else {
		config.File = path
		return config, nil
	}
}

// Merge returns a copy of c with every non-zero field of override applied.
func (c Config) Merge(override *Config) *Config {
	merged := c
	mergeString(&merged.File, override.File)
	mergeString(&merged.SiteRoot, override.SiteRoot)
	mergeString(&merged.Listen, override.Listen)
	mergeString(&merged.LogLevel, override.LogLevel)
	mergeString(&merged.LogMode, override.LogMode)
	mergeString(&merged.SiteURL, override.SiteURL)
	mergeString(&merged.SiteTitle, override.SiteTitle)
	mergeString(&merged.SiteDescription, override.SiteDescription)
	mergeString(&merged.SiteAuthor, override.SiteAuthor)
	mergeString(&merged.HighlightStyle, override.HighlightStyle)
	if override.PostsPerPage != 0 {
		merged.PostsPerPage = override.PostsPerPage
	}
	if override.FeedSize != 0 {
		merged.FeedSize = override.FeedSize
	}
	if len(override.Codecs) > 0 {
		merged.Codecs = append([]string{}, override.Codecs...)
	}
	return &merged
}

func mergeString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// Prepare fills in defaults and validates the configuration. The Config
// must not be modified afterwards.
func (c *Config) Prepare() error {
	setDefault(&c.SiteRoot, defaultSiteRoot)
	setDefault(&c.Listen, defaultListen)
	setDefault(&c.LogLevel, defaultLogLevel)
	setDefault(&c.LogMode, defaultLogMode)
	setDefault(&c.SiteURL, defaultSiteURL)
	setDefault(&c.SiteTitle, defaultSiteTitle)
	setDefault(&c.HighlightStyle, defaultHighlightStyle)
	if c.PostsPerPage == 0 {
		c.PostsPerPage = defaultPostsPerPage
	}
	if c.FeedSize == 0 {
		c.FeedSize = defaultFeedSize
	}

	c.SiteRoot = os.ExpandEnv(c.SiteRoot)
	c.SiteURL = strings.TrimSuffix(c.SiteURL, "/")

	if c.PostsPerPage < 0 {
		return errors.Errorf("posts_per_page must be positive, got %d", c.PostsPerPage)
	}
	if c.FeedSize < 0 {
		return errors.Errorf("feed_size must be positive, got %d", c.FeedSize)
	}

	if info, err := os.Stat(c.SiteRoot); err != nil {
		return errors.WithMessagef(err, "checking site root %s", c.SiteRoot)
	} else if !info.IsDir() {
		return errors.Errorf("site root %s is not a directory", c.SiteRoot)
	}

	return nil
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func (c *Config) PostsDir() string {
	return filepath.Join(c.SiteRoot, postsDir)
}

func (c *Config) TemplatesDir() string {
	return filepath.Join(c.SiteRoot, filepath.FromSlash(templatesDir))
}

func (c *Config) StaticDir() string {
	return filepath.Join(c.SiteRoot, staticDir)
}
