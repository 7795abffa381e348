package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/assertions"
)

const exampleConfig = `
{
  // where posts/, templates/pages/ and static/ live
  "site_root": "$CURTAIN_SITE",
  "listen": "0.0.0.0:7745",
  "log_level": "debug",
  "log_mode": "production",
  "site_url": "https://jamoo.dev/",
  "site_title": "Behind the Curtain: Solving Your Own Problems with Code",
  "site_description": "Jasmine Moore's blog",
  "feed_size": 5,
  /* brotli for clients that ask for it */
  "codecs": ["br", "gzip", "deflate", "zlib"],
}
`

func TestConfig(t *testing.T) {
	a := assertions.New(t)

	site := t.TempDir()
	os.Setenv("CURTAIN_SITE", site)
	defer os.Unsetenv("CURTAIN_SITE")

	c, err := LoadBytes([]byte(exampleConfig))
	a.So(err, assertions.ShouldBeNil)
	a.So(c.Prepare(), assertions.ShouldBeNil)
	a.So(c, assertions.ShouldResemble, &Config{
		SiteRoot:        site,
		Listen:          "0.0.0.0:7745",
		LogLevel:        "debug",
		LogMode:         "production",
		SiteURL:         "https://jamoo.dev",
		SiteTitle:       "Behind the Curtain: Solving Your Own Problems with Code",
		SiteDescription: "Jasmine Moore's blog",
		PostsPerPage:    10,
		FeedSize:        5,
		Codecs:          []string{"br", "gzip", "deflate", "zlib"},
		HighlightStyle:  "github",
	})

	a.So(c.PostsDir(), assertions.ShouldEqual, filepath.Join(site, "posts"))
	a.So(c.TemplatesDir(), assertions.ShouldEqual, filepath.Join(site, "templates", "pages"))
	a.So(c.StaticDir(), assertions.ShouldEqual, filepath.Join(site, "static"))
}

func TestConfigDefaults(t *testing.T) {
	a := assertions.New(t)

	c := &Config{SiteRoot: t.TempDir()}
	a.So(c.Prepare(), assertions.ShouldBeNil)
	a.So(c.Listen, assertions.ShouldEqual, "0.0.0.0:3000")
	a.So(c.LogLevel, assertions.ShouldEqual, "info")
	a.So(c.Codecs, assertions.ShouldBeEmpty)
	a.So(c.PostsPerPage, assertions.ShouldEqual, 10)
	a.So(c.FeedSize, assertions.ShouldEqual, 20)
}

func TestConfigInvalid(t *testing.T) {
	a := assertions.New(t)
	site := t.TempDir()

	a.So((&Config{SiteRoot: site, FeedSize: -1}).Prepare(), assertions.ShouldNotBeNil)
	a.So((&Config{SiteRoot: filepath.Join(site, "missing")}).Prepare(), assertions.ShouldNotBeNil)

	file := filepath.Join(site, "file")
	a.So(os.WriteFile(file, nil, 0o644), assertions.ShouldBeNil)
	a.So((&Config{SiteRoot: file}).Prepare(), assertions.ShouldNotBeNil)

	_, err := LoadBytes([]byte(`{"listen": 3000}`))
	a.So(err, assertions.ShouldNotBeNil)
}

func TestMerge(t *testing.T) {
	a := assertions.New(t)

	base := Config{Listen: ":1", SiteTitle: "file", FeedSize: 3, Codecs: []string{"gzip"}}
	merged := base.Merge(&Config{Listen: ":2", PostsPerPage: 4})

	a.So(merged.Listen, assertions.ShouldEqual, ":2")
	a.So(merged.SiteTitle, assertions.ShouldEqual, "file")
	a.So(merged.FeedSize, assertions.ShouldEqual, 3)
	a.So(merged.PostsPerPage, assertions.ShouldEqual, 4)
	a.So(merged.Codecs, assertions.ShouldResemble, []string{"gzip"})
	a.So(base.Listen, assertions.ShouldEqual, ":1")
}

func TestLoadFile(t *testing.T) {
	a := assertions.New(t)
	path := filepath.Join(t.TempDir(), "curtain.json")
	a.So(os.WriteFile(path, []byte(`{"listen": ":8080"}`), 0o644), assertions.ShouldBeNil)

	c, err := LoadFile(path)
	a.So(err, assertions.ShouldBeNil)
	a.So(c.Listen, assertions.ShouldEqual, ":8080")
	a.So(c.File, assertions.ShouldEqual, path)

	_, err = LoadFile(path + ".missing")
	a.So(err, assertions.ShouldNotBeNil)
}
