package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/jamoo-dev/curtain/pkg/config"
	"github.com/jamoo-dev/curtain/pkg/content"
	"github.com/jamoo-dev/curtain/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	posts := newPosts()
	arg.MustParse(posts)
	posts.setupLogger()

	if err := posts.run(os.Stdout); err != nil {
		posts.log.Fatal("listing posts failed", zap.Error(err))
	}
}

// Posts lists the entries the server would publish, with their URLs.
type Posts struct {
	SiteRoot string `arg:"--site-root,env:SITE_ROOT" help:"directory containing posts/"`
	SiteURL  string `arg:"--site-url,env:SITE_URL" help:"prefix for the printed URLs"`
	Limit    int    `arg:"--limit" help:"maximum number of posts, 0 for all"`
	After    int64  `arg:"--after" help:"only posts modified after this Unix time"`
	Resolve  string `arg:"--resolve" help:"print the file a percent-encoded identifier resolves to"`
	LogLevel string `arg:"--log-level,env:LOG_LEVEL" help:"One of debug, info, warn, error, dpanic, panic, fatal"`
	LogMode  string `arg:"--log-mode,env:LOG_MODE" help:"development or production"`
	log      *zap.Logger
}

func newPosts() *Posts {
	devLog, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	return &Posts{
		SiteRoot: ".",
		LogLevel: "warn",
		LogMode:  logger.ModeDevelopment,
		log:      devLog,
	}
}

func (p *Posts) setupLogger() {
	if log, err := logger.SetupLogger(p.LogMode, p.LogLevel); err != nil {
		panic(err)
	} else {
		p.log = log
	}
}

func (p *Posts) store() (*content.Store, error) {
	c := &config.Config{SiteRoot: p.SiteRoot, SiteURL: p.SiteURL}
	if err := c.Prepare(); err != nil {
		return nil, err
	}
	p.SiteURL = c.SiteURL
	return content.NewStore(c.PostsDir()), nil
}

func (p *Posts) run(out io.Writer) error {
	store, err := p.store()
	if err != nil {
		return err
	}

	if p.Resolve != "" {
		entry, err := store.Resolve(p.Resolve)
		if err != nil {
			return errors.WithMessagef(err, "resolving %q", p.Resolve)
		}
		_, err = fmt.Fprintln(out, entry.Path)
		return err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = int(^uint(0) >> 1)
	}

	var after time.Time
	if p.After != 0 {
		after = time.Unix(p.After, 0)
	}

	entries, err := store.List(limit, after)
	if err != nil {
		return err
	}
	p.log.Debug("listed posts", zap.String("root", store.Root()), zap.Int("count", len(entries)))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			entry.ModTime.UTC().Format(time.RFC3339),
			p.SiteURL+entry.URLPath(),
			entry.Title,
		)
	}
	return tw.Flush()
}
