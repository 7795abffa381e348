package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/jamoo-dev/curtain/pkg/compression"
	"github.com/jamoo-dev/curtain/pkg/config"
	"github.com/jamoo-dev/curtain/pkg/content"
	"github.com/jamoo-dev/curtain/pkg/logger"
	"github.com/jamoo-dev/curtain/pkg/pages"
	"github.com/jamoo-dev/curtain/pkg/render"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const timeout = 30 * time.Second

var (
	buildVersion = "dev"
	buildCommit  = "dirty"
)

func version() string {
	return buildVersion + " (" + buildCommit + ")"
}

// CLI holds the flags and environment. Values given here override the
// ones from the --config file.
type CLI struct {
	config.Config
}

func (CLI) Version() string {
	return "curtain " + version()
}

func (CLI) Description() string {
	return "curtain serves markdown posts, page templates and an RSS feed from a site directory"
}

func main() {
	cli := &CLI{}
	arg.MustParse(cli)

	c, err := loadConfig(cli)
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.SetupLogger(c.LogMode, c.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		t := time.Tick(5 * time.Second)
		for range t {
			if err := zlog.Sync(); err != nil {
				if err.Error() != "sync /dev/stderr: invalid argument" {
					log.Printf("failed to sync zap: %s", err)
				}
			}
		}
	}()

	// nolint
	defer zlog.Sync()

	server, err := NewServer(c, zlog)
	if err != nil {
		zlog.Fatal("failed setting up server", zap.Error(err))
	}

	srv := &http.Server{
		Handler:      server.router(),
		Addr:         c.Listen,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(
		sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		zlog.Info("Server starting",
			zap.String("listen", c.Listen),
			zap.String("site_root", c.SiteRoot),
			zap.Strings("codecs", server.compressor.Names()),
			zap.String("version", version()),
		)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			// Only log an error if it's not due to shutdown or close
			zlog.Fatal("error bringing up listener", zap.Error(err))
		}
	}()

	<-sc
	signal.Stop(sc)

	ctxShutDown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		zlog.Fatal("server shutdown failed", zap.Error(err))
	}

	zlog.Info("server shutdown gracefully")
}

func loadConfig(cli *CLI) (*config.Config, error) {
	c := &cli.Config
	if cli.File != "" {
		fromFile, err := config.LoadFile(os.ExpandEnv(cli.File))
		if err != nil {
			return nil, err
		}
		c = fromFile.Merge(&cli.Config)
	}

	if err := c.Prepare(); err != nil {
		return nil, errors.WithMessage(err, "invalid configuration")
	}
	return c, nil
}

// Server holds everything the handlers share. None of it is mutated after
// NewServer returns.
type Server struct {
	config     *config.Config
	log        *zap.Logger
	posts      *content.Store
	static     *content.Store
	pages      *pages.Pages
	renderer   render.Renderer
	compressor *compression.Compressor
}

func NewServer(c *config.Config, log *zap.Logger) (*Server, error) {
	codecs := c.Codecs
	if len(codecs) == 0 {
		codecs = compression.DefaultCodecs
	}

	compressor, err := compression.New(codecs...)
	if err != nil {
		return nil, errors.WithMessage(err, "setting up compression")
	}

	return &Server{
		config:     c,
		log:        log,
		posts:      content.NewStore(c.PostsDir()),
		static:     content.NewStore(c.StaticDir()),
		pages:      pages.New(c.TemplatesDir()),
		renderer:   render.NewMarkdown(c.HighlightStyle),
		compressor: compressor,
	}, nil
}
