// Package app holds the wiring shared by the bookmeta subcommands: config,
// logger, page fetcher and strategy registry.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bookmeta/src/internal/config"
	"bookmeta/src/internal/extract"
	"bookmeta/src/internal/googlebooks"
	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/logging"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sources"
	"bookmeta/src/internal/webfetch"
)

// ErrUnsupported is reported when no strategy produces a record for a page.
var ErrUnsupported = errors.New("page not supported")

// Env is one invocation's collaborators.
type Env struct {
	Config  config.Config
	Log     zerolog.Logger
	HTTP    httpx.Doer
	Fetcher *webfetch.Fetcher
}

// Load reads the config named by the --config flag (or its fallbacks) and
// builds the collaborators. --debug forces debug logging on stderr.
func Load(cmd *cobra.Command) (Env, error) {
	cfg, err := config.Load(config.Resolve(flagString(cmd, "config")))
	if err != nil {
		return Env{}, err
	}
	if flagBool(cmd, "debug") {
		cfg.Debug = true
	}
	client := httpx.NewClient(cfg.HTTP.Timeout)
	return Env{
		Config:  cfg,
		Log:     logging.New(cmd.ErrOrStderr(), cfg.Debug),
		HTTP:    client,
		Fetcher: webfetch.New(client, cfg.HTTP.RequestsPerSecond),
	}, nil
}

// Registry returns the default strategies. Google Books pages are enriched
// from the volumes API when both the config and the caller allow it.
func (e Env) Registry(enrich bool) sources.Registry {
	if !enrich || !e.Config.Enrich {
		return sources.Default(nil)
	}
	return sources.Default(googlebooks.New(e.HTTP))
}

// Document loads htmlFile when set, otherwise fetches rawURL.
func (e Env) Document(ctx context.Context, rawURL, htmlFile string) (*goquery.Document, error) {
	if strings.TrimSpace(htmlFile) != "" {
		return webfetch.LoadFile(htmlFile)
	}
	return e.Fetcher.Fetch(ctx, rawURL)
}

// Extract matches rawURL, loads its page and runs the strategy. Unsupported
// addresses fail before anything is fetched.
func (e Env) Extract(ctx context.Context, rawURL, htmlFile string, enrich bool) (record.Record, error) {
	opts := extract.Options{Registry: e.Registry(enrich), Log: e.Log}
	if _, ok, err := extract.Match(rawURL, opts); err != nil {
		return record.Record{}, err
	} else if !ok {
		return record.Record{}, fmt.Errorf("%w: %s", ErrUnsupported, rawURL)
	}
	doc, err := e.Document(ctx, rawURL, htmlFile)
	if err != nil {
		return record.Record{}, err
	}
	r, ok, err := extract.Document(ctx, doc, rawURL, opts)
	if err != nil {
		return record.Record{}, err
	}
	if !ok {
		return record.Record{}, fmt.Errorf("%w: %s", ErrUnsupported, rawURL)
	}
	return r, nil
}

func flagString(cmd *cobra.Command, name string) string {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

func flagBool(cmd *cobra.Command, name string) bool {
	return flagString(cmd, name) == "true"
}
