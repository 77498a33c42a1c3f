package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/rohmanhakim/nps-nearby/internal/cache"
	"github.com/rohmanhakim/nps-nearby/internal/config"
	"github.com/rohmanhakim/nps-nearby/internal/explorer"
	"github.com/rohmanhakim/nps-nearby/internal/fetcher"
	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/limiter"
	"github.com/rohmanhakim/nps-nearby/pkg/urlutil"
)

// app holds the components shared by every command.
type app struct {
	cfg      config.Config
	recorder *metadata.Recorder
	store    cache.Store
	explorer *explorer.Explorer
	logOut   io.Closer
}

func newApp(cfg config.Config, stderr io.Writer) (*app, error) {
	var logOut io.Closer
	logWriter := stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logWriter = f
		logOut = f
	}
	recorder := metadata.NewRecorder(logWriter, verbose)

	store, err := cache.Open(cfg.CacheBackend(), cfg.CacheFile(), recorder)
	if err != nil {
		if logOut != nil {
			logOut.Close()
		}
		return nil, err
	}

	cachedFetcher := fetcher.NewCachedFetcher(
		recorder,
		store,
		limiter.NewCooldown(cfg.Cooldown()),
		&http.Client{Timeout: cfg.Timeout()},
		cfg.Headers(),
	)
	cachedFetcher.SetCacheErrorResponses(cfg.CacheErrorResponses())

	endpoint := cfg.PlacesEndpoint()
	exp := explorer.NewExplorer(
		recorder,
		cachedFetcher,
		urlutil.BaseString(cfg.BaseURL()),
		explorer.PlacesParam{
			Endpoint:   endpoint.String(),
			APIKey:     cfg.APIKey(),
			Radius:     cfg.Radius(),
			MaxMatches: cfg.MaxMatches(),
		},
	)

	return &app{
		cfg:      cfg,
		recorder: recorder,
		store:    store,
		explorer: exp,
		logOut:   logOut,
	}, nil
}

func (a *app) close() {
	cache.Close(a.store)
	if a.logOut != nil {
		a.logOut.Close()
	}
}

func parseURLFlag(raw string) (url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("%w: base-url: %s", config.ErrInvalidConfig, err.Error())
	}
	return *u, nil
}
