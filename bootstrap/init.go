package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/common/cache"
	"github.com/krau/SaveFolio/common/utils/netutil"
	"github.com/krau/SaveFolio/config"
	"github.com/krau/SaveFolio/core/archive"
	"github.com/krau/SaveFolio/core/extract"
	"github.com/krau/SaveFolio/core/relay"
	"github.com/krau/SaveFolio/extractors"
	"github.com/krau/SaveFolio/logger"
	"github.com/krau/SaveFolio/pkg/guard"
)

// Init loads the configuration and returns ctx carrying the root logger.
// The closer releases the log file, if any.
func Init(ctx context.Context, configFile string) (context.Context, io.Closer, error) {
	if err := config.Init(configFile); err != nil {
		return ctx, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.C()
	l, closer, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return ctx, nil, err
	}
	log.SetDefault(l)
	return log.WithContext(ctx, l), closer, nil
}

// App holds the long lived components shared by the commands.
type App struct {
	Client   *http.Client
	Guard    *guard.Guard
	Cache    *cache.Cache
	Registry *extractors.Registry
	Extract  *extract.Service
	Archive  *archive.Builder
	Relay    *relay.Relay
}

func NewApp(ctx context.Context) (*App, error) {
	cfg := config.C()
	logger := log.FromContext(ctx)

	client, err := netutil.NewClient(netutil.Options{
		Proxy:     cfg.Proxy,
		UserAgent: cfg.Extract.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	// page fetches may land anywhere public, but never on a private host
	client = netutil.CheckRedirects(client, guard.IsPublicInput)
	netutil.SetDefaultClient(client)
	if cfg.Proxy != "" {
		logger.Info("Using upstream proxy", "proxy", cfg.Proxy)
	}

	g := guard.New(cfg.Guard.ExtraDomains...)

	c, err := cache.New(cache.Config{
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTLDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	var pluginDirs []string
	if cfg.Extractors.PluginEnable {
		pluginDirs = cfg.Extractors.PluginDirs
	}
	reg, err := extractors.NewDefault(ctx, extractors.Options{
		Client:     client,
		Strict:     cfg.Extract.Strict,
		YouTube:    cfg.Extract.YouTube,
		Proxy:      cfg.Proxy,
		PluginDirs: pluginDirs,
		Configs:    cfg.Extractors.Configs,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	return &App{
		Client:   client,
		Guard:    g,
		Cache:    c,
		Registry: reg,
		Extract:  extract.NewService(reg, c),
		Archive: archive.NewBuilder(archive.Options{
			Workers:        cfg.Archive.Workers,
			Client:         client,
			Guard:          g,
			FetchTimeout:   cfg.Archive.FetchTimeoutDuration(),
			MaxRetries:     cfg.Archive.MaxRetries,
			InitialBackoff: cfg.Archive.InitialBackoffDuration(),
			Referer:        cfg.Archive.Referer,
		}),
		Relay: relay.New(client, g),
	}, nil
}

func (a *App) Close() {
	a.Cache.Close()
}
