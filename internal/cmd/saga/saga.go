// Package saga wires configuration and dependencies for the saga service.
package saga

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/frostworks/drogvyn/internal/content"
	"github.com/frostworks/drogvyn/internal/platform/config"
	platformotel "github.com/frostworks/drogvyn/internal/platform/otel"
	"github.com/frostworks/drogvyn/internal/saga/domain"
	"github.com/frostworks/drogvyn/internal/saga/service"
	app "github.com/frostworks/drogvyn/internal/services/saga/app"
	"github.com/frostworks/drogvyn/internal/storage"
	boltstore "github.com/frostworks/drogvyn/internal/storage/bbolt"
	sqlitestore "github.com/frostworks/drogvyn/internal/storage/sqlite"
)

const (
	defaultHTTPAddr     = "localhost:8090"
	defaultStoreBackend = "sqlite"
	defaultStorePath    = "saga.db"
	defaultContentDir   = "content"
)

// Config holds the saga command configuration. Environment variables
// provide the baseline; flags override.
type Config struct {
	HTTPAddr     string `env:"DROGVYN_SAGA_HTTP_ADDR"`
	StoreBackend string `env:"DROGVYN_SAGA_STORE"`
	StorePath    string `env:"DROGVYN_SAGA_STORE_PATH"`
	ContentDir   string `env:"DROGVYN_SAGA_CONTENT_DIR"`
}

// ParseConfig parses environment variables and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		HTTPAddr:     defaultHTTPAddr,
		StoreBackend: defaultStoreBackend,
		StorePath:    defaultStorePath,
		ContentDir:   defaultContentDir,
	}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "session store backend (sqlite or bolt)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "session store file path")
	fs.StringVar(&cfg.ContentDir, "content-dir", cfg.ContentDir, "lore content directory")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// sessionStore is a closable session store backend.
type sessionStore interface {
	storage.SessionStore
	Close() error
}

func openStore(cfg Config) (sessionStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StoreBackend)) {
	case "sqlite":
		return sqlitestore.Open(cfg.StorePath)
	case "bolt", "bbolt":
		return boltstore.Open(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Run starts the saga server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := platformotel.Setup(ctx, "saga")
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		_ = shutdown(context.Background())
	}()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	catalog := content.DefaultCatalog()
	source := content.NewFSSource(os.DirFS(cfg.ContentDir), catalog)
	router := service.NewRouter(source, catalog, domain.DefaultRoster())
	processor := service.NewProcessor(store, router)

	server, err := app.NewServer(app.Config{HTTPAddr: cfg.HTTPAddr}, processor)
	if err != nil {
		return fmt.Errorf("init saga server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve saga: %w", err)
	}
	return nil
}
