package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// storeFlags are shared by every command that talks to the store. Unset
// flags fall back to the environment configuration.
type storeFlags struct {
	Backend      string
	DatabasePath string
	Demo         bool
}

func (f *storeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.Backend, "backend", "", "Store backend: remote, sqlite or memory (default from STORE_BACKEND)")
	fs.StringVar(&f.DatabasePath, "db", "", "Path to the local database file (default from DATABASE_PATH)")
	fs.BoolVar(&f.Demo, "demo", false, "Use the in-memory sample library")
}

func (f *storeFlags) config() *config.Config {
	cfg := config.NewConfig()
	if f.Backend != "" {
		cfg.Store.Backend = config.StoreBackend(f.Backend)
	}
	if f.DatabasePath != "" {
		cfg.Database.Path = f.DatabasePath
	}
	if f.Demo {
		cfg.Demo.Enabled = true
	}
	return cfg
}

// openLoaded builds the app and performs the first load.
func (f *storeFlags) openLoaded(ctx context.Context) (*entrypoint.App, error) {
	app, err := entrypoint.NewApp(ctx, f.config(), nil)
	if err != nil {
		return nil, err
	}
	if err := app.Collection.Load(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
