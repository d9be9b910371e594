package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/demo"
)

// SeedDemoCommand inserts the sample library into the configured store.
type SeedDemoCommand struct {
	storeFlags
	Force bool

	Out io.Writer
}

func NewSeedDemoCommand() *SeedDemoCommand {
	return &SeedDemoCommand{}
}

func (cmd *SeedDemoCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed-demo", flag.ContinueOnError)

	fs.StringVar(&cmd.Backend, "backend", "", "Store backend: remote or sqlite (default from STORE_BACKEND)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the local database file (default from DATABASE_PATH)")
	fs.BoolVar(&cmd.Force, "force", false, "Seed even if the collection already has books")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed-demo [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert the sample library into the store. Skipped when the\n")
		fmt.Fprintf(os.Stderr, "collection is not empty unless -force is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SeedDemoCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	if !demo.HasSamples() {
		return errors.New("no sample books are embedded in this build")
	}

	app, err := cmd.openLoaded(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}
	defer app.Close()

	if existing := len(app.Collection.Snapshot()); existing > 0 && !cmd.Force {
		fmt.Fprintf(out, "Collection already has %d books, nothing to do (use -force to seed anyway)\n", existing)
		return nil
	}

	n, err := demo.Seed(ctx, app.Gateway)
	if err != nil {
		return fmt.Errorf("failed to seed after %d books: %w", n, err)
	}

	fmt.Fprintf(out, "Seeded %d sample books\n", n)
	return nil
}
