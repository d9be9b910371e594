package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/bookshelf/internal/views"
)

// StatsCommand prints reading statistics for the collection.
type StatsCommand struct {
	storeFlags

	Out io.Writer
}

func NewStatsCommand() *StatsCommand {
	return &StatsCommand{}
}

func (cmd *StatsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	cmd.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show reading statistics and categories.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *StatsCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	app, err := cmd.openLoaded(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}
	defer app.Close()

	books := app.Collection.Snapshot()
	stats := views.ComputeStats(books)

	fmt.Fprintln(out, "Reading Statistics")
	fmt.Fprintln(out, "==================")
	fmt.Fprintf(out, "%-18s %d\n", "Total books:", stats.Total)
	fmt.Fprintf(out, "%-18s %d\n", "Currently reading:", stats.Reading)
	fmt.Fprintf(out, "%-18s %d\n", "Completed:", stats.Completed)
	fmt.Fprintf(out, "%-18s %d%%\n", "Average progress:", stats.AvgProgress)

	if categories := views.Categories(books); len(categories) > 0 {
		fmt.Fprintf(out, "%-18s %s\n", "Categories:", strings.Join(categories, ", "))
	}
	return nil
}
