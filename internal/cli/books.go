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

// BooksCommand lists the collection, optionally filtered.
type BooksCommand struct {
	storeFlags
	Query    string
	Category string
	Verbose  bool

	Out io.Writer
}

func NewBooksCommand() *BooksCommand {
	return &BooksCommand{}
}

func (cmd *BooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("books", flag.ContinueOnError)

	cmd.register(fs)
	fs.StringVar(&cmd.Query, "q", "", "Case-insensitive search in title and author")
	fs.StringVar(&cmd.Category, "category", views.AllCategories, "Only show books in this category")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Show status, progress and rating")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s books [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List books in the collection, newest first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s books -q tolkien\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s books -category \"Science Fiction\" -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *BooksCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	app, err := cmd.openLoaded(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}
	defer app.Close()

	all := app.Collection.Snapshot()
	books := views.Filter(all, cmd.Query, cmd.Category)

	fmt.Fprintln(out, views.Summary(len(books), len(all), cmd.Query, cmd.Category))
	if len(books) == 0 {
		return nil
	}
	fmt.Fprintln(out)

	for i, b := range books {
		fmt.Fprintf(out, "%d. %q by %s [%s]\n", i+1, b.Title, b.Author, b.Category)
		if cmd.Verbose {
			fmt.Fprintf(out, "   %s, %d%%, %s\n", b.ReadingStatus, b.Progress, stars(b.Rating))
			fmt.Fprintf(out, "   id: %s\n", b.ID)
		}
	}
	return nil
}

func stars(rating int) string {
	return strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
}
