package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// AddCommand adds one book and waits for the store to confirm it.
type AddCommand struct {
	storeFlags
	Title         string
	Author        string
	Category      string
	Description   string
	Notes         string
	Rating        int
	ReadingStatus string
	Progress      int
	CoverURL      string

	Out io.Writer
}

func NewAddCommand() *AddCommand {
	return &AddCommand{}
}

func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)

	cmd.register(fs)
	fs.StringVar(&cmd.Title, "title", "", "Book title (required)")
	fs.StringVar(&cmd.Author, "author", "", "Book author (required)")
	fs.StringVar(&cmd.Category, "category", "", "Category (default \"Fiction\")")
	fs.StringVar(&cmd.Description, "description", "", "Short description")
	fs.StringVar(&cmd.Notes, "notes", "", "Personal notes")
	fs.IntVar(&cmd.Rating, "rating", 0, "Rating from 0 to 5")
	fs.StringVar(&cmd.ReadingStatus, "status", string(entities.ReadingStatusNotStarted), "Not Started, Reading or Completed")
	fs.IntVar(&cmd.Progress, "progress", 0, "Reading progress from 0 to 100")
	fs.StringVar(&cmd.CoverURL, "cover", "", "Cover image URL")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add -title <title> -author <author> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add a book to the collection.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s add -title Dune -author \"Frank Herbert\" -category \"Science Fiction\" -status Reading -progress 10\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	return cmd.validate()
}

func (cmd *AddCommand) validate() error {
	cmd.Title = strings.TrimSpace(cmd.Title)
	cmd.Author = strings.TrimSpace(cmd.Author)

	if cmd.Title == "" {
		return errors.New("required flag -title not provided")
	}
	if cmd.Author == "" {
		return errors.New("required flag -author not provided")
	}
	if cmd.Rating < 0 || cmd.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5, got %d", cmd.Rating)
	}
	if cmd.Progress < 0 || cmd.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %d", cmd.Progress)
	}
	if !entities.ReadingStatus(cmd.ReadingStatus).Valid() {
		return fmt.Errorf("unknown reading status %q", cmd.ReadingStatus)
	}
	return nil
}

func (cmd *AddCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	app, err := cmd.openLoaded(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}
	defer app.Close()

	m := app.Collection.Add(ctx, entities.Draft{
		Title:         cmd.Title,
		Author:        cmd.Author,
		Category:      strings.TrimSpace(cmd.Category),
		Description:   cmd.Description,
		Notes:         cmd.Notes,
		Rating:        cmd.Rating,
		ReadingStatus: entities.ReadingStatus(cmd.ReadingStatus),
		Progress:      cmd.Progress,
		CoverURL:      strings.TrimSpace(cmd.CoverURL),
	})
	if err := m.Wait(ctx); err != nil {
		return fmt.Errorf("failed to add book: %w", err)
	}

	b := m.Book()
	fmt.Fprintf(out, "Added %q by %s (id %s)\n", b.Title, b.Author, b.ID)
	return nil
}
