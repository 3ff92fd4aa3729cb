package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/apimgr/hey/src/display"
	"github.com/apimgr/hey/src/search"
)

// runQuery searches for query and prints either the raw results or a
// streamed answer with citations.
func runQuery(ctx context.Context, app *App, opts *options, query string) error {
	log := slog.With("run_id", uuid.NewString())

	loadOpts := app.ConfigOptions
	loadOpts.RequireChat = !opts.noOpenAI
	cfg, err := app.LoadConfig(loadOpts)
	if err != nil {
		return err
	}

	out := display.NewPrinter(app.Out, display.ColorEnabled(app.Out, opts.noColor))

	start := time.Now()
	log.Info("searching", "query", query)
	result, err := app.NewSearcher(cfg).Search(ctx, query)
	if err != nil {
		return err
	}
	log.Info("search complete", "results", len(result.Items), "duration", time.Since(start))

	if opts.noOpenAI {
		return printResults(out, result)
	}

	log.Info("asking chat model", "model", cfg.OpenAIModel, "snippets", len(result.Items))
	stream, err := app.NewChatter(cfg).Chat(ctx, query, result.Snippets())
	if err != nil {
		return err
	}
	defer stream.Close()

	chars := 0
	for stream.Next() {
		text := stream.Current().Text
		chars += len(text)
		if err := out.Print(text); err != nil {
			return err
		}
	}
	// Whatever already streamed stays on screen; end the line before
	// the error or the citations.
	if err := out.Println(""); err != nil {
		return err
	}
	if err := stream.Err(); err != nil {
		return err
	}
	log.Info("answer complete", "chars", chars, "duration", time.Since(start))

	return printCitations(out, result)
}

func printResults(out *display.Printer, result *search.Result) error {
	if err := out.Printf("Found %d results:\n", len(result.Items)); err != nil {
		return err
	}
	for i, item := range result.Items {
		if err := out.Printf("%d. %s (%s)\n", i+1, item.Snippet, item.Link); err != nil {
			return err
		}
	}
	return nil
}

func printCitations(out *display.Printer, result *search.Result) error {
	if err := out.Println("Citations:"); err != nil {
		return err
	}
	for i, link := range result.Links() {
		if err := out.Printf("%d. (%s)\n", i+1, link); err != nil {
			return err
		}
	}
	return nil
}
