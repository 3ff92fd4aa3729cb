// Package cmd implements the hey command line
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/apimgr/hey/src/chat"
	"github.com/apimgr/hey/src/common/version"
	"github.com/apimgr/hey/src/config"
	"github.com/apimgr/hey/src/model"
	"github.com/apimgr/hey/src/search"
)

// Searcher runs a web search
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Result, error)
}

// Chatter streams a chat completion for a query and its context snippets
type Chatter interface {
	Chat(ctx context.Context, userInput string, snippets []string) (chat.Stream, error)
}

// App wires the command to its collaborators. Tests replace the
// constructors to avoid real network calls.
type App struct {
	Out io.Writer
	Err io.Writer

	ConfigOptions config.LoadOptions
	LoadConfig    func(config.LoadOptions) (*config.Config, error)
	NewSearcher   func(*config.Config) Searcher
	NewChatter    func(*config.Config) Chatter
}

// NewApp returns an App backed by the real search and chat clients
func NewApp() *App {
	return &App{
		Out:         os.Stdout,
		Err:         os.Stderr,
		LoadConfig:  config.Load,
		NewSearcher: func(cfg *config.Config) Searcher { return search.NewClient(cfg) },
		NewChatter:  func(cfg *config.Config) Chatter { return chat.NewClient(cfg) },
	}
}

type options struct {
	noOpenAI   bool
	noColor    bool
	showConfig bool
}

// NewRootCmd builds the hey command for app
func NewRootCmd(app *App) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   getBinaryName() + " <query> [--no-openai | -n]",
		Short: "Ask the web, get an answer",
		Long: `hey searches the web for your question and streams an answer
written from the top results, followed by the links it drew on.

Required environment: GCSE_ID, GCSE_API_KEY and OPENAI_API_KEY
(OPENAI_API_KEY is not needed with --no-openai).`,
		Example: `  hey "what is the capital of Australia"
  hey -n golang generics`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showConfig {
				return nil
			}
			if len(args) == 0 || strings.TrimSpace(strings.Join(args, "")) == "" {
				return &model.UsageError{Msg: "a query is required"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showConfig {
				return runShowConfig(app, opts)
			}
			return runQuery(cmd.Context(), app, opts, strings.Join(args, " "))
		},
	}

	root.SetOut(app.Out)
	root.SetErr(app.Err)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &model.UsageError{Err: err}
	})

	root.Flags().BoolVarP(&opts.noOpenAI, "no-openai", "n", false, "print raw search results instead of asking the chat model")
	root.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.Flags().BoolVar(&opts.showConfig, "show-config", false, "print the resolved configuration (secrets masked) and exit")

	return root
}

// Execute runs hey with the process arguments and returns the exit status
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewApp(), os.Args[1:])
}

func run(ctx context.Context, app *App, args []string) int {
	root := NewRootCmd(app)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return model.ExitOK
	}

	code := model.ExitCode(err)
	slog.Error("hey failed", "error", err, "exit_code", code)
	fmt.Fprintf(app.Err, "Error: %v\n", err)

	var usageErr *model.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(app.Err, "Run '%s --help' for usage.\n", getBinaryName())
	}
	return code
}

func getBinaryName() string {
	name := filepath.Base(os.Args[0])
	if name == "" || name == "." || strings.HasSuffix(name, ".test") {
		return "hey"
	}
	return name
}
