package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/apimgr/hey/src/display"
)

// runShowConfig prints the resolved configuration with secrets masked.
// Only the search credentials are required; the chat key may be absent.
func runShowConfig(app *App, opts *options) error {
	cfg, err := app.LoadConfig(app.ConfigOptions)
	if err != nil {
		return err
	}

	out := display.NewPrinter(app.Out, display.ColorEnabled(app.Out, opts.noColor))
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
