// Package commands implements the statcard subcommands.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/obsidianstack/statcard/internal/card"
	"github.com/obsidianstack/statcard/internal/frames"
	"github.com/obsidianstack/statcard/internal/options"
	"github.com/obsidianstack/statcard/internal/terminal"
	"github.com/obsidianstack/statcard/pkg/types"
)

const (
	renderCmdShort = "Render a status card from a query result"
	stdinPath      = "-"

	outputJSON  = "json"
	outputTable = "table"
)

// ErrNoFrames is returned when the --frames flag is not set.
var ErrNoFrames = errors.New("frames file is required (use --frames, or - for stdin)")

// ErrWatchWithoutOptions is returned when --watch is set without --options.
var ErrWatchWithoutOptions = errors.New("--watch needs an options file (use --options)")

type renderFlags struct {
	frames  string
	format  string
	options string
	output  string
	watch   bool
	noColor bool
}

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: renderCmdShort,
		Long: `Render decodes a query result, selects the first numeric field of the
first series and prints the resulting card.

With --watch the card is printed again every time the options file changes,
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.frames, "frames", "f", "", "query result file, - for stdin")
	cmd.Flags().StringVar(&flags.format, "format", string(frames.FormatJSON), "query result format: json|prometheus")
	cmd.Flags().StringVar(&flags.options, "options", "", "panel options YAML file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputTable, "output format: table|json")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-render when the options file changes")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable coloured output")

	return cmd
}

func runRender(ctx context.Context, stdin io.Reader, out io.Writer, flags renderFlags) error {
	if flags.frames == "" {
		return ErrNoFrames
	}
	if flags.watch && flags.options == "" {
		return ErrWatchWithoutOptions
	}
	if flags.output != outputJSON && flags.output != outputTable {
		return fmt.Errorf("unknown output %q: want table|json", flags.output)
	}

	format, err := frames.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	series, err := readFrames(stdin, flags.frames, format)
	if err != nil {
		return err
	}

	opts := options.Defaults()
	if flags.options != "" {
		if opts, err = options.Load(flags.options); err != nil {
			return err
		}
	}

	if err := writeCard(out, card.Build(series, opts), flags); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}

	// A failed write is logged; the watcher keeps running.
	return options.Watch(ctx, flags.options, func(o options.Options) {
		if err := writeCard(out, card.Build(series, o), flags); err != nil {
			slog.Error("render: write card", "err", err)
		}
	})
}

func readFrames(stdin io.Reader, path string, format frames.Format) ([]types.Series, error) {
	if path == stdinPath {
		return frames.Decode(stdin, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frames: %w", err)
	}
	defer f.Close()

	return frames.Decode(f, format)
}

func writeCard(out io.Writer, vm card.ViewModel, flags renderFlags) error {
	if flags.output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(vm)
	}
	return terminal.Render(out, vm, terminal.RenderOptions{NoColor: flags.noColor})
}
