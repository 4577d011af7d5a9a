package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/app"
)

// watchDebounce collapses the bursts of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-evaluate a design every time the file is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(o.cfg, o.log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			path := args[0]
			return watch(ctx, path, watchDebounce, func() {
				source, err := os.ReadFile(path)
				if err != nil {
					o.log.Warn("reading design failed", "path", path, "error", err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "--- %s\n", time.Now().Format(time.TimeOnly))
				if err := writeSummary(cmd.OutOrStdout(), a.Evaluate(string(source))); err != nil {
					o.log.Warn("writing summary failed", "error", err)
				}
			})
		},
	}
}

// watch calls run once, then again after each change to path settles,
// until ctx is done.
func watch(ctx context.Context, path string, debounce time.Duration, run func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	// Editors often save by renaming a new file over the old one, which
	// drops a watch on the file itself.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				timer.Reset(debounce)
			}
		case <-timer.C:
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
