package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/dhamidi/grove/format"
	"github.com/dhamidi/grove/groovy/workspace"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-check files as they change and print their diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, workspace.New(p))
		},
	}
}

func runWatch(ctx context.Context, w *workspace.Workspace) error {
	var mu sync.Mutex
	enc := format.NewDiagnosticsEncoder(os.Stdout, format.WithExcerpt())
	show := func(path string, info *workspace.FileInfo) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case info == nil:
			fmt.Printf("%s: removed\n", path)
		case len(info.Diagnostics()) == 0:
			fmt.Printf("%s: ok\n", path)
		default:
			if err := enc.Encode(info.File); err != nil {
				log.Errorf("%s", err)
			}
		}
	}

	if _, err := w.ScanAll(ctx); err != nil {
		return err
	}
	for _, path := range w.Paths() {
		if info := w.GetFile(path); len(info.Diagnostics()) > 0 {
			show(path, info)
		}
	}

	watcher, err := workspace.NewFileWatcher(w, show)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	log.Infof("watching %s", w.RootDir())

	<-ctx.Done()
	return watcher.Stop()
}
