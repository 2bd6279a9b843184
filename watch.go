package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clawsec/openclaw-audit/internal/audit"
	"github.com/clawsec/openclaw-audit/internal/logging"
)

const watchDebounce = 500 * time.Millisecond

// runWatch re-runs the audit whenever installation or workspace files change.
// Events are debounced so an editor's write burst triggers one scan.
func runWatch(opts audit.Options, jsonOut bool) {
	installDir, err := audit.ResolveInstallDir(opts.InstallPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch setup failed: %v\n", err)
		os.Exit(2)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(installDir, opts.WorkspacePath) {
		if err := watcher.Add(dir); err != nil {
			logging.Logger.Debugw("not watching", "dir", dir, "err", err)
		}
	}

	scan := func() {
		result, err := audit.Run(context.Background(), opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return
		}
		if jsonOut {
			renderJSON(os.Stdout, result)
		} else {
			renderText(os.Stdout, result)
		}
	}

	scan()
	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", installDir)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			// Each scan appends to the history log; reacting to that
			// write would loop forever.
			if filepath.Base(ev.Name) == "audit-history.jsonl" {
				continue
			}
			logging.Logger.Debugw("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Warnw("watch error", "err", err)
		case <-pending:
			scan()
		}
	}
}

func watchDirs(installDir, workspaceDir string) []string {
	dirs := []string{
		installDir,
		filepath.Join(installDir, "credentials"),
		filepath.Join(installDir, "auth-profiles"),
		filepath.Join(installDir, "sessions"),
		filepath.Join(installDir, "skills"),
	}
	if workspaceDir != "" {
		dirs = append(dirs, workspaceDir, filepath.Join(workspaceDir, "memory"))
	}
	return dirs
}
