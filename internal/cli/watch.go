package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/presentation/tui"
	"github.com/aretw0/riseflow/pkg/runner"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// WatchDebounce is how long the flow file must stay quiet before a reload.
// Editors often write a file in several steps.
var WatchDebounce = 200 * time.Millisecond

// RunWatch runs a session against the configured flow file and restarts it
// whenever the file changes. The stack survives reloads through the store;
// ids that no longer exist fall back to the root.
func RunWatch(opts RunOptions) error {
	path := opts.Config.Flow
	if path == "" {
		return errors.New("--watch needs a flow file (flow: in the config or RISEFLOW_FLOW)")
	}

	in, out := opts.streams()
	logger := CreateLogger(opts.Config, opts.Debug)

	// Scope the default session by path so projects do not collide.
	if opts.SessionID == "" {
		abs, _ := filepath.Abs(path)
		opts.SessionID = "watch-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()[:8]
	}

	backend, err := OpenBackend(opts.Config, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	tui.PrintBanner(out, riseflow.Version)
	logger.Info("Starting Watcher", "path", path, "session_id", opts.SessionID)
	printSystemMessage(out, "Watcher at '%s' session.", opts.SessionID)

	// One handler for every iteration so only one goroutine reads stdin.
	handler := newIOHandler(opts, in, out)

	fresh := opts.Fresh
	for {
		reload, err := runWatchIteration(sigCtx, opts, backend, handler, out, logger, fresh)
		fresh = false
		if err != nil || !reload {
			return err
		}
		logger.Info("Watcher restarting")
	}
}

// runWatchIteration reports whether the watcher should start over.
func runWatchIteration(parent *SignalContext, opts RunOptions, backend *Backend, handler runner.IOHandler, out io.Writer, logger *slog.Logger, fresh bool) (bool, error) {
	path := opts.Config.Flow

	// Watch before loading so an edit made while the flow loads is not missed.
	fw, err := newFlowWatcher(path, logger)
	if err != nil {
		return false, err
	}
	defer fw.Close()

	engine, err := NewEngine(opts.Config, backend, logger, sessionHooks(logger, opts.Debug))
	if err != nil {
		logger.Error("Flow failed to load", "err", err)
		printSystemMessage(out, "%v", err)
		printSystemMessage(out, "Waiting for changes...")
		if !fw.Wait(parent) {
			logCompletion(out, "", parent.Signal())
			return false, nil
		}
		return true, nil
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if fresh {
		_ = engine.Sessions().Delete(ctx, opts.SessionID)
	}

	changed := make(chan struct{}, 1)
	go func() {
		if fw.Wait(ctx) {
			changed <- struct{}{}
			cancel()
		}
	}()

	r := runner.NewRunner(handler,
		runner.WithLogger(logger),
		runner.WithShareBase(opts.Config.ShareBase),
	)
	sess := engine.Start(ctx, opts.SessionID, startLocation(opts.At), r)
	if len(sess.Stack()) > 1 {
		printSystemMessage(out, "Resuming at '%s' node...", sess.CurrentID())
	}

	runErr := r.Run(ctx, sess)

	select {
	case <-changed:
		printSystemMessage(out, "Change detected in '%s'.", path)
		return true, nil
	default:
	}
	if parent.Err() != nil {
		logCompletion(out, sess.CurrentID(), parent.Signal())
	}
	return false, handleExecutionError(runErr)
}

// flowWatcher reports writes to one flow file. It watches the parent
// directory so that editors replacing the file by rename are still seen.
type flowWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

func newFlowWatcher(path string, logger *slog.Logger) (*flowWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &flowWatcher{path: abs, watcher: w, logger: logger}, nil
}

// Wait blocks until the file was written or created and then stayed quiet
// for WatchDebounce. It returns false when ctx ends first.
func (fw *flowWatcher) Wait(ctx context.Context) bool {
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return false
			}
			if filepath.Clean(event.Name) != fw.path || (!event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create)) {
				continue
			}
			fw.logger.Debug("Flow file event", "path", event.Name, "op", event.Op.String())
			settle = time.After(WatchDebounce)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return false
			}
			fw.logger.Warn("File watcher error", "err", err)
		case <-settle:
			return true
		}
	}
}

func (fw *flowWatcher) Close() error {
	return fw.watcher.Close()
}
