package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/config"
	"github.com/aretw0/riseflow/internal/presentation/tui"
	"github.com/aretw0/riseflow/pkg/deeplink"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/observability"
	"github.com/aretw0/riseflow/pkg/ports"
	"github.com/aretw0/riseflow/pkg/runner"
	"golang.org/x/term"
)

// RunOptions contains everything the run command needs.
type RunOptions struct {
	Config    config.Config
	SessionID string
	// At opens the session on a node, the way a shared "#id" link does.
	At    string
	JSON  bool
	Debug bool
	Watch bool
	Fresh bool

	// Nil means os.Stdin / os.Stdout.
	In  io.Reader
	Out io.Writer
}

func (o *RunOptions) streams() (io.Reader, io.Writer) {
	in, out := o.In, o.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// Execute dispatches to watch or single-session mode.
func Execute(opts RunOptions) error {
	if opts.Watch {
		if opts.JSON {
			return errors.New("--watch and --json cannot be used together")
		}
		return RunWatch(opts)
	}
	return RunSession(opts)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}

// newIOHandler picks JSON-Lines for machines and a text handler for people.
// Glamour and role colours are only used on a real terminal.
func newIOHandler(opts RunOptions, in io.Reader, out io.Writer) runner.IOHandler {
	if opts.JSON {
		h := runner.NewJSONHandler(in, out)
		h.MaxInput = opts.Config.MaxInput
		return h
	}

	hopts := []runner.TextHandlerOption{runner.WithMaxInput(opts.Config.MaxInput)}
	if tty, width := isTerminal(out); tty {
		hopts = append(hopts,
			runner.WithTextHandlerRenderer(tui.NewRenderer(width)),
			runner.WithRoleLabel(tui.RolePill),
		)
	}
	return runner.NewTextHandler(in, out, hopts...)
}

func sessionHooks(logger *slog.Logger, debug bool) domain.LifecycleHooks {
	if debug {
		return observability.LogHooks(logger)
	}
	return domain.LifecycleHooks{OnPersistenceFailure: observability.LogHooks(logger).OnPersistenceFailure}
}

func startLocation(at string) ports.Location {
	if at == "" {
		return nil
	}
	return deeplink.NewMemoryLocation(at)
}

// RunSession runs one interactive session until quit, EOF or a signal.
func RunSession(opts RunOptions) error {
	in, out := opts.streams()
	logger := CreateLogger(opts.Config, opts.Debug)

	backend, err := OpenBackend(opts.Config, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	engine, err := NewEngine(opts.Config, backend, logger, sessionHooks(logger, opts.Debug))
	if err != nil {
		return fmt.Errorf("error initializing riseflow: %w", err)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	quiet := opts.JSON
	if !quiet {
		if tty, _ := isTerminal(out); tty {
			tui.PrintBanner(out, riseflow.Version)
		}
	}

	if opts.Fresh {
		if err := engine.Sessions().Delete(sigCtx, opts.SessionID); err != nil {
			logger.Warn("Failed to reset session", "session_id", opts.SessionID, "err", err)
		}
	}

	r := runner.NewRunner(newIOHandler(opts, in, out),
		runner.WithLogger(logger),
		runner.WithShareBase(opts.Config.ShareBase),
	)
	sess := engine.Start(sigCtx, opts.SessionID, startLocation(opts.At), r)
	logSessionStatus(logger, out, opts.SessionID, sess, quiet)

	runErr := r.Run(sigCtx, sess)
	if !quiet {
		logCompletion(out, sess.CurrentID(), sigCtx.Signal())
	}
	return handleExecutionError(runErr)
}

func logSessionStatus(logger *slog.Logger, out io.Writer, sessionID string, sess *riseflow.Session, quiet bool) {
	if len(sess.Stack()) > 1 {
		logger.Info("Session Resumed", "session_id", sessionID, "node", sess.CurrentID())
		if !quiet {
			printSystemMessage(out, "Resuming at '%s' node...", sess.CurrentID())
		}
		return
	}
	logger.Info("Session Started", "session_id", sessionID)
}
