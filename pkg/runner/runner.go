package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/logging"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/navigation"
)

// Runner handles the interactive loop of a session using an IOHandler.
// It is also a navigation.Observer: registered on the session it renders
// each change as soon as the stack or query moves.
type Runner struct {
	handler   IOHandler
	logger    *slog.Logger
	shareBase string

	sess     *riseflow.Session
	rendered bool
	batch    bool // defer rendering until the command completes
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithShareBase sets the URL the share command appends "#<node>" to.
func WithShareBase(base string) Option {
	return func(r *Runner) {
		r.shareBase = base
	}
}

// NewRunner creates a runner talking through handler.
func NewRunner(handler IOHandler, opts ...Option) *Runner {
	r := &Runner{
		handler: handler,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe implements navigation.Observer.
func (r *Runner) Observe(ctx context.Context, _ navigation.Change) {
	if r.sess == nil || r.batch {
		return
	}
	r.output(ctx, Frame{View: r.sess.View()})
	r.rendered = true
}

// Run shows the current view and processes commands until quit, EOF or ctx is done.
func (r *Runner) Run(ctx context.Context, sess *riseflow.Session) error {
	r.sess = sess
	defer func() { r.sess = nil }()

	r.output(ctx, Frame{View: sess.View()})

	for {
		line, err := r.handler.Input(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
				return nil
			case errors.Is(err, ErrInputTooLarge), errors.Is(err, ErrInvalidUTF8):
				r.output(ctx, Frame{Message: err.Error()})
				continue
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			r.output(ctx, Frame{Message: fmt.Sprintf("%v (type ? for help)", err)})
			continue
		}
		if cmd.Kind == CmdQuit {
			r.output(ctx, Frame{Message: "Bye!"})
			return nil
		}

		r.rendered = false
		msg := r.apply(ctx, sess, cmd)
		switch {
		case msg != "":
			r.output(ctx, Frame{View: sess.View(), Message: msg})
		case !r.rendered:
			r.output(ctx, Frame{View: sess.View()})
		}
	}
}

// apply executes cmd. A non-empty result is shown to the user.
func (r *Runner) apply(ctx context.Context, sess *riseflow.Session, cmd Command) string {
	switch cmd.Kind {
	case CmdFollow:
		if v := sess.View(); v.Searching {
			if cmd.Index >= len(v.Results) {
				return fmt.Sprintf("No result %d.", cmd.Index+1)
			}
			r.open(ctx, sess, v.Results[cmd.Index].ID)
			return ""
		}
		if !sess.Follow(ctx, cmd.Index) {
			return fmt.Sprintf("No option %d here.", cmd.Index+1)
		}
	case CmdGo:
		if !sess.Graph().Has(cmd.ID) {
			return fmt.Sprintf("No node %q.", cmd.ID)
		}
		r.open(ctx, sess, cmd.ID)
	case CmdBack:
		if !sess.Back(ctx) {
			return "Already at the start."
		}
	case CmdReset:
		sess.Reset(ctx)
	case CmdHome:
		sess.Home(ctx)
	case CmdJump:
		if !sess.Jump(ctx, cmd.Index) {
			return fmt.Sprintf("No breadcrumb %d.", cmd.Index)
		}
	case CmdSearch:
		sess.SetQuery(ctx, cmd.Query)
	case CmdQuick:
		if !sess.QuickJump(ctx, cmd.Role) {
			return fmt.Sprintf("No shortcut for %s.", cmd.Role)
		}
	case CmdShare:
		return "Share link: " + sess.ShareLink(r.shareBase)
	case CmdInstall:
		return r.install(ctx, sess)
	case CmdHelp:
		return HelpText
	}
	return ""
}

// open pushes id and leaves search mode so its card is shown, rendering once.
func (r *Runner) open(ctx context.Context, sess *riseflow.Session, id string) {
	r.batch = true
	defer func() { r.batch = false }()

	sess.SetQuery(ctx, "")
	sess.Go(ctx, id)
}

func (r *Runner) install(ctx context.Context, sess *riseflow.Session) string {
	if !sess.CanInstall() {
		return "Install is not available here."
	}
	out, err := sess.Install(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInstallUnavailable) {
			return "Install is not available here."
		}
		r.logger.Warn("Install prompt failed", "err", err)
		return "Install failed."
	}
	return "Install " + out.String() + "."
}

func (r *Runner) output(ctx context.Context, frame Frame) {
	if err := r.handler.Output(ctx, frame); err != nil {
		r.logger.Warn("Failed to write output", "err", err)
	}
}
