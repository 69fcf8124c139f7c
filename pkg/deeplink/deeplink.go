// Package deeplink mirrors a session's current node into a host location
// fragment and reads it back on startup or external navigation.
package deeplink

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aretw0/riseflow/internal/logging"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/aretw0/riseflow/pkg/ports"
)

// Synchronizer binds a navigation.Session to a ports.Location.
// Location failures are logged and never interrupt navigation.
type Synchronizer struct {
	loc    ports.Location
	sess   *navigation.Session
	logger *slog.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// New creates a synchronizer for loc.
func New(loc ports.Location, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		loc:    loc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decode turns a raw fragment into a node id candidate.
func Decode(fragment string) string {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if id, err := url.PathUnescape(fragment); err == nil {
		return id
	}
	return fragment
}

// Encode turns a node id into a fragment, without the leading '#'.
func Encode(id string) string {
	return url.PathEscape(id)
}

// Bind reads the inbound fragment, subscribes for outbound writes and then
// publishes the resolved current node, so an unknown fragment is overwritten.
func (s *Synchronizer) Bind(ctx context.Context, sess *navigation.Session) {
	s.sess = sess
	s.inbound(ctx)
	sess.Subscribe(s)
	s.Publish()
}

// Refresh re-reads the fragment after the host navigated on its own
// (history back/forward). A valid id replaces the whole stack.
func (s *Synchronizer) Refresh(ctx context.Context) bool {
	if s.sess == nil {
		return false
	}
	return s.inbound(ctx)
}

// Observe implements navigation.Observer.
func (s *Synchronizer) Observe(_ context.Context, change navigation.Change) {
	if change.Kind != navigation.ChangeStack {
		return
	}
	s.write(change.Current)
}

// Publish writes the session's current node as the fragment.
func (s *Synchronizer) Publish() {
	if s.sess == nil {
		return
	}
	s.write(s.sess.CurrentID())
}

func (s *Synchronizer) inbound(ctx context.Context) bool {
	raw, err := s.loc.Fragment()
	if err != nil {
		s.logger.Debug("Location fragment unreadable", "err", err)
		return false
	}
	id := Decode(raw)
	if id == "" {
		return false
	}
	if !s.sess.Graph().Has(id) {
		s.logger.Debug("Ignoring unknown deep link", "fragment", raw)
		return false
	}
	if id == s.sess.CurrentID() && len(s.sess.Stack()) == 1 {
		return false
	}
	return s.sess.Replace(ctx, id)
}

func (s *Synchronizer) write(id string) {
	if err := s.loc.ReplaceFragment(Encode(id)); err != nil {
		s.logger.Warn("Deep link unavailable", "node_id", id, "err", err)
	}
}
