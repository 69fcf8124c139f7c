// Package install implements the "install as app" capability hosts may offer.
// It is independent of navigation.
package install

import (
	"context"
	"sync"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/ports"
)

// PromptFunc shows the host's install dialog and reports the user's answer.
type PromptFunc func(ctx context.Context) (ports.InstallOutcome, error)

// Deferred holds an install prompt the host offered earlier.
// A prompt can be shown once; afterwards the capability is gone until the
// host offers a new one.
type Deferred struct {
	mu     sync.Mutex
	prompt PromptFunc
}

var _ ports.Installer = (*Deferred)(nil)

// Offer stores a prompt for later use, replacing any previous one.
func (d *Deferred) Offer(prompt PromptFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompt = prompt
}

// Withdraw forgets the pending prompt, e.g. after the app was installed elsewhere.
func (d *Deferred) Withdraw() {
	d.Offer(nil)
}

func (d *Deferred) IsAvailable() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prompt != nil
}

// Prompt consumes the pending prompt.
func (d *Deferred) Prompt(ctx context.Context) (ports.InstallOutcome, error) {
	d.mu.Lock()
	prompt := d.prompt
	d.prompt = nil
	d.mu.Unlock()

	if prompt == nil {
		return ports.InstallDismissed, domain.ErrInstallUnavailable
	}
	return prompt(ctx)
}

// Unavailable is an Installer for hosts that cannot install anything.
type Unavailable struct{}

func (Unavailable) IsAvailable() bool { return false }

func (Unavailable) Prompt(context.Context) (ports.InstallOutcome, error) {
	return ports.InstallDismissed, domain.ErrInstallUnavailable
}
