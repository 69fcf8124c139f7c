package ports

import "context"

// InstallOutcome is the user's answer to an install prompt.
type InstallOutcome int

const (
	InstallDismissed InstallOutcome = iota
	InstallAccepted
)

func (o InstallOutcome) String() string {
	if o == InstallAccepted {
		return "accepted"
	}
	return "dismissed"
}

// Installer is the narrow capability a host exposes for "install as app".
// It is presentation chrome: navigation never depends on it.
type Installer interface {
	IsAvailable() bool
	Prompt(ctx context.Context) (InstallOutcome, error)
}
