package ports

// Location is the host's shareable location fragment (e.g. the "#ht-intake"
// part of a URL). Hosts without one simply do not provide a Location.
type Location interface {
	// Fragment returns the current fragment, with or without a leading '#'.
	Fragment() (string, error)

	// ReplaceFragment sets the fragment without creating a new history entry.
	ReplaceFragment(fragment string) error
}
