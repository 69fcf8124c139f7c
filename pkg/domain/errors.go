package domain

import "errors"

// ErrNodeNotFound is returned when a node id is not part of the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrKeyNotFound is returned by stores when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidIndex is returned when a breadcrumb index is outside the stack.
var ErrInvalidIndex = errors.New("index out of range")

// ErrUnknownRole is returned when a role name cannot be parsed.
var ErrUnknownRole = errors.New("unknown role")

// ErrInstallUnavailable is returned when no install prompt has been offered.
var ErrInstallUnavailable = errors.New("install prompt unavailable")

// ErrEmptyStack is returned when restoring a navigation stack with no entries.
var ErrEmptyStack = errors.New("empty navigation stack")

// ErrSessionNotFound is returned when no stored values exist for a session id.
var ErrSessionNotFound = errors.New("session not found")
