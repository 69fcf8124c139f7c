package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/riseflow/pkg/ports"
)

// Masked replaces values of keys that may hold personal data. It is the JSON
// literal null, so readers decode it to their default.
var Masked = []byte("null")

type piiMiddleware struct {
	next     ports.KVStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of keys matching
// any of the patterns. Patterns are regular expressions matched against the
// full store key, so `rise:q$` covers the search text of every session.
// The key itself is still written, which keeps masked sessions listable.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.KVStore) ports.KVStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Set(ctx context.Context, key string, value []byte) error {
	if m.sensitive(key) {
		value = append([]byte(nil), Masked...)
	}
	return m.next.Set(ctx, key, value)
}

func (m *piiMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context, prefix string) ([]string, error) {
	return m.next.List(ctx, prefix)
}

func (m *piiMiddleware) sensitive(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
