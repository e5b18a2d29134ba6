// Package paths decides which request paths are exempt from authentication.
//
// Patterns are either exact ("/api/v1/status/") or prefix wildcards ending
// in "*" ("/api/v1/stat*"). Wildcards are evaluated before exact entries so
// a whole family of sub-paths can be exempted with one pattern.
package paths

import "strings"

const wildcard = "*"

// RequiresAuth reports whether path must be authenticated given the excluded
// patterns. An empty path or a nil pattern list always requires auth.
func RequiresAuth(path string, excluded []string) bool {
	if path == "" || excluded == nil {
		return true
	}
	return NewSet(excluded).RequiresAuth(path)
}

// Set is a pre-split, immutable excluded-path list.
type Set struct {
	patterns []string
	prefixes []string
	exact    map[string]struct{}
}

// NewSet compiles patterns. The input slice is copied.
func NewSet(patterns []string) *Set {
	s := &Set{
		patterns: append([]string(nil), patterns...),
		exact:    make(map[string]struct{}, len(patterns)),
	}
	for _, p := range patterns {
		if strings.HasSuffix(p, wildcard) {
			s.prefixes = append(s.prefixes, strings.TrimSuffix(p, wildcard))
			continue
		}
		s.exact[p] = struct{}{}
	}
	return s
}

// RequiresAuth applies the wildcard-prefix rule, then the exact rule with
// trailing-slash normalization. A nil Set requires auth everywhere.
func (s *Set) RequiresAuth(path string) bool {
	if s == nil || path == "" {
		return true
	}

	for _, prefix := range s.prefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	normalized := path
	if !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	_, excluded := s.exact[normalized]
	return !excluded
}

// Patterns returns a copy of the configured patterns in their original order.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.patterns...)
}
