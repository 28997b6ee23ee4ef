package objstore

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ObjectStorage defines the object operations used to clean up user files.
// Keys are slash separated and relative to the backend root.
type ObjectStorage interface {
	// Delete removes an object; a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every key under prefix, recursively.
	List(ctx context.Context, prefix string) ([]string, error)
}

// RemoveMatching deletes every object whose key matches one of the glob
// patterns. Only keys under the literal prefix shared by all patterns are
// listed. It keeps going after a failed delete and returns the number
// removed with all errors joined.
func RemoveMatching(ctx context.Context, s ObjectStorage, patterns ...string) (int, error) {
	if len(patterns) == 0 {
		return 0, nil
	}
	keys, err := s.List(ctx, listPrefix(patterns))
	if err != nil {
		return 0, err
	}

	var errList []error
	removed := 0
	for _, key := range keys {
		if !matchAny(key, patterns) {
			continue
		}
		if err := s.Delete(ctx, key); err != nil {
			errList = append(errList, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errList...)
}

func matchAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// listPrefix returns the longest literal prefix common to all patterns.
func listPrefix(patterns []string) string {
	prefix := literalPrefix(patterns[0])
	for _, p := range patterns[1:] {
		lit := literalPrefix(p)
		n := 0
		for n < len(prefix) && n < len(lit) && prefix[n] == lit[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, `*?[\`); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

// Namespace exposes RemoveMatching as a method over one storage.
type Namespace struct {
	ObjectStorage
}

func (n Namespace) RemoveMatching(ctx context.Context, patterns ...string) (int, error) {
	return RemoveMatching(ctx, n.ObjectStorage, patterns...)
}
