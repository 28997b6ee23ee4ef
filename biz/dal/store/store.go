package store

import "context"

// Store is the subset of key-value operations the purge pipelines need.
// Every removal is idempotent: removing a missing member or key is a no-op.
type Store interface {
	// SortedRange returns members of a sorted set by ascending score, stop inclusive; -1 means the end.
	SortedRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// SortedUnion returns the deduplicated members of several sorted sets.
	SortedUnion(ctx context.Context, keys ...string) ([]string, error)
	SortedCard(ctx context.Context, key string) (int64, error)
	SortedAdd(ctx context.Context, key string, score float64, member string) error
	SortedRemove(ctx context.Context, key string, members ...string) error
	// SortedRemoveFromKeys removes one member from every listed sorted set.
	SortedRemoveFromKeys(ctx context.Context, keys []string, member string) error
	// SortedRemoveBulk removes each (key, member) pair.
	SortedRemoveBulk(ctx context.Context, pairs []KeyMember) error

	SetMembers(ctx context.Context, key string) ([]string, error)
	SetCard(ctx context.Context, key string) (int64, error)
	SetAdd(ctx context.Context, key string, members ...string) error
	SetRemove(ctx context.Context, key string, members ...string) error
	// SetRemoveFromKeys removes one member from every listed set.
	SetRemoveFromKeys(ctx context.Context, keys []string, member string) error

	// GetObject returns an empty map when the object does not exist.
	GetObject(ctx context.Context, key string) (map[string]string, error)
	GetObjects(ctx context.Context, keys []string) ([]map[string]string, error)
	SetObjectField(ctx context.Context, key, field string, value any) error
	DeleteObjectFields(ctx context.Context, key string, fields ...string) error
	IncrObjectField(ctx context.Context, key, field string, by int64) (int64, error)

	Exists(ctx context.Context, key string) (bool, error)
	// DeleteAll removes the listed keys, skipping ones that do not exist.
	DeleteAll(ctx context.Context, keys ...string) error
}

type KeyMember struct {
	Key    string
	Member string
}
