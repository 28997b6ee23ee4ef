package batch

import (
	"context"
	"errors"
	"slices"
	"time"

	"account_purge/biz/dal/store"
)

const DefaultBatchSize = 500

// ErrNoProgress is returned when a scan pinned with AlwaysStartAt reads the
// same chunk twice, meaning the handler did not remove what it processed.
var ErrNoProgress = errors.New("batch: handler did not shrink the sorted set")

type Options struct {
	// BatchSize defaults to DefaultBatchSize.
	BatchSize int
	// StartAt is the offset of the first fetch.
	StartAt int
	// AlwaysStartAt pins every fetch to the given offset. Use it when the
	// handler removes the members it was given.
	AlwaysStartAt *int
	// Interval is slept between chunks.
	Interval time.Duration
}

func StartAt(offset int) *int {
	return &offset
}

type Handler func(ctx context.Context, ids []string) error

// ProcessSorted pages through a sorted set in index order and hands each
// chunk to handler, one chunk at a time. It stops after a short read.
func ProcessSorted(ctx context.Context, s store.Store, key string, handler Handler, opts Options) error {
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	start := opts.StartAt
	if opts.AlwaysStartAt != nil {
		start = *opts.AlwaysStartAt
	}

	var prev []string
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ids, err := s.SortedRange(ctx, key, int64(start), int64(start+size-1))
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if opts.AlwaysStartAt != nil && slices.Equal(ids, prev) {
			return ErrNoProgress
		}

		if err := handler(ctx, ids); err != nil {
			return err
		}
		if len(ids) < size {
			return nil
		}

		if opts.AlwaysStartAt == nil {
			start += size
		} else {
			prev = ids
		}

		if opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.Interval):
			}
		}
	}
}
