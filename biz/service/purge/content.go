package purge

import (
	"context"
	"fmt"

	"account_purge/biz/service/batch"
	"account_purge/biz/service/guard"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// DeleteContent purges everything uid authored: profile images, posts,
// topics, uploads and queued submissions, in that order.
func (s *Service) DeleteContent(ctx context.Context, callerUID, uid int64) error {
	if uid <= 0 {
		return invalidUser(uid)
	}

	release, err := s.Guard.Acquire(ctx, uid, guard.PhaseContent)
	if err != nil {
		return err
	}
	defer release()

	hlog.CtxInfof(ctx, "delete content start, uid: %d, caller: %d", uid, callerUID)

	s.deleteProfileMedia(ctx, uid)

	if err := s.purgePosts(ctx, callerUID, uid); err != nil {
		return fmt.Errorf("purge posts: %w", err)
	}
	if err := s.purgeTopics(ctx, callerUID, uid); err != nil {
		return fmt.Errorf("purge topics: %w", err)
	}
	if err := s.purgeUploads(ctx, callerUID, uid); err != nil {
		return fmt.Errorf("purge uploads: %w", err)
	}
	if err := s.purgeQueued(ctx, uid); err != nil {
		return fmt.Errorf("purge queued posts: %w", err)
	}
	return nil
}

// purgePosts reads every chunk from the head of the user's post index. Each
// chunk is dropped from the index here too, since Posts.Purge cannot find the
// index for a pid whose record is already gone.
func (s *Service) purgePosts(ctx context.Context, callerUID, uid int64) error {
	index := uidKey(uid, "posts")
	return batch.ProcessSorted(ctx, s.Store, index, func(ctx context.Context, pids []string) error {
		if err := s.Posts.Purge(ctx, pids, callerUID); err != nil {
			return err
		}
		return s.Store.SortedRemove(ctx, index, pids...)
	}, batch.Options{BatchSize: s.opts.PostBatchSize, AlwaysStartAt: batch.StartAt(0)})
}

func (s *Service) purgeTopics(ctx context.Context, callerUID, uid int64) error {
	index := uidKey(uid, "topics")
	return batch.ProcessSorted(ctx, s.Store, index, func(ctx context.Context, tids []string) error {
		for _, tid := range tids {
			if err := s.Topics.Purge(ctx, tid, callerUID); err != nil {
				return fmt.Errorf("topic %s: %w", tid, err)
			}
			if err := s.Store.SortedRemove(ctx, index, tid); err != nil {
				return err
			}
		}
		return nil
	}, batch.Options{BatchSize: s.opts.TopicBatchSize, AlwaysStartAt: batch.StartAt(0)})
}

func (s *Service) purgeUploads(ctx context.Context, callerUID, uid int64) error {
	names, err := s.Store.SortedRange(ctx, uidKey(uid, "uploads"), 0, -1)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	return s.Uploads.Delete(ctx, callerUID, uid, names)
}

// purgeQueued scans the global post queue since queued submissions have no
// per-user index. Matches are collected first and removed after the scan so
// removal does not shift the scan's offsets.
func (s *Service) purgeQueued(ctx context.Context, uid int64) error {
	want := uidStr(uid)
	var ids []string
	err := batch.ProcessSorted(ctx, s.Store, keyPostQueue, func(ctx context.Context, chunk []string) error {
		keys := make([]string, len(chunk))
		for i, id := range chunk {
			keys[i] = queueKey(id)
		}
		objs, err := s.Store.GetObjects(ctx, keys)
		if err != nil {
			return err
		}
		for i, obj := range objs {
			if obj["uid"] == want {
				ids = append(ids, chunk[i])
			}
		}
		return nil
	}, batch.Options{BatchSize: s.opts.QueueBatchSize})
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.Posts.RemoveFromQueue(ctx, id); err != nil {
			return fmt.Errorf("queued post %s: %w", id, err)
		}
	}
	if len(ids) > 0 {
		hlog.CtxInfof(ctx, "removed queued posts, uid: %d, count: %d", uid, len(ids))
	}
	return nil
}
