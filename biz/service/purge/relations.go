package purge

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Each cleanup below detaches uid from indices owned by other entities.
// They only remove members and rewrite derived counters, so running one
// again after it succeeded changes nothing.

func (s *Service) deleteVotes(ctx context.Context, uid int64) error {
	pids, err := s.Store.SortedUnion(ctx, uidKey(uid, "upvote"), uidKey(uid, "downvote"))
	if err != nil {
		return err
	}
	for _, pid := range pids {
		if pid == "" {
			continue
		}
		if err := s.Posts.Unvote(ctx, pid, uid); err != nil {
			return fmt.Errorf("unvote post %s: %w", pid, err)
		}
	}
	return nil
}

func (s *Service) deleteChats(ctx context.Context, uid int64) error {
	roomIDs, err := s.Store.SortedUnion(ctx, uidKey(uid, "chat:rooms"), keyPublicRooms)
	if err != nil {
		return err
	}
	if len(roomIDs) == 0 {
		return nil
	}
	return s.Messaging.LeaveRooms(ctx, uid, roomIDs)
}

func (s *Service) deleteUserIPs(ctx context.Context, uid int64) error {
	ips, err := s.Store.SortedRange(ctx, uidKey(uid, "ip"), 0, -1)
	if err != nil {
		return err
	}
	keys := make([]string, len(ips))
	for i, ip := range ips {
		keys[i] = "ip:" + ip + ":uid"
	}
	if err := s.Store.SortedRemoveFromKeys(ctx, keys, uidStr(uid)); err != nil {
		return err
	}
	return s.Store.DeleteAll(ctx, uidKey(uid, "ip"))
}

// deleteUserFromFollowers detaches uid from both sides of the follow graph
// and rewrites the counters of everyone involved from their set sizes, which
// also repairs counters that had drifted.
func (s *Service) deleteUserFromFollowers(ctx context.Context, uid int64) error {
	me := uidStr(uid)
	followers, err := s.Store.SortedRange(ctx, followersKey(me), 0, -1)
	if err != nil {
		return err
	}
	following, err := s.Store.SortedRange(ctx, followingKey(me), 0, -1)
	if err != nil {
		return err
	}

	followingSets := make([]string, len(followers))
	for i, f := range followers {
		followingSets[i] = followingKey(f)
	}
	followerSets := make([]string, len(following))
	for i, f := range following {
		followerSets[i] = followersKey(f)
	}
	if err := s.Store.SortedRemoveFromKeys(ctx, followingSets, me); err != nil {
		return err
	}
	if err := s.Store.SortedRemoveFromKeys(ctx, followerSets, me); err != nil {
		return err
	}

	for _, f := range followers {
		if err := s.refreshCount(ctx, f, followingKey(f), "followingCount"); err != nil {
			return err
		}
	}
	for _, f := range following {
		if err := s.refreshCount(ctx, f, followersKey(f), "followerCount"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) refreshCount(ctx context.Context, uid, setKey, field string) error {
	n, err := s.Store.SortedCard(ctx, setKey)
	if err != nil {
		return err
	}
	return s.Store.SetObjectField(ctx, "user:"+uid, field, n)
}

func (s *Service) deleteFollowedTopics(ctx context.Context, uid int64) error {
	return s.detachFromTopics(ctx, uid, uidKey(uid, "followed_tids"), "followers")
}

func (s *Service) deleteIgnoredTopics(ctx context.Context, uid int64) error {
	return s.detachFromTopics(ctx, uid, uidKey(uid, "ignored_tids"), "ignorers")
}

func (s *Service) detachFromTopics(ctx context.Context, uid int64, indexKey, set string) error {
	tids, err := s.Store.SortedRange(ctx, indexKey, 0, -1)
	if err != nil {
		return err
	}
	keys := make([]string, len(tids))
	for i, tid := range tids {
		keys[i] = "tid:" + tid + ":" + set
	}
	return s.Store.SetRemoveFromKeys(ctx, keys, uidStr(uid))
}

func (s *Service) deleteFollowedTags(ctx context.Context, uid int64) error {
	tags, err := s.Store.SortedRange(ctx, uidKey(uid, "followed_tags"), 0, -1)
	if err != nil {
		return err
	}
	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = "tag:" + tag + ":followers"
	}
	return s.Store.SortedRemoveFromKeys(ctx, keys, uidStr(uid))
}

// deleteProfileMedia never fails the caller; leftover images are logged.
func (s *Service) deleteProfileMedia(ctx context.Context, uid int64) {
	if s.Media == nil {
		return
	}
	n, err := s.Media.RemoveMatching(ctx, profileMediaPatterns(uid)...)
	if err != nil {
		hlog.CtxErrorf(ctx, "delete profile media err, uid: %d, removed: %d, err: %v", uid, n, err)
		return
	}
	hlog.CtxDebugf(ctx, "deleted profile media, uid: %d, removed: %d", uid, n)
}
