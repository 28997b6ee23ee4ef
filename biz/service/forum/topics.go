package forum

import (
	"context"

	"account_purge/biz/dal/store"
)

type Topics struct {
	store store.Store
	posts *Posts
}

func NewTopics(s store.Store, posts *Posts) *Topics {
	return &Topics{store: s, posts: posts}
}

// Purge deletes a topic together with every post in it, including posts
// written by other users.
func (t *Topics) Purge(ctx context.Context, tid string, callerUID int64) error {
	topic, err := t.store.GetObject(ctx, "topic:"+tid)
	if err != nil {
		return err
	}

	pids, err := t.store.SortedRange(ctx, "tid:"+tid+":posts", 0, -1)
	if err != nil {
		return err
	}
	if mainPid := topic["mainPid"]; mainPid != "" {
		pids = append(pids, mainPid)
	}
	if err := t.posts.Purge(ctx, pids, callerUID); err != nil {
		return err
	}

	pairs := []store.KeyMember{{Key: "topics:tid", Member: tid}}
	if owner := topic["uid"]; owner != "" {
		pairs = append(pairs, store.KeyMember{Key: "uid:" + owner + ":topics", Member: tid})
	}
	if cid := topic["cid"]; cid != "" {
		pairs = append(pairs, store.KeyMember{Key: "cid:" + cid + ":tids", Member: tid})
	}
	if err := t.store.SortedRemoveBulk(ctx, pairs); err != nil {
		return err
	}

	return t.store.DeleteAll(ctx,
		"topic:"+tid,
		"tid:"+tid+":posts",
		"tid:"+tid+":followers",
		"tid:"+tid+":ignorers",
	)
}
