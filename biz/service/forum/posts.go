package forum

import (
	"context"
	"fmt"
	"strconv"

	"account_purge/biz/dal/store"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type Posts struct {
	store store.Store
}

func NewPosts(s store.Store) *Posts {
	return &Posts{store: s}
}

// Purge deletes posts and detaches them from their author, topic and vote
// indices. Missing posts are skipped.
func (p *Posts) Purge(ctx context.Context, pids []string, callerUID int64) error {
	if len(pids) == 0 {
		return nil
	}
	keys := make([]string, len(pids))
	for i, pid := range pids {
		keys[i] = "post:" + pid
	}
	posts, err := p.store.GetObjects(ctx, keys)
	if err != nil {
		return err
	}

	var pairs []store.KeyMember
	var drop []string
	for i, post := range posts {
		pid := pids[i]
		pairs = append(pairs, store.KeyMember{Key: "posts:pid", Member: pid})
		if owner := post["uid"]; owner != "" {
			pairs = append(pairs, store.KeyMember{Key: "uid:" + owner + ":posts", Member: pid})
		}
		if tid := post["tid"]; tid != "" {
			pairs = append(pairs, store.KeyMember{Key: "tid:" + tid + ":posts", Member: pid})
		}
		if err := p.clearVoters(ctx, pid); err != nil {
			return err
		}
		drop = append(drop, keys[i], "pid:"+pid+":upvote", "pid:"+pid+":downvote")
	}

	if err := p.store.SortedRemoveBulk(ctx, pairs); err != nil {
		return err
	}
	if err := p.store.DeleteAll(ctx, drop...); err != nil {
		return err
	}
	hlog.CtxDebugf(ctx, "purged posts, count: %d, caller: %d", len(pids), callerUID)
	return nil
}

// clearVoters removes the post from the vote lists of everyone who voted on it.
func (p *Posts) clearVoters(ctx context.Context, pid string) error {
	for _, kind := range []string{"upvote", "downvote"} {
		voters, err := p.store.SetMembers(ctx, "pid:"+pid+":"+kind)
		if err != nil {
			return err
		}
		pairs := make([]store.KeyMember, len(voters))
		for i, v := range voters {
			pairs[i] = store.KeyMember{Key: "uid:" + v + ":" + kind, Member: pid}
		}
		if err := p.store.SortedRemoveBulk(ctx, pairs); err != nil {
			return err
		}
	}
	return nil
}

// Unvote retracts any vote uid cast on pid and refreshes the post's tallies.
func (p *Posts) Unvote(ctx context.Context, pid string, uid int64) error {
	voter := strconv.FormatInt(uid, 10)
	for _, kind := range []string{"upvote", "downvote"} {
		if err := p.store.SetRemove(ctx, "pid:"+pid+":"+kind, voter); err != nil {
			return err
		}
		if err := p.store.SortedRemove(ctx, fmt.Sprintf("uid:%d:%s", uid, kind), pid); err != nil {
			return err
		}
	}

	exists, err := p.store.Exists(ctx, "post:"+pid)
	if err != nil || !exists {
		return err
	}
	for _, kind := range []string{"upvote", "downvote"} {
		n, err := p.store.SetCard(ctx, "pid:"+pid+":"+kind)
		if err != nil {
			return err
		}
		if err := p.store.SetObjectField(ctx, "post:"+pid, kind+"s", n); err != nil {
			return err
		}
	}
	return nil
}

func (p *Posts) RemoveFromQueue(ctx context.Context, id string) error {
	if err := p.store.SortedRemove(ctx, "post:queue", id); err != nil {
		return err
	}
	return p.store.DeleteAll(ctx, "post:queue:"+id)
}
