package forum

import (
	"context"
	"strconv"

	"account_purge/biz/dal/store"
)

type Messaging struct {
	store store.Store
}

func NewMessaging(s store.Store) *Messaging {
	return &Messaging{store: s}
}

func (m *Messaging) LeaveRooms(ctx context.Context, uid int64, roomIDs []string) error {
	member := strconv.FormatInt(uid, 10)
	keys := make([]string, len(roomIDs))
	for i, rid := range roomIDs {
		keys[i] = "chat:room:" + rid + ":uids"
	}
	if err := m.store.SortedRemoveFromKeys(ctx, keys, member); err != nil {
		return err
	}
	return m.store.SortedRemove(ctx, "uid:"+member+":chat:rooms", roomIDs...)
}

type Groups struct {
	store store.Store
}

func NewGroups(s store.Store) *Groups {
	return &Groups{store: s}
}

// LeaveAllGroups removes uid from every group and refreshes member counts.
func (g *Groups) LeaveAllGroups(ctx context.Context, uid int64) error {
	names, err := g.store.SortedRange(ctx, "groups:createtime", 0, -1)
	if err != nil {
		return err
	}
	member := strconv.FormatInt(uid, 10)
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = "group:" + name + ":members"
	}
	if err := g.store.SortedRemoveFromKeys(ctx, keys, member); err != nil {
		return err
	}
	for i, name := range names {
		n, err := g.store.SortedCard(ctx, keys[i])
		if err != nil {
			return err
		}
		if err := g.store.SetObjectField(ctx, "group:"+name, "memberCount", n); err != nil {
			return err
		}
	}
	return nil
}

type Flags struct {
	store store.Store
}

func NewFlags(s store.Store) *Flags {
	return &Flags{store: s}
}

// ResolveFlag marks the open flag raised against typ:id as resolved. It is
// a no-op when there is no such flag.
func (f *Flags) ResolveFlag(ctx context.Context, typ, id string, resolverUID int64) error {
	index, err := f.store.GetObject(ctx, "flags:hash")
	if err != nil {
		return err
	}
	flagID := index[typ+":"+id]
	if flagID == "" {
		return nil
	}

	key := "flag:" + flagID
	if err := f.store.SetObjectField(ctx, key, "state", "resolved"); err != nil {
		return err
	}
	if err := f.store.SetObjectField(ctx, key, "resolvedBy", resolverUID); err != nil {
		return err
	}
	if err := f.store.SortedRemove(ctx, "flags:byState:open", flagID); err != nil {
		return err
	}
	return f.store.SortedAdd(ctx, "flags:byState:resolved", 0, flagID)
}
