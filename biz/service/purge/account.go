package purge

import (
	"context"
	"fmt"
	"strings"

	"account_purge/biz/dal/store"
	"account_purge/biz/model/convert"
	"account_purge/biz/model/domain"
	"account_purge/biz/model/errs"
	"account_purge/biz/service/guard"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type step struct {
	name string
	run  func(ctx context.Context) error
}

// DeleteAccount removes the user's own indices, detaches it from every
// other entity, and finally drops the user record. It returns the snapshot
// read before anything user specific was removed.
func (s *Service) DeleteAccount(ctx context.Context, uid int64) (*domain.User, error) {
	if uid <= 0 {
		return nil, invalidUser(uid)
	}

	release, err := s.Guard.Acquire(ctx, uid, guard.PhaseAccount)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.Store.SortedRemoveFromKeys(ctx, globalUserSets, uidStr(uid)); err != nil {
		return nil, fmt.Errorf("remove from user sets: %w", err)
	}

	obj, err := s.Store.GetObject(ctx, userKey(uid))
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	user := convert.UserObjectToDomain(uid, obj)
	if user == nil {
		return nil, errs.UserNotFound.SetMsg(fmt.Sprintf("user %d not found", uid))
	}

	hlog.CtxInfof(ctx, "delete account start, uid: %d, username: %s", uid, user.Username)

	s.fireDeleteHook(ctx, user)

	steps := []step{
		{"votes", func(ctx context.Context) error { return s.deleteVotes(ctx, uid) }},
		{"chats", func(ctx context.Context) error { return s.deleteChats(ctx, uid) }},
		{"sessions", func(ctx context.Context) error { return s.Auth.RevokeAllSessions(ctx, uid) }},
		{"uniqueness indices", func(ctx context.Context) error {
			return s.Store.SortedRemoveBulk(ctx, uniquenessEntries(user))
		}},
		{"user count", func(ctx context.Context) error {
			_, err := s.Store.IncrObjectField(ctx, keyGlobal, "userCount", -1)
			return err
		}},
		{"account keys", func(ctx context.Context) error { return s.Store.DeleteAll(ctx, accountKeys(uid)...) }},
		{"invitation", func(ctx context.Context) error {
			return s.Store.SortedRemove(ctx, keyInvitationUID, uidStr(uid))
		}},
		{"ips", func(ctx context.Context) error { return s.deleteUserIPs(ctx, uid) }},
		{"follow graph", func(ctx context.Context) error { return s.deleteUserFromFollowers(ctx, uid) }},
		{"followed topics", func(ctx context.Context) error { return s.deleteFollowedTopics(ctx, uid) }},
		{"ignored topics", func(ctx context.Context) error { return s.deleteIgnoredTopics(ctx, uid) }},
		{"followed tags", func(ctx context.Context) error { return s.deleteFollowedTags(ctx, uid) }},
		{"profile media", func(ctx context.Context) error {
			s.deleteProfileMedia(ctx, uid)
			return nil
		}},
		{"groups", func(ctx context.Context) error { return s.Groups.LeaveAllGroups(ctx, uid) }},
		{"flags", func(ctx context.Context) error { return s.Flags.ResolveFlag(ctx, "user", uidStr(uid), uid) }},
		{"password reset", func(ctx context.Context) error { return s.PasswordReset.CleanByUID(ctx, uid) }},
		{"email validation", func(ctx context.Context) error { return s.EmailValidation.ExpireValidation(ctx, uid) }},
		{"user record", func(ctx context.Context) error { return s.Store.DeleteAll(ctx, finalKeys(uid)...) }},
	}
	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			return nil, fmt.Errorf("delete account %d, %s: %w", uid, st.name, err)
		}
	}

	return user, nil
}

// uniquenessEntries lists the lookup entries that map a name or address to
// the user. Fullname and email entries exist only when the record has them.
func uniquenessEntries(u *domain.User) []store.KeyMember {
	uid := uidStr(u.UID)
	entries := []store.KeyMember{
		{Key: "username:uid", Member: u.Username},
		{Key: "username:sorted", Member: strings.ToLower(u.Username) + ":" + uid},
	}
	if u.UserSlug != "" {
		entries = append(entries, store.KeyMember{Key: "userslug:uid", Member: u.UserSlug})
	}
	if u.HasFullname() {
		entries = append(entries, store.KeyMember{Key: "fullname:uid", Member: *u.Fullname})
	}
	if u.HasEmail() {
		email := strings.ToLower(*u.Email)
		entries = append(entries,
			store.KeyMember{Key: "email:uid", Member: email},
			store.KeyMember{Key: "email:sorted", Member: email + ":" + uid},
		)
	}
	return entries
}

type deleteHookPayload struct {
	UID      int64             `json:"uid"`
	UserData map[string]string `json:"userData"`
}

// privateUserFields never leave the process with a hook payload.
var privateUserFields = map[string]struct{}{
	"password":       {},
	"passwordExpiry": {},
	"rss_token":      {},
}

func newDeleteHookPayload(user *domain.User) deleteHookPayload {
	data := make(map[string]string, len(user.Fields))
	for k, v := range user.Fields {
		if _, ok := privateUserFields[k]; ok {
			continue
		}
		data[k] = v
	}
	return deleteHookPayload{UID: user.UID, UserData: data}
}

// fireDeleteHook waits for plugins but does not let them fail the deletion.
func (s *Service) fireDeleteHook(ctx context.Context, user *domain.User) {
	if s.Hooks == nil {
		return
	}
	hctx := ctx
	if s.opts.HookTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, s.opts.HookTimeout)
		defer cancel()
	}
	err := s.Hooks.Fire(hctx, HookUserDelete, newDeleteHookPayload(user))
	if err != nil {
		hlog.CtxErrorf(ctx, "fire %s hook err, uid: %d, err: %v", HookUserDelete, user.UID, err)
	}
}
