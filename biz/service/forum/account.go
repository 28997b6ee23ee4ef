package forum

import (
	"context"
	"strconv"

	"account_purge/biz/dal/store"
)

const defaultSessionPrefix = "auth_session:"

// Auth revokes sessions kept by the session store under prefix+sid.
type Auth struct {
	store  store.Store
	prefix string
}

func NewAuth(s store.Store, sessionPrefix string) *Auth {
	if sessionPrefix == "" {
		sessionPrefix = defaultSessionPrefix
	}
	return &Auth{store: s, prefix: sessionPrefix}
}

func (a *Auth) RevokeAllSessions(ctx context.Context, uid int64) error {
	u := strconv.FormatInt(uid, 10)
	sids, err := a.store.SortedRange(ctx, "uid:"+u+":sessions", 0, -1)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(sids)+2)
	for _, sid := range sids {
		keys = append(keys, a.prefix+sid)
	}
	keys = append(keys, "uid:"+u+":sessions", "uid:"+u+":sessionUUID:sessionId")
	return a.store.DeleteAll(ctx, keys...)
}

type PasswordReset struct {
	store store.Store
}

func NewPasswordReset(s store.Store) *PasswordReset {
	return &PasswordReset{store: s}
}

// CleanByUID drops every outstanding reset code issued to uid.
func (p *PasswordReset) CleanByUID(ctx context.Context, uid int64) error {
	u := strconv.FormatInt(uid, 10)
	codes, err := p.store.GetObject(ctx, "reset:uid")
	if err != nil {
		return err
	}
	var mine []string
	for code, owner := range codes {
		if owner == u {
			mine = append(mine, code)
		}
	}
	if err := p.store.DeleteObjectFields(ctx, "reset:uid", mine...); err != nil {
		return err
	}
	if err := p.store.SortedRemove(ctx, "reset:issueDate", mine...); err != nil {
		return err
	}
	return p.store.SortedRemove(ctx, "reset:issueDate:uid", u)
}

type EmailValidation struct {
	store store.Store
}

func NewEmailValidation(s store.Store) *EmailValidation {
	return &EmailValidation{store: s}
}

// ExpireValidation invalidates the pending email confirmation of uid.
func (e *EmailValidation) ExpireValidation(ctx context.Context, uid int64) error {
	pointer := "confirm:byUid:" + strconv.FormatInt(uid, 10)
	obj, err := e.store.GetObject(ctx, pointer)
	if err != nil {
		return err
	}
	keys := []string{pointer}
	if code := obj["code"]; code != "" {
		keys = append(keys, "confirm:"+code)
	}
	return e.store.DeleteAll(ctx, keys...)
}
