package purge

import (
	"context"

	"account_purge/biz/model/domain"
)

// PostService owns post records and the post queue.
type PostService interface {
	Purge(ctx context.Context, pids []string, callerUID int64) error
	Unvote(ctx context.Context, pid string, uid int64) error
	RemoveFromQueue(ctx context.Context, id string) error
}

type TopicService interface {
	Purge(ctx context.Context, tid string, callerUID int64) error
}

type Messaging interface {
	LeaveRooms(ctx context.Context, uid int64, roomIDs []string) error
}

type Groups interface {
	LeaveAllGroups(ctx context.Context, uid int64) error
}

type Flags interface {
	ResolveFlag(ctx context.Context, typ, id string, resolverUID int64) error
}

type Auth interface {
	RevokeAllSessions(ctx context.Context, uid int64) error
}

type PasswordReset interface {
	CleanByUID(ctx context.Context, uid int64) error
}

type EmailValidation interface {
	ExpireValidation(ctx context.Context, uid int64) error
}

type Uploads interface {
	Delete(ctx context.Context, callerUID, uid int64, names []string) error
}

// Media removes profile images whose base name matches a glob pattern.
type Media interface {
	RemoveMatching(ctx context.Context, patterns ...string) (int, error)
}

type Hooks interface {
	Fire(ctx context.Context, name string, payload any) error
}

type Auditor interface {
	Record(ctx context.Context, a *domain.PurgeAudit) error
}
