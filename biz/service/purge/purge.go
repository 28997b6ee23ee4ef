package purge

import (
	"context"
	"time"

	"account_purge/biz/dal/store"
	"account_purge/biz/model/domain"
	"account_purge/biz/model/errs"
	"account_purge/biz/service/batch"
	"account_purge/biz/service/guard"
	"account_purge/biz/util/id_gen"
	"account_purge/biz/util/trace_info"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HookUserDelete fires after the user record is loaded and before anything is removed.
const HookUserDelete = "static:user.delete"

// Deps are the store and collaborators a Service drives. Media, Hooks and
// Auditor may be nil.
type Deps struct {
	Store           store.Store
	Guard           guard.Guard
	Posts           PostService
	Topics          TopicService
	Messaging       Messaging
	Groups          Groups
	Flags           Flags
	Auth            Auth
	PasswordReset   PasswordReset
	EmailValidation EmailValidation
	Uploads         Uploads
	Media           Media
	Hooks           Hooks
	Auditor         Auditor
}

type Options struct {
	PostBatchSize  int
	TopicBatchSize int
	QueueBatchSize int
	// HookTimeout bounds the user delete hook; zero waits for as long as ctx allows.
	HookTimeout time.Duration
}

type Service struct {
	Deps
	opts Options
}

func New(deps Deps, opts Options) *Service {
	if opts.PostBatchSize <= 0 {
		opts.PostBatchSize = batch.DefaultBatchSize
	}
	if opts.QueueBatchSize <= 0 {
		opts.QueueBatchSize = batch.DefaultBatchSize
	}
	if deps.Guard == nil {
		deps.Guard = guard.NewMemory()
	}
	return &Service{Deps: deps, opts: opts}
}

// Delete removes the content and then the account of uid on behalf of
// callerUID and returns the snapshot of the deleted user. A failed call may
// leave the user partly cleaned; calling it again converges.
func (s *Service) Delete(ctx context.Context, callerUID, uid int64) (*domain.User, error) {
	if uid <= 0 {
		return nil, invalidUser(uid)
	}
	if trace_info.GetLogId(ctx) == "" {
		ctx = trace_info.WithLogId(ctx, id_gen.NewID())
	}
	ctx = trace_info.WithTargetUid(ctx, uid)

	audit := &domain.PurgeAudit{
		PurgeID:   trace_info.GetLogId(ctx),
		UID:       uid,
		CallerUID: callerUID,
		StartedAt: time.Now(),
	}
	if s.Auditor != nil {
		// best effort; names failed deletions in the audit
		if obj, err := s.Store.GetObject(ctx, userKey(uid)); err == nil {
			audit.Username = obj["username"]
		}
	}

	if err := s.DeleteContent(ctx, callerUID, uid); err != nil {
		hlog.CtxErrorf(ctx, "delete content err, uid: %d, err: %v", uid, err)
		s.record(ctx, audit, string(guard.PhaseContent), err)
		return nil, err
	}

	user, err := s.DeleteAccount(ctx, uid)
	if err != nil {
		hlog.CtxErrorf(ctx, "delete account err, uid: %d, err: %v", uid, err)
		s.record(ctx, audit, string(guard.PhaseAccount), err)
		return nil, err
	}

	audit.Username = user.Username
	s.record(ctx, audit, "", nil)
	hlog.CtxInfof(ctx, "user deleted, uid: %d, username: %s, caller: %d, cost: %v",
		uid, user.Username, callerUID, time.Since(audit.StartedAt))
	return user, nil
}

func (s *Service) record(ctx context.Context, a *domain.PurgeAudit, phase string, err error) {
	if s.Auditor == nil {
		return
	}
	a.Duration = time.Since(a.StartedAt)
	a.Status = domain.PurgeSucceeded
	if err != nil {
		a.Status = domain.PurgeFailed
		a.Phase = phase
		a.Error = err.Error()
	}
	if err := s.Auditor.Record(context.WithoutCancel(ctx), a); err != nil {
		hlog.CtxErrorf(ctx, "record purge audit err, uid: %d, err: %v", a.UID, err)
	}
}

func invalidUser(uid int64) error {
	return errs.InvalidUser.SetMsg("invalid user id: " + uidStr(uid))
}
