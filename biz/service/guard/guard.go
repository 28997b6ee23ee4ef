package guard

import (
	"context"
	"fmt"

	"account_purge/biz/model/errs"
)

type Phase string

const (
	PhaseContent Phase = "content"
	PhaseAccount Phase = "account"
)

// Guard admits at most one deletion phase per uid. Any existing entry
// blocks a new acquisition regardless of its phase.
type Guard interface {
	// Acquire returns errs.AlreadyDeleting when uid is held. The returned
	// release is idempotent and must be deferred by the caller.
	Acquire(ctx context.Context, uid int64, phase Phase) (release func(), err error)
	// Phase reports the phase currently holding uid.
	Phase(ctx context.Context, uid int64) (Phase, bool, error)
}

func alreadyDeleting(uid int64, held Phase) error {
	return errs.AlreadyDeleting.SetMsg(fmt.Sprintf("user %d is already being deleted (%s phase)", uid, held))
}
