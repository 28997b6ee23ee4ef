package guard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"account_purge/biz/model/errs"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultLease = 10 * time.Minute

// releaseScript deletes the lease only when it is still owned by the caller.
// KEYS[1]: guard key
// ARGV[1]: owner value
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

// renewScript extends the lease only when it is still owned by the caller.
// KEYS[1]: guard key
// ARGV[1]: owner value
// ARGV[2]: lease in milliseconds
const renewScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

// Redis is a Guard shared by every process using the same redis. Entries
// are leases that expire unless renewed, so a crashed holder cannot block
// a uid forever.
type Redis struct {
	client redis.UniversalClient
	lease  time.Duration
}

func NewRedis(client redis.UniversalClient, lease time.Duration) *Redis {
	if lease <= 0 {
		lease = DefaultLease
	}
	return &Redis{client: client, lease: lease}
}

func guardKey(uid int64) string {
	return "purge:guard:" + strconv.FormatInt(uid, 10)
}

func (r *Redis) Acquire(ctx context.Context, uid int64, phase Phase) (func(), error) {
	key := guardKey(uid)
	owner := string(phase) + ":" + uuid.New().String()

	ok, err := r.client.SetNX(ctx, key, owner, r.lease).Result()
	if err != nil {
		return nil, errs.GuardUnavailable.Wrap(err)
	}
	if !ok {
		held, _, _ := r.Phase(ctx, uid)
		return nil, alreadyDeleting(uid, held)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go r.keepAlive(key, owner, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			rctx := context.WithoutCancel(ctx)
			if err := r.client.Eval(rctx, releaseScript, []string{key}, owner).Err(); err != nil {
				hlog.CtxErrorf(rctx, "release purge guard %s err: %v", key, err)
			}
		})
	}, nil
}

func (r *Redis) keepAlive(key, owner string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.lease / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := r.client.Eval(context.Background(), renewScript, []string{key}, owner, r.lease.Milliseconds()).Err()
			if err != nil {
				hlog.Errorf("renew purge guard %s err: %v", key, err)
			}
		}
	}
}

func (r *Redis) Phase(ctx context.Context, uid int64) (Phase, bool, error) {
	v, err := r.client.Get(ctx, guardKey(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	phase, _, _ := strings.Cut(v, ":")
	return Phase(phase), true, nil
}
