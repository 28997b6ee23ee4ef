package account_purge_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	purger "account_purge"
	"account_purge/biz/config"
	redisdb "account_purge/biz/db/redis"
	"account_purge/biz/model/errs"
	"account_purge/biz/service/forum"
	"account_purge/biz/service/guard"
	"account_purge/biz/service/purge"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/mockey"
	"github.com/cloudwego/hertz/pkg/common/test/assert"
	goredis "github.com/redis/go-redis/v9"
)

var (
	uploadsDir string
	mediaDir   string
)

func TestMain(t *testing.M) {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	dir, err := os.MkdirTemp("", "account_purge_test_*")
	if err != nil {
		panic(err)
	}
	uploadsDir = filepath.Join(dir, "uploads")
	mediaDir = filepath.Join(dir, "profile")

	confPath := filepath.Join(dir, "deploy.yml")
	confStr := `redis:
  ip: "` + mr.Host() + `"
  port: ` + mr.Port() + `
  password: ""
  db: 0

purge:
  post_batch_size: 2
  topic_batch_size: 1
  queue_batch_size: 500
  guard_backend: "memory"
  hook_timeout_seconds: 5

uploads:
  backend: "local"
  root: "` + uploadsDir + `"

media:
  backend: "local"
  root: "` + mediaDir + `"

session:
  store_prefix: "auth_session:"
`
	if err := os.WriteFile(confPath, []byte(confStr), 0600); err != nil {
		panic(err)
	}
	config.Init(confPath)
	redisdb.Init()

	code := t.Run()
	mr.Close()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestPurger(t *testing.T) (*purge.Service, *goredis.Client) {
	t.Helper()
	rdb := redisdb.GetRedisClient()
	rdb.FlushAll(context.Background())
	_ = os.RemoveAll(uploadsDir)
	_ = os.RemoveAll(mediaDir)

	svc, cleanup, err := purger.NewPurger()
	assert.Nil(t, err)
	t.Cleanup(cleanup)
	return svc, rdb
}

func writeFile(t *testing.T, name string) {
	t.Helper()
	assert.Nil(t, os.MkdirAll(filepath.Dir(name), 0o755))
	assert.Nil(t, os.WriteFile(name, []byte("x"), 0o644))
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// seedForum writes a small forum: alice (42) authored three posts, a topic
// and two uploads, and follows bob (7) who follows her back.
func seedForum(t *testing.T, rdb *goredis.Client) {
	t.Helper()
	ctx := context.Background()
	p := rdb.Pipeline()

	p.HSet(ctx, "global", "userCount", 2)
	p.HSet(ctx, "user:42", map[string]any{
		"uid": 42, "username": "alice", "userslug": "alice", "email": "Alice@Example.com",
		"fullname": "Alice Liddell", "joindate": 1700000000000, "followerCount": 1, "followingCount": 1,
	})
	p.HSet(ctx, "user:7", map[string]any{
		"uid": 7, "username": "bob", "userslug": "bob", "followerCount": 1, "followingCount": 1,
	})
	for _, key := range []string{"users:joindate", "users:postcount", "users:reputation"} {
		p.ZAdd(ctx, key, goredis.Z{Score: 1, Member: "42"}, goredis.Z{Score: 2, Member: "7"})
	}
	p.ZAdd(ctx, "username:uid", goredis.Z{Score: 42, Member: "alice"}, goredis.Z{Score: 7, Member: "bob"})
	p.ZAdd(ctx, "username:sorted", goredis.Z{Member: "alice:42"}, goredis.Z{Member: "bob:7"})
	p.ZAdd(ctx, "userslug:uid", goredis.Z{Score: 42, Member: "alice"}, goredis.Z{Score: 7, Member: "bob"})
	p.ZAdd(ctx, "email:uid", goredis.Z{Score: 42, Member: "alice@example.com"})
	p.ZAdd(ctx, "email:sorted", goredis.Z{Member: "alice@example.com:42"})
	p.ZAdd(ctx, "fullname:uid", goredis.Z{Score: 42, Member: "Alice Liddell"})

	// topic 10 by alice, main post 1 plus replies 2 and 3
	p.HSet(ctx, "topic:10", map[string]any{"tid": 10, "uid": 42, "cid": 1, "mainPid": 1})
	p.ZAdd(ctx, "topics:tid", goredis.Z{Score: 1, Member: "10"}, goredis.Z{Score: 2, Member: "20"})
	p.ZAdd(ctx, "cid:1:tids", goredis.Z{Score: 1, Member: "10"}, goredis.Z{Score: 2, Member: "20"})
	p.ZAdd(ctx, "uid:42:topics", goredis.Z{Score: 1, Member: "10"})
	p.ZAdd(ctx, "tid:10:posts", goredis.Z{Score: 2, Member: "2"}, goredis.Z{Score: 3, Member: "3"})
	for pid := 1; pid <= 3; pid++ {
		p.HSet(ctx, fmt.Sprintf("post:%d", pid), map[string]any{"pid": pid, "uid": 42, "tid": 10})
		p.ZAdd(ctx, "posts:pid", goredis.Z{Score: float64(pid), Member: fmt.Sprint(pid)})
		p.ZAdd(ctx, "uid:42:posts", goredis.Z{Score: float64(pid), Member: fmt.Sprint(pid)})
	}

	// topic 20 by bob, alice upvoted its main post
	p.HSet(ctx, "topic:20", map[string]any{"tid": 20, "uid": 7, "cid": 1, "mainPid": 5})
	p.HSet(ctx, "post:5", map[string]any{"pid": 5, "uid": 7, "tid": 20, "upvotes": 1})
	p.ZAdd(ctx, "posts:pid", goredis.Z{Score: 5, Member: "5"})
	p.ZAdd(ctx, "uid:7:posts", goredis.Z{Score: 5, Member: "5"})
	p.SAdd(ctx, "pid:5:upvote", "42")
	p.ZAdd(ctx, "uid:42:upvote", goredis.Z{Score: 5, Member: "5"})
	p.SAdd(ctx, "tid:20:followers", "42", "7")
	p.ZAdd(ctx, "uid:42:followed_tids", goredis.Z{Score: 1, Member: "20"})

	p.ZAdd(ctx, "uid:42:uploads", goredis.Z{Score: 1, Member: "files/a.png"}, goredis.Z{Score: 2, Member: "files/b.png"})

	p.ZAdd(ctx, "followers:42", goredis.Z{Score: 1, Member: "7"})
	p.ZAdd(ctx, "following:42", goredis.Z{Score: 1, Member: "7"})
	p.ZAdd(ctx, "followers:7", goredis.Z{Score: 1, Member: "42"})
	p.ZAdd(ctx, "following:7", goredis.Z{Score: 1, Member: "42"})

	p.ZAdd(ctx, "uid:42:sessions", goredis.Z{Score: 1, Member: "sid1"})
	p.Set(ctx, "auth_session:sid1", "{}", 0)
	p.ZAdd(ctx, "uid:42:ip", goredis.Z{Score: 1, Member: "10.0.0.1"})
	p.ZAdd(ctx, "ip:10.0.0.1:uid", goredis.Z{Score: 1, Member: "42"}, goredis.Z{Score: 1, Member: "7"})

	// 1200 queued submissions, three of them alice's spread over three chunks
	for i := 0; i < 1200; i++ {
		id := fmt.Sprintf("q%d", i)
		owner := 7
		if i == 10 || i == 600 || i == 1150 {
			owner = 42
		}
		p.ZAdd(ctx, "post:queue", goredis.Z{Score: float64(i), Member: id})
		p.HSet(ctx, "post:queue:"+id, "uid", owner)
	}

	_, err := p.Exec(ctx)
	assert.Nil(t, err)

	writeFile(t, filepath.Join(uploadsDir, "files", "a.png"))
	writeFile(t, filepath.Join(uploadsDir, "files", "b.png"))
	writeFile(t, filepath.Join(mediaDir, "42-profileavatar.png"))
	writeFile(t, filepath.Join(mediaDir, "42-profilecover.jpg"))
	writeFile(t, filepath.Join(mediaDir, "7-profileavatar.png"))
}

func zMember(t *testing.T, rdb *goredis.Client, key, member string) bool {
	t.Helper()
	err := rdb.ZScore(context.Background(), key, member).Err()
	if errors.Is(err, goredis.Nil) {
		return false
	}
	assert.Nil(t, err)
	return true
}

func TestDelete_SuccessFlow(t *testing.T) {
	svc, rdb := newTestPurger(t)
	seedForum(t, rdb)
	ctx := context.Background()

	user, err := svc.Delete(ctx, 1, 42)
	assert.Nil(t, err)
	assert.DeepEqual(t, int64(42), user.UID)
	assert.DeepEqual(t, "alice", user.Username)

	assert.DeepEqual(t, int64(0), rdb.Exists(ctx, "user:42", "followers:42", "following:42", "uid:42:posts",
		"uid:42:topics", "uid:42:uploads", "uid:42:upvote", "uid:42:sessions", "uid:42:ip").Val())
	assert.DeepEqual(t, "1", rdb.HGet(ctx, "global", "userCount").Val())

	for _, key := range []string{"users:joindate", "users:postcount", "users:reputation", "ip:10.0.0.1:uid"} {
		assert.False(t, zMember(t, rdb, key, "42"))
		assert.True(t, zMember(t, rdb, key, "7"))
	}
	assert.False(t, zMember(t, rdb, "username:uid", "alice"))
	assert.False(t, zMember(t, rdb, "username:sorted", "alice:42"))
	assert.False(t, zMember(t, rdb, "userslug:uid", "alice"))
	assert.False(t, zMember(t, rdb, "email:uid", "alice@example.com"))
	assert.False(t, zMember(t, rdb, "email:sorted", "alice@example.com:42"))
	assert.False(t, zMember(t, rdb, "fullname:uid", "Alice Liddell"))
	assert.True(t, zMember(t, rdb, "username:uid", "bob"))

	// authored content
	assert.DeepEqual(t, int64(0), rdb.Exists(ctx, "post:1", "post:2", "post:3", "topic:10", "tid:10:posts").Val())
	assert.False(t, zMember(t, rdb, "topics:tid", "10"))
	assert.False(t, zMember(t, rdb, "cid:1:tids", "10"))
	assert.True(t, zMember(t, rdb, "topics:tid", "20"))
	assert.DeepEqual(t, []string{"5"}, rdb.ZRange(ctx, "posts:pid", 0, -1).Val())

	// relations owned by others
	assert.False(t, rdb.SIsMember(ctx, "pid:5:upvote", "42").Val())
	assert.DeepEqual(t, "0", rdb.HGet(ctx, "post:5", "upvotes").Val())
	assert.DeepEqual(t, []string{"7"}, rdb.SMembers(ctx, "tid:20:followers").Val())
	assert.DeepEqual(t, int64(0), rdb.ZCard(ctx, "followers:7").Val())
	assert.DeepEqual(t, int64(0), rdb.ZCard(ctx, "following:7").Val())
	assert.DeepEqual(t, "0", rdb.HGet(ctx, "user:7", "followerCount").Val())
	assert.DeepEqual(t, "0", rdb.HGet(ctx, "user:7", "followingCount").Val())
	assert.DeepEqual(t, int64(0), rdb.Exists(ctx, "auth_session:sid1").Val())

	// queue
	assert.DeepEqual(t, int64(1197), rdb.ZCard(ctx, "post:queue").Val())
	for _, id := range []string{"q10", "q600", "q1150"} {
		assert.False(t, zMember(t, rdb, "post:queue", id))
		assert.DeepEqual(t, int64(0), rdb.Exists(ctx, "post:queue:"+id).Val())
	}
	assert.True(t, zMember(t, rdb, "post:queue", "q11"))

	// files
	assert.False(t, fileExists(filepath.Join(uploadsDir, "files", "a.png")))
	assert.False(t, fileExists(filepath.Join(uploadsDir, "files", "b.png")))
	assert.False(t, fileExists(filepath.Join(mediaDir, "42-profileavatar.png")))
	assert.False(t, fileExists(filepath.Join(mediaDir, "42-profilecover.jpg")))
	assert.True(t, fileExists(filepath.Join(mediaDir, "7-profileavatar.png")))

	_, held, err := svc.Guard.Phase(ctx, 42)
	assert.Nil(t, err)
	assert.False(t, held)
}

func TestDelete_Twice(t *testing.T) {
	svc, rdb := newTestPurger(t)
	seedForum(t, rdb)
	ctx := context.Background()

	_, err := svc.Delete(ctx, 1, 42)
	assert.Nil(t, err)

	_, err = svc.Delete(ctx, 1, 42)
	assert.True(t, errs.Is(err, errs.UserNotFound))
	assert.DeepEqual(t, "1", rdb.HGet(ctx, "global", "userCount").Val())
}

func TestDelete_AlreadyDeleting(t *testing.T) {
	svc, rdb := newTestPurger(t)
	seedForum(t, rdb)
	ctx := context.Background()

	release, err := svc.Guard.Acquire(ctx, 42, guard.PhaseAccount)
	assert.Nil(t, err)

	_, err = svc.Delete(ctx, 1, 42)
	assert.True(t, errs.Is(err, errs.AlreadyDeleting))
	assert.DeepEqual(t, int64(1), rdb.Exists(ctx, "user:42", "post:1").Val())

	release()
	_, err = svc.Delete(ctx, 1, 42)
	assert.Nil(t, err)
}

func TestDelete_DanglingIndexEntries(t *testing.T) {
	svc, rdb := newTestPurger(t)
	seedForum(t, rdb)
	ctx := context.Background()
	// records removed out of band, index entries left behind
	assert.Nil(t, rdb.Del(ctx, "post:1", "post:2").Err())
	assert.Nil(t, rdb.ZAdd(ctx, "uid:42:topics", goredis.Z{Score: 2, Member: "99"}).Err())

	_, err := svc.Delete(ctx, 1, 42)
	assert.Nil(t, err)
	assert.DeepEqual(t, int64(0), rdb.Exists(ctx, "user:42", "uid:42:posts", "uid:42:topics", "post:3").Val())
}

func TestDelete_InvalidUser(t *testing.T) {
	svc, _ := newTestPurger(t)

	for _, uid := range []int64{0, -1} {
		_, err := svc.Delete(context.Background(), 1, uid)
		assert.True(t, errs.Is(err, errs.InvalidUser))
	}
}

func TestDelete_ContentFailureReleasesGuard(t *testing.T) {
	svc, rdb := newTestPurger(t)
	seedForum(t, rdb)
	ctx := context.Background()

	patchPurge := mockey.Mock((*forum.Posts).Purge).
		Return(errors.New("store unavailable")).
		Build()

	_, err := svc.Delete(ctx, 1, 42)
	assert.NotNil(t, err)
	_, held, gerr := svc.Guard.Phase(ctx, 42)
	assert.Nil(t, gerr)
	assert.False(t, held)
	// the account phase never ran
	assert.DeepEqual(t, int64(1), rdb.Exists(ctx, "user:42").Val())
	assert.DeepEqual(t, "2", rdb.HGet(ctx, "global", "userCount").Val())

	patchPurge.UnPatch()

	// a retry converges
	_, err = svc.Delete(ctx, 1, 42)
	assert.Nil(t, err)
	assert.DeepEqual(t, int64(0), rdb.Exists(ctx, "user:42", "post:1").Val())
}
