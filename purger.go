package account_purge

import (
	"errors"
	"time"

	"account_purge/biz/config"
	"account_purge/biz/dal/objstore"
	"account_purge/biz/dal/repo"
	"account_purge/biz/dal/store"
	"account_purge/biz/db/mysql"
	"account_purge/biz/db/redis"
	"account_purge/biz/service/forum"
	"account_purge/biz/service/guard"
	"account_purge/biz/service/hook"
	"account_purge/biz/service/purge"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const (
	defaultUploadsRoot = "./public/uploads"
	defaultMediaRoot   = "./public/uploads/profile"
)

// NewPurger wires a purge service from the loaded config and the
// initialized redis (and mysql, when auditing) connections. The returned
// func releases what NewPurger opened.
func NewPurger() (*purge.Service, func(), error) {
	rdb := redis.GetRedisClient()
	if rdb == nil {
		return nil, nil, errors.New("redis is not initialized")
	}
	s := store.NewRedisStore(rdb)
	conf := config.GetPurgeConf()

	var g guard.Guard = guard.NewMemory()
	if conf.GuardBackend == "redis" {
		g = guard.NewRedis(rdb, time.Duration(conf.GuardLeaseSecond)*time.Second)
	}

	uploadsConf := config.GetUploadsConf()
	uploads, err := newObjectStorage(uploadsConf.Backend, defaultString(uploadsConf.Root, defaultUploadsRoot), uploadsConf.Bucket)
	if err != nil {
		return nil, nil, err
	}
	mediaConf := config.GetMediaConf()
	media, err := newObjectStorage(mediaConf.Backend, defaultString(mediaConf.Root, defaultMediaRoot), mediaConf.Bucket)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	hooks := hook.NewBus()
	if hookConf := config.GetHookConf(); hookConf.AMQPURL != "" {
		pub, err := hook.NewAMQPPublisher(hookConf.AMQPURL, hookConf.Exchange)
		if err != nil {
			return nil, nil, err
		}
		hooks.Register(purge.HookUserDelete, pub.Handle)
		cleanup = func() {
			if err := pub.Close(); err != nil {
				hlog.Errorf("close amqp publisher err: %v", err)
			}
		}
	}

	var auditor purge.Auditor
	if conf.Audit {
		db := mysql.GetDbConn()
		if db == nil {
			return nil, nil, errors.New("mysql is not initialized")
		}
		auditor = repo.NewPurgeAuditRepository(db)
	}

	posts := forum.NewPosts(s)
	svc := purge.New(purge.Deps{
		Store:           s,
		Guard:           g,
		Posts:           posts,
		Topics:          forum.NewTopics(s, posts),
		Messaging:       forum.NewMessaging(s),
		Groups:          forum.NewGroups(s),
		Flags:           forum.NewFlags(s),
		Auth:            forum.NewAuth(s, config.GetSessionConf().StorePrefix),
		PasswordReset:   forum.NewPasswordReset(s),
		EmailValidation: forum.NewEmailValidation(s),
		Uploads:         forum.NewUploads(s, uploads),
		Media:           objstore.Namespace{ObjectStorage: media},
		Hooks:           hooks,
		Auditor:         auditor,
	}, purge.Options{
		PostBatchSize:  conf.PostBatchSize,
		TopicBatchSize: conf.TopicBatchSize,
		QueueBatchSize: conf.QueueBatchSize,
		HookTimeout:    time.Duration(conf.HookTimeoutSecond) * time.Second,
	})
	return svc, cleanup, nil
}

func newObjectStorage(backend, root, bucket string) (objstore.ObjectStorage, error) {
	if backend != "minio" {
		return objstore.NewLocalStorage(root), nil
	}
	client, err := objstore.NewMinioClient(config.GetMinioConf())
	if err != nil {
		return nil, err
	}
	return objstore.NewMinioStorage(client, bucket, root)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
