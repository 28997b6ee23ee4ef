package redis

import (
	"context"
	"fmt"
	"time"

	"account_purge/biz/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func Init() {
	conf := config.GetRedisConf()
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.IP, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	attempt := 1
	err := backoff.Retry(func() error {
		if err := client.Ping(context.Background()).Err(); err != nil {
			hlog.Infof("waiting for redis, attempt: %d, err: %v", attempt, err)
			attempt++
			return err
		}
		return nil
	}, policy)
	if err != nil {
		panic(err)
	}

	redisClient = client
}

func GetRedisClient() *redis.Client {
	return redisClient
}
