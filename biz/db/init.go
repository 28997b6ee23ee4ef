package db

import (
	"account_purge/biz/config"
	"account_purge/biz/db/mysql"
	"account_purge/biz/db/redis"
)

func Init() {
	redis.Init()
	if config.GetPurgeConf().Audit {
		mysql.Init()
	}
}
