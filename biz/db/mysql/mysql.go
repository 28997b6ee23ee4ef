package mysql

import (
	"fmt"
	"time"

	"account_purge/biz/config"
	"account_purge/biz/model/storage"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var dbConn *gorm.DB

func Init() {
	conf := config.GetMySQLConf()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.Username, conf.Password, conf.IP, conf.Port, conf.DBName)

	var db *gorm.DB
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	attempt := 1
	err := backoff.Retry(func() error {
		var err error
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			hlog.Infof("waiting for mysql, attempt: %d, err: %v", attempt, err)
			attempt++
		}
		return err
	}, policy)
	if err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(&storage.PurgeAuditRecord{}); err != nil {
		panic(err)
	}

	dbConn = db
}

func GetDbConn() *gorm.DB {
	return dbConn
}
