package storage

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

type GormModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt soft_delete.DeletedAt
}

type PurgeAuditRecord struct {
	GormModel
	PurgeId    string `gorm:"size:64;not null;uniqueIndex"` // 删除任务唯一ID
	Uid        int64  `gorm:"not null;index"`               // 被删除用户
	CallerUid  int64  `gorm:"not null"`                     // 发起删除的用户
	Username   string `gorm:"size:64;not null"`
	Status     string `gorm:"size:16;not null"`
	Phase      string `gorm:"size:16"`
	ErrMsg     string `gorm:"size:512"`
	StartedAt  time.Time
	DurationMs int64
}

func (PurgeAuditRecord) TableName() string {
	return "purge_audits"
}
