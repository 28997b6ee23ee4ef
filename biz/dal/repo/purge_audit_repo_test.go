package repo

import (
	"context"
	"testing"
	"time"

	"account_purge/biz/model/domain"
	"account_purge/biz/model/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	err = db.AutoMigrate(&storage.PurgeAuditRecord{})
	assert.NoError(t, err)
	return db
}

func TestPurgeAuditRepository_Record(t *testing.T) {
	db := setupTestDB(t)
	r := NewPurgeAuditRepository(db)
	ctx := context.Background()

	a := &domain.PurgeAudit{
		PurgeID:   "purge-1",
		UID:       42,
		CallerUID: 1,
		Username:  "alice",
		Status:    domain.PurgeSucceeded,
		StartedAt: time.Now(),
		Duration:  1500 * time.Millisecond,
	}
	assert.NoError(t, r.Record(ctx, a))

	// Verify in DB
	var m storage.PurgeAuditRecord
	err := db.First(&m, "purge_id = ?", "purge-1").Error
	assert.NoError(t, err)
	assert.Equal(t, int64(42), m.Uid)
	assert.Equal(t, int64(1500), m.DurationMs)

	// same purge id again is absorbed
	assert.NoError(t, r.Record(ctx, a))
	var count int64
	db.Model(&storage.PurgeAuditRecord{}).Where("purge_id = ?", "purge-1").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPurgeAuditRepository_FindByPurgeID(t *testing.T) {
	db := setupTestDB(t)
	r := NewPurgeAuditRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.Record(ctx, &domain.PurgeAudit{
		PurgeID: "purge-2",
		UID:     7,
		Status:  domain.PurgeFailed,
		Phase:   "account",
		Error:   "3_0003:user not found",
	}))

	// Test found
	found, err := r.FindByPurgeID(ctx, "purge-2")
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, domain.PurgeFailed, found.Status)
		assert.Equal(t, "account", found.Phase)
	}

	// Test not found
	found, err = r.FindByPurgeID(ctx, "non_existent")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestPurgeAuditRepository_ListByUID(t *testing.T) {
	db := setupTestDB(t)
	r := NewPurgeAuditRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.Record(ctx, &domain.PurgeAudit{PurgeID: "a", UID: 42, Status: domain.PurgeFailed}))
	assert.NoError(t, r.Record(ctx, &domain.PurgeAudit{PurgeID: "b", UID: 42, Status: domain.PurgeSucceeded}))
	assert.NoError(t, r.Record(ctx, &domain.PurgeAudit{PurgeID: "c", UID: 7, Status: domain.PurgeSucceeded}))

	list, err := r.ListByUID(ctx, 42)
	assert.NoError(t, err)
	if assert.Len(t, list, 2) {
		assert.Equal(t, "b", list[0].PurgeID)
		assert.Equal(t, "a", list[1].PurgeID)
	}
}
