package repo

import (
	"context"

	"account_purge/biz/model/convert"
	"account_purge/biz/model/domain"
	"account_purge/biz/model/errs"
	"account_purge/biz/model/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurgeAuditRepository struct {
	db *gorm.DB
}

func NewPurgeAuditRepository(db *gorm.DB) *PurgeAuditRepository {
	return &PurgeAuditRepository{db: db}
}

// Record stores one deletion outcome. Recording the same purge id twice
// keeps the first row.
func (r *PurgeAuditRepository) Record(ctx context.Context, a *domain.PurgeAudit) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "purge_id"}}, DoNothing: true}).
		Create(convert.PurgeAuditDomainToRecord(a)).Error
	if errs.IsDuplicatedErr(err) {
		return nil
	}
	return err
}

func (r *PurgeAuditRepository) FindByPurgeID(ctx context.Context, purgeID string) (*domain.PurgeAudit, error) {
	var m storage.PurgeAuditRecord
	err := r.db.WithContext(ctx).Where("purge_id = ?", purgeID).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return convert.PurgeAuditRecordToDomain(&m), nil
}

// ListByUID returns the deletion attempts for uid, newest first.
func (r *PurgeAuditRepository) ListByUID(ctx context.Context, uid int64) ([]*domain.PurgeAudit, error) {
	var ms []storage.PurgeAuditRecord
	err := r.db.WithContext(ctx).Where("uid = ?", uid).Order("id desc").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PurgeAudit, 0, len(ms))
	for i := range ms {
		out = append(out, convert.PurgeAuditRecordToDomain(&ms[i]))
	}
	return out, nil
}
