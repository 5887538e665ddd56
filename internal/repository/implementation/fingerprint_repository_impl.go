package implementation

import (
	"context"
	"errors"
	"fmt"

	"safetalk-hive-be/internal/model"
	"safetalk-hive-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type fingerprintRepository struct {
	db *gorm.DB
}

func NewFingerprintRepository(db *gorm.DB) contract.IFingerprintRepository {
	return &fingerprintRepository{db: db}
}

func (r *fingerprintRepository) FindByID(ctx context.Context, fingerprint string) (*model.Scammer, error) {
	var scammer model.Scammer
	err := r.db.WithContext(ctx).
		Preload("Identifiers").
		First(&scammer, "id = ?", fingerprint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find scammer %s: %w", fingerprint, err)
	}
	return &scammer, nil
}

func (r *fingerprintRepository) FindByIdentifier(ctx context.Context, value string) (*model.Scammer, error) {
	var identifier model.ScammerIdentifier
	err := r.db.WithContext(ctx).
		Where("LOWER(value) = LOWER(?)", value).
		First(&identifier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find identifier %s: %w", value, err)
	}
	return r.FindByID(ctx, identifier.ScammerID)
}

func (r *fingerprintRepository) Save(ctx context.Context, scammer *model.Scammer) error {
	if err := r.db.WithContext(ctx).
		Omit("Identifiers").
		Save(scammer).Error; err != nil {
		return fmt.Errorf("save scammer %s: %w", scammer.ID, err)
	}
	return nil
}

// AddIdentifiers inserts new identifiers, silently skipping (type, value)
// pairs already known.
func (r *fingerprintRepository) AddIdentifiers(ctx context.Context, identifiers []model.ScammerIdentifier) error {
	if len(identifiers) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&identifiers).Error; err != nil {
		return fmt.Errorf("add identifiers: %w", err)
	}
	return nil
}

func (r *fingerprintRepository) AddSession(ctx context.Context, session *model.ScammerSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("add scammer session: %w", err)
	}
	return nil
}

func (r *fingerprintRepository) ListByThreat(ctx context.Context, limit int) ([]model.Scammer, error) {
	var scammers []model.Scammer
	err := r.db.WithContext(ctx).
		Preload("Identifiers").
		Order("threat_score DESC").
		Limit(limit).
		Find(&scammers).Error
	if err != nil {
		return nil, fmt.Errorf("list scammers: %w", err)
	}
	return scammers, nil
}

func (r *fingerprintRepository) Stats(ctx context.Context) (int64, int64, map[string]int64, error) {
	var total, identifiers int64
	if err := r.db.WithContext(ctx).Model(&model.Scammer{}).Count(&total).Error; err != nil {
		return 0, 0, nil, fmt.Errorf("count scammers: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&model.ScammerIdentifier{}).Count(&identifiers).Error; err != nil {
		return 0, 0, nil, fmt.Errorf("count identifiers: %w", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&model.Scammer{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return 0, 0, nil, fmt.Errorf("count by status: %w", err)
	}

	byStatus := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}
	return total, identifiers, byStatus, nil
}

func (r *fingerprintRepository) UpdateStatus(ctx context.Context, fingerprint, status, notes string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Scammer{}).
		Where("id = ?", fingerprint).
		Updates(map[string]interface{}{"status": status, "notes": notes})
	if res.Error != nil {
		return false, fmt.Errorf("update status for %s: %w", fingerprint, res.Error)
	}
	return res.RowsAffected > 0, nil
}
