// Package gormrepos implements the repositories of the site-wide content on top of gorm.
package gormrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/wittayakom/core/settings"
)

// SchoolSetting stores one key/value setting managed from the admin console.
type SchoolSetting struct {
	Key         string `gorm:"size:128;primaryKey"`
	Value       string `gorm:"type:text"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SchoolSetting) TableName() string { return "school_settings" }

type settingsRepository struct {
	db *gorm.DB
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *gorm.DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) QueryAll(ctx context.Context) ([]settings.Record, error) {
	var rows []SchoolSetting
	if err := repo.db.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying school settings")
	}
	records := make([]settings.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, settings.Record{Key: r.Key, Value: r.Value})
	}
	return records, nil
}

func (repo *settingsRepository) Upsert(ctx context.Context, records ...settings.Record) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]SchoolSetting, 0, len(records))
	for _, r := range records {
		rows = append(rows, SchoolSetting{Key: r.Key, Value: r.Value, CreatedAt: now, UpdatedAt: now})
	}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rows).Error
	return errors.Wrap(err, "upserting school settings")
}
