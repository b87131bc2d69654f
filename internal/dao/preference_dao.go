package dao

import (
	"context"
	"errors"

	"a11yowl/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceDAO interface {
	GetPreference(ctx context.Context, key string) (*models.Preference, error)
	SavePreference(ctx context.Context, pref *models.Preference) error
	DeletePreference(ctx context.Context, key string) error
}

type preferenceDAO struct {
	db *gorm.DB
}

func NewPreferenceDAO(db *gorm.DB) PreferenceDAO {
	return &preferenceDAO{db: db}
}

// GetPreference returns gorm.ErrRecordNotFound when key is unknown.
func (dao *preferenceDAO) GetPreference(ctx context.Context, key string) (*models.Preference, error) {
	var pref models.Preference
	if err := dao.db.WithContext(ctx).Where("key = ?", key).First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// SavePreference inserts or overwrites the value for pref.Key.
func (dao *preferenceDAO) SavePreference(ctx context.Context, pref *models.Preference) error {
	return dao.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(pref).Error
}

// DeletePreference is a no-op for unknown keys.
func (dao *preferenceDAO) DeletePreference(ctx context.Context, key string) error {
	result := dao.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Preference{})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}
