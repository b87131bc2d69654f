package prefs

import (
	"context"
	"errors"
	"fmt"

	"a11yowl/internal/dao"
	"a11yowl/internal/models"

	"gorm.io/gorm"
)

// SQLStore adapts a PreferenceDAO to the Store interface.
type SQLStore struct {
	dao dao.PreferenceDAO
}

func NewSQLStore(d dao.PreferenceDAO) *SQLStore {
	return &SQLStore{dao: d}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	pref, err := s.dao.GetPreference(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading preference %s: %w", key, err)
	}
	return pref.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if err := s.dao.SavePreference(ctx, &models.Preference{Key: key, Value: value}); err != nil {
		return fmt.Errorf("saving preference %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if err := s.dao.DeletePreference(ctx, key); err != nil {
		return fmt.Errorf("deleting preference %s: %w", key, err)
	}
	return nil
}
