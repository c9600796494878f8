package store

import (
	"context"

	"github.com/meltingdad/gsc-arena/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// UpsertUserByGoogleID creates the user on first sign-in and refreshes the
// profile fields on every later one. The stored row is returned.
func (s *Store) UpsertUserByGoogleID(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "google_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "avatar_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, wrap("upsert_user", err)
	}

	var stored models.User
	if err := db.Where("google_id = ?", user.GoogleID).First(&stored).Error; err != nil {
		return nil, wrap("upsert_user", err)
	}
	return &stored, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, wrap("get_user", err)
	}
	return &user, nil
}
