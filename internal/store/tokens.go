package store

import (
	"context"
	"time"

	"github.com/meltingdad/gsc-arena/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// GetToken returns the stored Google credential for a user.
// A missing row is reported as ErrRecordNotFound.
func (s *Store) GetToken(ctx context.Context, userID string) (*models.TokenRecord, error) {
	var rec models.TokenRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error; err != nil {
		return nil, wrap("get_token", err)
	}
	return &rec, nil
}

// UpsertToken inserts or overwrites the user's credential in one statement
// keyed on the user_id unique index. An empty refresh token leaves the stored
// one untouched since Google only sends it on first consent.
func (s *Store) UpsertToken(
	ctx context.Context,
	userID, accessToken, refreshToken string,
	expiry time.Time,
) error {
	rec := &models.TokenRecord{
		ID:           uuid.New().String(),
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Expiry:       expiry,
	}

	columns := []string{"access_token", "expiry", "updated_at"}
	if refreshToken != "" {
		columns = append(columns, "refresh_token")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(rec).Error
	return wrap("upsert_token", err)
}
