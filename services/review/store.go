package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingModel "villa-booking/models/booking"
	reviewModel "villa-booking/models/review"

	"gorm.io/gorm"
)

// GormStore keeps tokens and reviews in PostgreSQL
type GormStore struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) CreateToken(ctx context.Context, t *reviewModel.ReviewToken) error {
	return s.DB.WithContext(ctx).Create(t).Error
}

func (s *GormStore) FindToken(ctx context.Context, token string) (*reviewModel.ReviewToken, error) {
	var t reviewModel.ReviewToken
	err := s.DB.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review token: %w", err)
	}
	return &t, nil
}

func (s *GormStore) DeleteToken(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&reviewModel.ReviewToken{}, id).Error
}

func (s *GormStore) RedeemToken(ctx context.Context, t *reviewModel.ReviewToken, r *reviewModel.Review) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", t.ID).Delete(&reviewModel.ReviewToken{})
		if res.Error != nil {
			return fmt.Errorf("failed to consume review token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}

		var b bookingModel.Booking
		if err := tx.First(&b, t.BookingID).Error; err != nil {
			return fmt.Errorf("failed to load booking %d for review: %w", t.BookingID, err)
		}
		r.PropertyType = string(b.PropertyType)
		r.PropertyID = b.PropertyID
		r.GuestName = b.GuestName

		return tx.Create(r).Error
	})
}

func (s *GormStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expires_at <= ?", before).Delete(&reviewModel.ReviewToken{})
	return res.RowsAffected, res.Error
}
