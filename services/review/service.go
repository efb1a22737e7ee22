package review

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"villa-booking/logger"
	reviewModel "villa-booking/models/review"
)

var ErrInvalidToken = errors.New("invalid or expired review token")

const tokenBytes = 32

// Store persists review tokens and reviews
type Store interface {
	CreateToken(ctx context.Context, t *reviewModel.ReviewToken) error
	FindToken(ctx context.Context, token string) (*reviewModel.ReviewToken, error)
	DeleteToken(ctx context.Context, id uint) error
	// RedeemToken deletes the token and stores the review atomically. It
	// returns ErrInvalidToken when the token was already consumed.
	RedeemToken(ctx context.Context, t *reviewModel.ReviewToken, r *reviewModel.Review) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Service issues and redeems single-use review tokens
type Service struct {
	Store Store
	TTL   time.Duration
	Now   func() time.Time
}

func NewService(store Store, ttl time.Duration) *Service {
	return &Service{Store: store, TTL: ttl, Now: time.Now}
}

// GenerateToken returns 32 random bytes, hex encoded.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate review token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue creates a token for the booking that expires after TTL.
func (s *Service) Issue(ctx context.Context, bookingID uint) (*reviewModel.ReviewToken, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	t := &reviewModel.ReviewToken{
		BookingID: bookingID,
		Token:     token,
		ExpiresAt: s.Now().Add(s.TTL),
	}
	if err := s.Store.CreateToken(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to store review token: %w", err)
	}
	return t, nil
}

// Validate returns the token if it exists and has not expired.
func (s *Service) Validate(ctx context.Context, token string) (*reviewModel.ReviewToken, error) {
	t, err := s.Store.FindToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.IsExpired(s.Now()) {
		if err := s.Store.DeleteToken(ctx, t.ID); err != nil {
			logger.Error("Failed to delete expired review token", err)
		}
		return nil, ErrInvalidToken
	}
	return t, nil
}

// Submit consumes the token and records the guest's review.
func (s *Service) Submit(ctx context.Context, token string, rating int, comment string) (*reviewModel.Review, error) {
	t, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	r := &reviewModel.Review{
		BookingID: t.BookingID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Store.RedeemToken(ctx, t, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CleanupExpired removes every token past its expiry.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.Store.DeleteExpired(ctx, s.Now())
}

// StartCleanup purges expired tokens every interval until ctx is cancelled.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			n, err := s.CleanupExpired(ctx)
			if err != nil {
				logger.Error("[CLEANUP] Failed to purge expired review tokens", err)
			} else if n > 0 {
				logger.Info(fmt.Sprintf("[CLEANUP] %d expired review tokens removed", n))
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
