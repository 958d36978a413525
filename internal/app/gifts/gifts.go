// Package gifts manages the user's wishlist. Creation is gated by the
// backend's active-gift quota; the service checks the quota before posting
// so the user gets the limit message without a rejected round trip.
package gifts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
	"github.com/johanthomias/HumDaddy-mobile/internal/common"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// DefaultRecentFundedLimit matches the home screen's funded-gifts strip.
const DefaultRecentFundedLimit = 5

const maxTitleLen = 120

// API is the slice of the backend client the gift service uses.
type API interface {
	CreateGift(ctx context.Context, in models.CreateGiftInput) (*models.Gift, error)
	ListGifts(ctx context.Context) ([]models.Gift, error)
	GetGift(ctx context.Context, giftID string) (*models.Gift, error)
	UpdateGift(ctx context.Context, giftID string, in models.UpdateGiftInput) (*models.Gift, error)
	DeleteGift(ctx context.Context, giftID string) error
	GiftStats(ctx context.Context) (*models.GiftStats, error)
	RecentFunded(ctx context.Context, limit int) ([]models.FundedGift, error)
	GiftMedia(ctx context.Context, giftID string) (string, error)
	UploadGiftMedia(ctx context.Context, giftID, filename string, content io.Reader) (*models.UploadResult, error)
}

// Service mediates wishlist operations.
type Service struct {
	api API
	log logging.Logger
}

func NewService(a API, log logging.Logger) *Service {
	return &Service{api: a, log: log}
}

// Create validates the input locally, checks the active-gift quota, then
// posts the gift. Quota and validation failures never reach the network.
func (s *Service) Create(ctx context.Context, in models.CreateGiftInput) (*models.Gift, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	stats, err := s.api.GiftStats(ctx)
	if err != nil {
		return nil, err
	}
	if !stats.CanCreate {
		return nil, common.NewValidationError("gifts",
			fmt.Sprintf("active gift limit reached (%d of %d)", stats.ActiveCount, stats.MaxActive))
	}

	gift, err := s.api.CreateGift(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "gift created", "giftId", gift.ID, "price", gift.Price)
	return gift, nil
}

// List returns every non-deleted gift of the user.
func (s *Service) List(ctx context.Context) ([]models.Gift, error) {
	return s.api.ListGifts(ctx)
}

// Get returns one gift by id.
func (s *Service) Get(ctx context.Context, giftID string) (*models.Gift, error) {
	if giftID == "" {
		return nil, common.NewValidationError("giftId", "is required")
	}
	return s.api.GetGift(ctx, giftID)
}

// Update applies a partial edit. An empty patch is rejected locally.
func (s *Service) Update(ctx context.Context, giftID string, in models.UpdateGiftInput) (*models.Gift, error) {
	if giftID == "" {
		return nil, common.NewValidationError("giftId", "is required")
	}
	if len(in) == 0 {
		return nil, common.NewValidationError("gift", "nothing to update")
	}
	if title, ok := in["title"].(string); ok && strings.TrimSpace(title) == "" {
		return nil, common.NewValidationError("title", "is required")
	}
	return s.api.UpdateGift(ctx, giftID, in)
}

// Delete soft-deletes a gift.
func (s *Service) Delete(ctx context.Context, giftID string) error {
	if giftID == "" {
		return common.NewValidationError("giftId", "is required")
	}
	return s.api.DeleteGift(ctx, giftID)
}

// Stats returns the active-gift quota view.
func (s *Service) Stats(ctx context.Context) (*models.GiftStats, error) {
	return s.api.GiftStats(ctx)
}

// RecentFunded returns the latest funded gifts. limit<=0 selects the home
// screen default.
func (s *Service) RecentFunded(ctx context.Context, limit int) ([]models.FundedGift, error) {
	if limit <= 0 {
		limit = DefaultRecentFundedLimit
	}
	return s.api.RecentFunded(ctx, limit)
}

// DonorPhoto resolves the gated donor photo URL for a funded gift. The URL
// is short-lived and must be fetched again on next display.
func (s *Service) DonorPhoto(ctx context.Context, giftID string) (string, error) {
	if giftID == "" {
		return "", common.NewValidationError("giftId", "is required")
	}
	return s.api.GiftMedia(ctx, giftID)
}

// UploadMedia attaches an image to a gift and returns the stored URL.
func (s *Service) UploadMedia(ctx context.Context, giftID, filename string, content io.Reader) (*models.UploadResult, error) {
	if giftID == "" {
		return nil, common.NewValidationError("giftId", "is required")
	}
	return s.api.UploadGiftMedia(ctx, giftID, filename, content)
}

func validateInput(in models.CreateGiftInput) error {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return common.NewValidationError("title", "is required")
	case len(title) > maxTitleLen:
		return common.NewValidationError("title", fmt.Sprintf("longer than %d characters", maxTitleLen))
	}
	if in.Price <= 0 {
		return common.NewValidationError("price", "must be greater than zero")
	}
	if in.MainMediaIndex < 0 || (len(in.MediaURLs) > 0 && in.MainMediaIndex >= len(in.MediaURLs)) {
		return common.NewValidationError("mainMediaIndex", "out of range")
	}
	return nil
}
