// Package api wraps outbound calls to the HumDaddy backend. Every operation
// attaches the bearer token when one is available and normalizes transport
// and HTTP failures into the typed errors of this package. The layer performs
// no retries; retry policy belongs to callers.
package api

import (
	"context"
	"io"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
)

// TokenSource yields the current bearer token. An empty token (or an error,
// which callers treat as "no session") simply omits the Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the typed surface of the backend REST API.
type Client interface {
	// Auth.
	RequestOTP(ctx context.Context, phoneNumber string) error
	VerifyOTP(ctx context.Context, phoneNumber, code string) (*models.OTPVerifyResult, error)

	// Profile.
	CurrentUser(ctx context.Context) (*models.User, error)
	UpdateCurrentUser(ctx context.Context, patch models.UserPatch) (*models.User, error)

	// Gifts.
	CreateGift(ctx context.Context, in models.CreateGiftInput) (*models.Gift, error)
	ListGifts(ctx context.Context) ([]models.Gift, error)
	GetGift(ctx context.Context, giftID string) (*models.Gift, error)
	UpdateGift(ctx context.Context, giftID string, in models.UpdateGiftInput) (*models.Gift, error)
	DeleteGift(ctx context.Context, giftID string) error
	GiftStats(ctx context.Context) (*models.GiftStats, error)
	RecentFunded(ctx context.Context, limit int) ([]models.FundedGift, error)
	GiftMedia(ctx context.Context, giftID string) (string, error)

	// Wallet.
	WalletSummary(ctx context.Context) (*models.WalletSummary, error)
	WalletActivity(ctx context.Context, limit int, cursor string) (*models.ActivityPage, error)
	CreatePayout(ctx context.Context, req models.PayoutRequest) (*models.Payout, error)

	// Stripe Connect.
	CreateConnectAccount(ctx context.Context) (string, error)
	CreateAccountLink(ctx context.Context, returnContext string) (string, error)
	ConnectStatus(ctx context.Context) (*models.ConnectStatus, error)

	// Public announcements feed.
	ListUpdates(ctx context.Context, limit int) ([]models.Update, error)

	// Media uploads.
	UploadAvatar(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error)
	UploadBanner(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error)
	UploadGallery(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error)
	UploadGiftMedia(ctx context.Context, giftID, filename string, content io.Reader) (*models.UploadResult, error)
}
