// Package wallet exposes the payout balance and activity feed and validates
// payout requests before they reach the network. The server stays
// authoritative on whether payouts are allowed; the client only pre-checks
// to avoid pointless round trips.
package wallet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
	"github.com/johanthomias/HumDaddy-mobile/internal/common"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// DefaultMinPayout is the floor applied when the summary does not carry one,
// in cents.
const DefaultMinPayout int64 = 10000

// DefaultActivityLimit is the feed page size when the caller passes 0.
const DefaultActivityLimit = 20

// API is the slice of the backend client the wallet uses.
type API interface {
	WalletSummary(ctx context.Context) (*models.WalletSummary, error)
	WalletActivity(ctx context.Context, limit int, cursor string) (*models.ActivityPage, error)
	CreatePayout(ctx context.Context, req models.PayoutRequest) (*models.Payout, error)
}

// Service mediates wallet reads and payout requests.
type Service struct {
	api API
	log logging.Logger

	minPayout int64

	mu          sync.Mutex
	lastSummary *models.WalletSummary
}

// NewService builds the wallet service. minPayout is the fallback floor in
// cents; 0 or negative selects DefaultMinPayout.
func NewService(a API, log logging.Logger, minPayout int64) *Service {
	if minPayout <= 0 {
		minPayout = DefaultMinPayout
	}
	return &Service{api: a, log: log, minPayout: minPayout}
}

// Summary fetches the payout view and caches it for gate checks.
func (s *Service) Summary(ctx context.Context) (*models.WalletSummary, error) {
	summary, err := s.api.WalletSummary(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastSummary = summary
	s.mu.Unlock()
	return summary, nil
}

// LastSummary returns the most recently fetched summary, or nil before the
// first successful Summary call.
func (s *Service) LastSummary() *models.WalletSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSummary
}

// Activity returns one page of the activity feed. limit<=0 selects the
// default page size; cursor "" starts from the newest entry.
func (s *Service) Activity(ctx context.Context, limit int, cursor string) (*models.ActivityPage, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return s.api.WalletActivity(ctx, limit, cursor)
}

// PayoutGate reports whether a payout is currently possible and, when not,
// the server-supplied reasons. Requires a prior Summary call; before one the
// gate is closed.
func (s *Service) PayoutGate() (bool, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSummary == nil {
		return false, []string{"wallet summary not loaded"}
	}
	if !s.lastSummary.CanPayout {
		return false, s.lastSummary.ReasonsBlocked
	}
	return true, nil
}

// RequestPayout validates amountCents against the cached summary, then asks
// the backend to move the funds. Validation failures are returned before any
// network call. A missing speed defaults to the standard rail.
func (s *Service) RequestPayout(ctx context.Context, amountCents int64, speed models.PayoutSpeed) (*models.Payout, error) {
	s.mu.Lock()
	summary := s.lastSummary
	s.mu.Unlock()

	if err := s.validateAmount(amountCents, summary); err != nil {
		return nil, err
	}
	if summary != nil && !summary.CanPayout {
		reasons := strings.Join(summary.ReasonsBlocked, "; ")
		if reasons == "" {
			reasons = "payouts are not available for this account"
		}
		return nil, common.NewValidationError("payout", reasons)
	}

	if speed == "" {
		speed = models.PayoutStandard
	}
	payout, err := s.api.CreatePayout(ctx, models.PayoutRequest{Amount: amountCents, Speed: speed})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "payout requested",
		"amount", payout.Amount, "speed", string(payout.Speed), "status", payout.Status)
	return payout, nil
}

func (s *Service) validateAmount(amountCents int64, summary *models.WalletSummary) error {
	if amountCents <= 0 {
		return common.NewValidationError("amount", "must be greater than zero")
	}

	minPayout := s.minPayout
	if summary != nil && summary.MinPayout > 0 {
		minPayout = summary.MinPayout
	}
	if amountCents < minPayout {
		return common.NewValidationError("amount",
			fmt.Sprintf("minimum payout is %s", FormatCents(minPayout)))
	}

	if summary != nil && amountCents > summary.Available {
		return common.NewValidationError("amount", "exceeds available balance")
	}
	return nil
}

// ParseAmount converts a user-typed euro amount ("99,99" or "99.99") into
// cents. At most two decimal digits are accepted.
func ParseAmount(input string) (int64, error) {
	cleaned := strings.TrimSpace(input)
	cleaned = strings.TrimSuffix(cleaned, "€")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, common.NewValidationError("amount", "is required")
	}

	whole, frac, _ := strings.Cut(cleaned, ".")
	if len(frac) > 2 {
		return 0, common.NewValidationError("amount", "at most two decimal places")
	}

	euros, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || euros < 0 {
		return 0, common.NewValidationError("amount", "is not a valid amount")
	}

	cents := euros * 100
	if frac != "" {
		// "5" means 50 cents, "05" means 5 cents.
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, common.NewValidationError("amount", "is not a valid amount")
		}
		cents += f
	}
	return cents, nil
}

// FormatCents renders cents as a euro string with comma decimals, matching
// the amounts users type in.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d €", sign, cents/100, cents%100)
}
