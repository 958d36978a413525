package models

// ConnectStatus is the response of GET /v1/stripe-connect/status. The
// reconciler re-fetches it after the hosted onboarding flow concludes; it is
// never mutated locally.
type ConnectStatus struct {
	AccountID        string           `json:"accountId"`
	Status           OnboardingStatus `json:"status"`
	ChargesEnabled   bool             `json:"chargesEnabled"`
	PayoutsEnabled   bool             `json:"payoutsEnabled"`
	DetailsSubmitted bool             `json:"detailsSubmitted"`
	Requirements     map[string]any   `json:"requirements,omitempty"`
}

// PayoutsUnlocked reports whether the account may receive payouts: active
// onboarding with every capability flag granted. Any other combination keeps
// payout actions locked.
func (s *ConnectStatus) PayoutsUnlocked() bool {
	return s.Status == OnboardingActive &&
		s.ChargesEnabled && s.PayoutsEnabled && s.DetailsSubmitted
}
