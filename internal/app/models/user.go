// Package models defines the client-side data models exchanged with the
// HumDaddy backend. Field names and JSON tags follow the REST API contract.
package models

// OnboardingStatus is the Stripe Connect onboarding state as reported by the
// backend. The client never computes it locally; it always reflects the last
// fetched snapshot.
type OnboardingStatus string

const (
	OnboardingPending    OnboardingStatus = "pending"
	OnboardingActive     OnboardingStatus = "actif"
	OnboardingRestricted OnboardingStatus = "restricted"
	OnboardingDisabled   OnboardingStatus = "disabled"
	OnboardingVerified   OnboardingStatus = "verified"
)

// SocialLinks groups the optional external profile URLs.
type SocialLinks struct {
	OnlyFans  string `json:"onlyfans,omitempty"`
	Mym       string `json:"mym,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Twitch    string `json:"twitch,omitempty"`
}

// User is the remote-sourced profile aggregate returned by GET /v1/users/me.
type User struct {
	ID               string       `json:"id"`
	PhoneNumber      string       `json:"phoneNumber"`
	Username         string       `json:"username,omitempty"`
	FirstName        string       `json:"firstName,omitempty"`
	LastName         string       `json:"lastName,omitempty"`
	PublicName       string       `json:"publicName,omitempty"`
	Bio              string       `json:"bio,omitempty"`
	AvatarURL        string       `json:"avatarUrl,omitempty"`
	BannerURL        string       `json:"bannerUrl,omitempty"`
	GalleryURLs      []string     `json:"galleryUrls,omitempty"`
	Is18Plus         bool         `json:"is18Plus,omitempty"`
	Role             string       `json:"role"`
	SocialLinks      *SocialLinks `json:"socialLinks,omitempty"`
	PublicProfileURL string       `json:"publicProfileUrl,omitempty"`

	// Stripe Connect linkage. These fields, together with the capability
	// flags, are the single source of truth for whether payout actions are
	// permitted.
	StripeConnectAccountID string           `json:"stripeConnectAccountId,omitempty"`
	StripeOnboardingStatus OnboardingStatus `json:"stripeOnboardingStatus,omitempty"`
	StripeChargesEnabled   bool             `json:"stripeChargesEnabled,omitempty"`
	StripePayoutsEnabled   bool             `json:"stripePayoutsEnabled,omitempty"`
	StripeDetailsSubmitted bool             `json:"stripeDetailsSubmitted,omitempty"`
	StripeRequirements     map[string]any   `json:"stripeRequirements,omitempty"`

	// TotalReceived is the lifetime received amount in cents.
	TotalReceived int64 `json:"totalReceived,omitempty"`
}

// UserPatch is a partial profile update: field name → new value. Only the
// fields present are sent to PUT /v1/users/me.
type UserPatch map[string]any

// Merge overlays other onto p, last write wins per field.
func (p UserPatch) Merge(other UserPatch) {
	for k, v := range other {
		p[k] = v
	}
}

// Clone returns an independent copy of p.
func (p UserPatch) Clone() UserPatch {
	out := make(UserPatch, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
