package models

// ConnectSnapshot is the Stripe Connect slice of the wallet summary.
type ConnectSnapshot struct {
	AccountID        string           `json:"accountId"`
	ChargesEnabled   bool             `json:"chargesEnabled"`
	PayoutsEnabled   bool             `json:"payoutsEnabled"`
	OnboardingStatus OnboardingStatus `json:"onboardingStatus"`
	Requirements     map[string]any   `json:"requirements,omitempty"`
}

// WalletSummary is the server-computed payout view. CanPayout and
// ReasonsBlocked are authoritative; the client must not derive them.
// All amounts are in cents.
type WalletSummary struct {
	Currency       string          `json:"currency"`
	Available      int64           `json:"available"`
	Pending        int64           `json:"pending"`
	TotalReceived  int64           `json:"totalReceived"`
	CanPayout      bool            `json:"canPayout"`
	ReasonsBlocked []string        `json:"reasonsBlocked"`
	MinPayout      int64           `json:"minPayout"`
	Stripe         ConnectSnapshot `json:"stripe"`
}

// ActivityItem is one entry of the wallet activity feed: either a received
// payment or a payout. Amount is signed (negative for payouts) in cents.
type ActivityItem struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // "received" | "payout"
	Amount   int64  `json:"amount"`
	Fee      int64  `json:"fee"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Date     string `json:"date"`

	Gift  *ActivityGift  `json:"gift,omitempty"`
	Donor *ActivityDonor `json:"donor,omitempty"`

	StripePayoutID string `json:"stripePayoutId,omitempty"`
}

// ActivityGift is the gift reference embedded in a received payment.
type ActivityGift struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ActivityDonor is the donor reference embedded in a received payment.
type ActivityDonor struct {
	Pseudo  string `json:"pseudo"`
	Message string `json:"message"`
}

// ActivityPage is a cursor-paginated slice of the activity feed.
type ActivityPage struct {
	Items      []ActivityItem `json:"items"`
	NextCursor *string        `json:"nextCursor"`
	HasMore    bool           `json:"hasMore"`
}

// PayoutSpeed selects the Stripe payout rail.
type PayoutSpeed string

const (
	PayoutStandard PayoutSpeed = "standard"
	PayoutInstant  PayoutSpeed = "instant"
)

// PayoutRequest asks the backend to move Amount cents to the linked bank
// account.
type PayoutRequest struct {
	Amount int64       `json:"amount"`
	Speed  PayoutSpeed `json:"speed"`
}

// Payout is the backend's record of an accepted payout request.
type Payout struct {
	ID             string      `json:"id"`
	StripePayoutID string      `json:"stripePayoutId"`
	Amount         int64       `json:"amount"`
	Currency       string      `json:"currency"`
	Status         string      `json:"status"`
	Speed          PayoutSpeed `json:"speed"`
	ArrivalDate    *string     `json:"arrivalDate"`
}
