package models

import "time"

// Gift is a wishlist item owned by the authenticated user.
type Gift struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	MediaURLs      []string `json:"mediaUrls"`
	MainMediaIndex int      `json:"mainMediaIndex"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Price          int64    `json:"price"`
	Currency       string   `json:"currency"`
	ProductLink    string   `json:"productLink,omitempty"`
	IsPurchased    bool     `json:"isPurchased"`
	IsDeleted      bool     `json:"isDeleted"`
	PurchasedAt    string   `json:"purchasedAt,omitempty"`
	PurchasedBy    *Donor   `json:"purchasedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Donor describes who funded a gift. The donor photo URL itself is never
// embedded; only HasDonorPhoto is exposed and the photo must be fetched
// through the gated media endpoint.
type Donor struct {
	Pseudo        string `json:"donorPseudo,omitempty"`
	Email         string `json:"donorEmail,omitempty"`
	Message       string `json:"donorMessage,omitempty"`
	HasDonorPhoto bool   `json:"hasDonorPhoto,omitempty"`
}

// CreateGiftInput is the payload for POST /v1/gifts.
type CreateGiftInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Price          int64    `json:"price"`
	Currency       string   `json:"currency,omitempty"`
	ProductLink    string   `json:"productLink,omitempty"`
	MediaURLs      []string `json:"mediaUrls,omitempty"`
	MainMediaIndex int      `json:"mainMediaIndex,omitempty"`
}

// UpdateGiftInput carries the changed gift fields for PUT /v1/gifts/{id}.
type UpdateGiftInput map[string]any

// GiftStats gates gift creation: the backend enforces a maximum number of
// active gifts and reports whether another one may be created.
type GiftStats struct {
	ActiveCount int  `json:"activeCount"`
	MaxActive   int  `json:"maxActive"`
	CanCreate   bool `json:"canCreate"`
}

// FundedGift is a recently funded gift with its transaction details, shown
// on the home screen.
type FundedGift struct {
	ID             string           `json:"_id"`
	Title          string           `json:"title"`
	MediaURLs      []string         `json:"mediaUrls"`
	MainMediaIndex int              `json:"mainMediaIndex"`
	Price          int64            `json:"price"`
	Currency       string           `json:"currency"`
	PurchasedAt    string           `json:"purchasedAt"`
	PurchasedBy    *Donor           `json:"purchasedBy,omitempty"`
	Transaction    *GiftTransaction `json:"transaction,omitempty"`
}

// GiftTransaction is the financial breakdown attached to a funded gift.
type GiftTransaction struct {
	Amount         int64  `json:"amount"`
	AmountNet      int64  `json:"amountNet"`
	FeeAmount      int64  `json:"feeAmount"`
	OptionPhotoFee int64  `json:"optionPhotoFee,omitempty"`
	OptionPhoto    bool   `json:"optionPhotoPaid,omitempty"`
	DonorPseudo    string `json:"donorPseudo,omitempty"`
	DonorMessage   string `json:"donorMessage,omitempty"`
	HasDonorPhoto  bool   `json:"hasDonorPhoto,omitempty"`
}
