package models

// UpdateBadge classifies a public announcement.
type UpdateBadge string

const (
	BadgeNews        UpdateBadge = "news"
	BadgeUpdate      UpdateBadge = "update"
	BadgeMaintenance UpdateBadge = "maintenance"
	BadgeSecurity    UpdateBadge = "security"
)

// Update is one entry of the public, unauthenticated announcements feed.
type Update struct {
	ID          string      `json:"_id"`
	Badge       UpdateBadge `json:"badge"`
	Title       string      `json:"title"`
	Headline    string      `json:"headline"`
	Description string      `json:"description"`
	CTALabel    string      `json:"ctaLabel,omitempty"`
	CTAURL      string      `json:"ctaUrl,omitempty"`
	PublishedAt string      `json:"publishedAt,omitempty"`
}
