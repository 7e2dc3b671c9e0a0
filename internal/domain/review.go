package domain

import "time"

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// IsValidRating checks whether the rating is within the allowed range.
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// Review is an account's rated review of a shop. One review per
// (account, shop) pair, enforced by a unique constraint.
type Review struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"account_id"`
	ShopID       string     `json:"shop_id"`
	Rating       int        `json:"rating"`
	Content      string     `json:"content,omitempty"`
	Status       string     `json:"status"`
	Reported     bool       `json:"reported"`
	ReportReason string     `json:"report_reason,omitempty"`
	Reply        *string    `json:"reply,omitempty"`
	ReplyAt      *time.Time `json:"reply_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ReviewWithAuthor is a review joined with the author's public profile fields
// for shop listing pages.
type ReviewWithAuthor struct {
	Review
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar,omitempty"`
}
