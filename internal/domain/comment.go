package domain

import "time"

// MaxCommentLength is the maximum comment content length in characters.
const MaxCommentLength = 500

// Comment is a free-form remark on a shop. Unlike reviews, an account may
// leave any number of comments on a shop.
type Comment struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	ShopID       string    `json:"shop_id"`
	Content      string    `json:"content"`
	Status       string    `json:"status"`
	Reported     bool      `json:"reported"`
	ReportReason string    `json:"report_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CommentWithAuthor is a comment joined with the author's public profile fields.
type CommentWithAuthor struct {
	Comment
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar,omitempty"`
}
