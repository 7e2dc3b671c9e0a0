package domain

import "time"

// Bookmark category constants. A bookmark may carry at most one category.
const (
	CategoryFavorite = "favorite"
	CategoryWantToGo = "wantToGo"
	CategoryVisited  = "visited"
	CategoryShare    = "share"
)

// ValidCategories returns the set of valid bookmark categories.
func ValidCategories() []string {
	return []string{CategoryFavorite, CategoryWantToGo, CategoryVisited, CategoryShare}
}

// IsValidCategory checks whether the given category is valid. An empty
// category is allowed (bookmark without a label).
func IsValidCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// Bookmark links an account to a shop. At most one bookmark exists per
// (account, shop) pair, enforced by the table's primary key.
type Bookmark struct {
	AccountID string    `json:"account_id"`
	ShopID    string    `json:"shop_id"`
	Category  *string   `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkedShop is a bookmark joined with a summary of its shop.
type BookmarkedShop struct {
	Bookmark
	ShopName   string  `json:"shop_name"`
	ShopRating float64 `json:"shop_rating"`
	ImageURL   string  `json:"image_url,omitempty"`
	Address    string  `json:"address,omitempty"`
}
