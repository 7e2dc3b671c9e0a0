package domain

import "time"

// Shop represents a shop listed in the directory. Rating is the stored mean
// of all review ratings for the shop (0 when there are none) and is only ever
// written inside the same transaction as a review mutation.
type Shop struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	OpenTime    string    `json:"open_time,omitempty"`
	CloseTime   string    `json:"close_time,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	ImageFileID string    `json:"-"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
