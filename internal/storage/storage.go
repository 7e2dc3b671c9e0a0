package storage

import "context"

// UploadResult identifies a stored image.
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"file_id"`
}

// Provider stores and deletes images for shop photos and avatars.
type Provider interface {
	// Upload stores a base64-encoded image under the given name and returns
	// its public URL and provider file ID.
	Upload(ctx context.Context, data, name string) (*UploadResult, error)

	// Delete removes a previously uploaded file by its provider file ID.
	Delete(ctx context.Context, fileID string) error
}
