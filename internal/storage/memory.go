package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider keeps uploads in memory. Used in tests and when no CDN is
// configured in development.
type MemoryProvider struct {
	mu    sync.Mutex
	files map[string]string
}

// NewMemoryProvider creates an empty in-memory storage provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{files: make(map[string]string)}
}

func (p *MemoryProvider) Upload(_ context.Context, data, name string) (*UploadResult, error) {
	if err := ValidateBase64(data); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fileID := uuid.NewString()
	p.files[fileID] = name
	return &UploadResult{
		URL:    fmt.Sprintf("memory://%s/%s", fileID, name),
		FileID: fileID,
	}, nil
}

func (p *MemoryProvider) Delete(_ context.Context, fileID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.files, fileID)
	return nil
}

// Has reports whether the file is still stored.
func (p *MemoryProvider) Has(fileID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.files[fileID]
	return ok
}
