package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httpclient"
)

// HTTPConfig holds connection settings for the hosted image CDN.
type HTTPConfig struct {
	BaseURL    string
	PrivateKey string
	Folder     string
}

// HTTPProvider uploads images to a hosted CDN over its REST API.
type HTTPProvider struct {
	cfg    HTTPConfig
	client *httpclient.Client
}

// NewHTTPProvider creates a CDN-backed storage provider.
func NewHTTPProvider(cfg HTTPConfig, client *httpclient.Client) *HTTPProvider {
	return &HTTPProvider{cfg: cfg, client: client}
}

type uploadResponse struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
}

// Upload sends the base64 payload as a form upload. The API accepts both raw
// base64 and data URLs, so the data is passed through unmodified.
func (p *HTTPProvider) Upload(ctx context.Context, data, name string) (*UploadResult, error) {
	form := url.Values{}
	form.Set("file", data)
	form.Set("fileName", name)
	if p.cfg.Folder != "" {
		form.Set("folder", p.cfg.Folder)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/files/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.cfg.PrivateKey, "")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Upstream("image storage", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "image storage")
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	return &UploadResult{URL: body.URL, FileID: body.FileID}, nil
}

// Delete removes the stored file. A 404 from the provider is treated as
// success; the file is gone either way.
func (p *HTTPProvider) Delete(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		p.cfg.BaseURL+"/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.SetBasicAuth(p.cfg.PrivateKey, "")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return apperrors.Upstream("image storage", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "image storage")
	}

	return nil
}

// ValidateBase64 reports whether the payload decodes as base64, stripping an
// optional data URL prefix first.
func ValidateBase64(data string) error {
	payload := data
	if i := strings.Index(payload, ","); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return apperrors.InvalidInput("image data is not valid base64")
	}
	return nil
}
