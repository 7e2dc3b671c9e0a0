package httpclient

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
)

// ParseResponseError reads the body of a non-2xx response from an upstream
// provider and translates it into an AppError. The response body is fully
// consumed and closed.
func ParseResponseError(resp *http.Response, providerName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.Upstream(providerName,
			fmt.Errorf("status %d (failed to read body: %w)", resp.StatusCode, err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(providerName, "resource")
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.Upstream(providerName,
			fmt.Errorf("rate limited (status 429)"))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return apperrors.InvalidInput(fmt.Sprintf("%s rejected request (status %d): %s",
			providerName, resp.StatusCode, string(bodyBytes)))
	default:
		return apperrors.Upstream(providerName,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}
}
