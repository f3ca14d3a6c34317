package alchemy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

type Client interface {
	GetNFTsForOwner(
		ctx context.Context,
		req *GetNFTsForOwnerRequest,
	) (*GetNFTsForOwnerResponse, error)
	GetNFTMetadata(
		ctx context.Context,
		req *GetNFTMetadataRequest,
	) (*GetNFTMetadataResponse, error)
}

type BasicClient struct {
	client  *http.Client
	logger  *slog.Logger
	cfg     *Config
	limiter Limiter
}

func NewBasicClient(httpClient *http.Client, cfg *Config, log *slog.Logger) *BasicClient {
	return &BasicClient{
		client:  httpClient,
		logger:  log,
		cfg:     cfg,
		limiter: NewLimiter(cfg.RequestsPerSecond),
	}
}

// endpoint builds {BaseURL}/{APIKey}/{method}?{query}.
func (c *BasicClient) endpoint(method string, query url.Values) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s?%s", base, url.PathEscape(c.cfg.APIKey), method, query.Encode())
}

// getJSON performs a GET request and decodes a 200 response into out.
// Any other status is returned as *APIError.
func (c *BasicClient) getJSON(ctx context.Context, method string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter for %s: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(method, query), nil)
	if err != nil {
		return fmt.Errorf("error creating new request for %s: %w", method, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error doing request for %s: %w", method, err)
	}

	defer func() {
		if err = res.Body.Close(); err != nil {
			c.logger.ErrorContext(ctx,
				"error closing response body",
				slog.String("method", method),
				slog.Any("error", err),
			)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("error reading response body for %s: %w", method, err)
	}

	if res.StatusCode != http.StatusOK {
		return newAPIError(res.StatusCode, body)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshalling response body for %s: %w", method, err)
	}

	return nil
}

// IsRetryable reports whether err is worth another attempt: rate limiting,
// server-side failures and transport errors are, anything else is not.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
