// Package client provides a Go client for the Spock Admin API. It implements
// typed wrappers over the campaign and content endpoints, a short-lived query
// cache with explicit invalidation after mutations, and the staged image
// upload flow used by the admin frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client defines the operations of the Spock Admin API.
type Client interface {
	// ListCampaigns retrieves every campaign.
	ListCampaigns(context.Context) ([]Campaign, error)

	// GetCampaign retrieves a campaign by ID.
	GetCampaign(context.Context, uint) (*Campaign, error)

	// GetActiveCampaign retrieves the campaign currently flagged active.
	GetActiveCampaign(context.Context) (*Campaign, error)

	// CreateCampaign creates a campaign and invalidates the campaign list.
	CreateCampaign(context.Context, CreateCampaignRequest) (*Campaign, error)

	// UpdateCampaign partially updates a campaign. The list cache is
	// invalidated; the campaign's own cache entry is refreshed from the
	// response.
	UpdateCampaign(context.Context, uint, UpdateCampaignRequest) (*Campaign, error)

	// DeleteCampaign deletes a campaign and its cached views.
	DeleteCampaign(context.Context, uint) error

	// ListContents retrieves every content item.
	ListContents(context.Context) ([]Content, error)

	// ListCampaignContents retrieves a campaign's content in display order.
	ListCampaignContents(context.Context, uint) ([]Content, error)

	// GetContent retrieves a content item by ID.
	GetContent(context.Context, uint) (*Content, error)

	// CreateContent creates a content item under a campaign.
	CreateContent(context.Context, CreateContentRequest) (*Content, error)

	// UpdateContent partially updates a content item. Date fields set to an
	// explicit null clear the stored value.
	UpdateContent(context.Context, uint, UpdateContentRequest) (*Content, error)

	// DeleteContent deletes a content item and invalidates every content view.
	DeleteContent(context.Context, uint) error

	// UploadContentImage attaches an image file to a content item.
	UploadContentImage(context.Context, uint, string, io.Reader) (*Content, error)

	// CreateContentWithImage creates the content item first and uploads the
	// staged image only after the save succeeded. An upload failure leaves
	// the entity saved and is reported via ErrImageUpload.
	CreateContentWithImage(context.Context, CreateContentRequest, *StagedImage) (*Content, error)

	// UpdateContentWithImage is the update counterpart of
	// CreateContentWithImage.
	UpdateContentWithImage(context.Context, uint, UpdateContentRequest, *StagedImage) (*Content, error)
}

type clientOption struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration
}

// ClientOption configures the client.
type ClientOption func(*clientOption)

// WithBaseURL sets the API base URL. Defaults to "http://localhost:5000".
func WithBaseURL(url string) ClientOption {
	return func(opt *clientOption) {
		opt.baseURL = url
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(opt *clientOption) {
		opt.httpClient = httpClient
	}
}

// WithCacheTTL sets how long cached reads stay fresh. Defaults to 30 seconds;
// zero disables caching.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(opt *clientOption) {
		opt.cacheTTL = ttl
	}
}

type spockClient struct {
	opts  clientOption
	cache *queryCache
}

// New creates a Spock Admin API client.
func New(options ...ClientOption) Client {
	opts := clientOption{
		baseURL:  "http://localhost:5000",
		cacheTTL: 30 * time.Second,
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.httpClient == nil {
		opts.httpClient = &http.Client{}
	}
	return &spockClient{
		opts:  opts,
		cache: newQueryCache(opts.cacheTTL),
	}
}

// APIError is the decoded error envelope of a failed request.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// makeRequest issues a JSON request and decodes a 2xx response into out
// (skipped when out is nil). Error responses decode into *APIError. Failures
// are never retried automatically; callers re-trigger mutations themselves.
func (c *spockClient) makeRequest(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.opts.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.doRequest(req, out)
}

// makeMultipartRequest uploads a single file under the "file" form field.
func (c *spockClient) makeMultipartRequest(ctx context.Context, endpoint, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.baseURL+endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.doRequest(req, out)
}

func (c *spockClient) doRequest(req *http.Request, out any) error {
	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
			Detail  string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Detail = envelope.Detail
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
