package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrImageUpload marks an image upload that failed after the content entity
// was already saved. The entity is left without the image; only the upload
// step needs a retry.
var ErrImageUpload = errors.New("image upload failed")

// Content mirrors the API's content entity.
type Content struct {
	ID          uint   `json:"id"`
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`

	ButtonText string `json:"button_text,omitempty"`
	ButtonLink string `json:"button_link,omitempty"`

	ImageFilename string `json:"image_filename,omitempty"`
	ImagePath     string `json:"image_path,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	ExternalURL   string `json:"external_url,omitempty"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CampaignID uint      `json:"campaign_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NullableTime serializes as either a timestamp or an explicit JSON null.
// Date inputs cleared in a form must reach the API as null, not be omitted.
type NullableTime struct {
	Time  time.Time
	Valid bool
}

// TimeValue wraps a concrete timestamp for an update request.
func TimeValue(t time.Time) *NullableTime {
	return &NullableTime{Time: t, Valid: true}
}

// NullTime produces an explicit null, clearing the stored date.
func NullTime() *NullableTime {
	return &NullableTime{}
}

func (t NullableTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

func (t *NullableTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = NullableTime{}
		return nil
	}
	if err := json.Unmarshal(data, &t.Time); err != nil {
		return err
	}
	t.Valid = true
	return nil
}

// CreateContentRequest is the body of a content create.
type CreateContentRequest struct {
	Title       string     `json:"title"`
	ContentType string     `json:"content_type"`
	CampaignID  uint       `json:"campaign_id"`
	Order       int        `json:"order"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Description string     `json:"description,omitempty"`
	ButtonText  string     `json:"button_text,omitempty"`
	ButtonLink  string     `json:"button_link,omitempty"`
	ExternalURL string     `json:"external_url,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// UpdateContentRequest is a partial update; nil fields stay untouched. Dates
// use NullableTime so a cleared input is transmitted as explicit null.
type UpdateContentRequest struct {
	Title       *string       `json:"title,omitempty"`
	ContentType *string       `json:"content_type,omitempty"`
	Order       *int          `json:"order,omitempty"`
	Subtitle    *string       `json:"subtitle,omitempty"`
	Description *string       `json:"description,omitempty"`
	ButtonText  *string       `json:"button_text,omitempty"`
	ButtonLink  *string       `json:"button_link,omitempty"`
	ExternalURL *string       `json:"external_url,omitempty"`
	StartDate   *NullableTime `json:"start_date,omitempty"`
	EndDate     *NullableTime `json:"end_date,omitempty"`
}

// StagedImage is an image selected locally, uploaded only after the owning
// content record saved successfully.
type StagedImage struct {
	Filename string
	Data     io.Reader
}

type contentEnvelope struct {
	Content *Content `json:"content"`
}

type contentsEnvelope struct {
	Contents []Content `json:"contents"`
}

func (c *spockClient) ListContents(ctx context.Context) ([]Content, error) {
	if cached, ok := c.cache.get(cacheKeyContents); ok {
		return cached.([]Content), nil
	}

	var envelope contentsEnvelope
	if err := c.makeRequest(ctx, http.MethodGet, "/v1/content", nil, &envelope); err != nil {
		return nil, err
	}
	contents := envelope.Contents
	if contents == nil {
		contents = []Content{}
	}
	c.cache.set(cacheKeyContents, contents)
	return contents, nil
}

func (c *spockClient) ListCampaignContents(ctx context.Context, campaignID uint) ([]Content, error) {
	if cached, ok := c.cache.get(campaignContentsKey(campaignID)); ok {
		return cached.([]Content), nil
	}

	var envelope contentsEnvelope
	endpoint := fmt.Sprintf("/v1/campaign/%d/content", campaignID)
	if err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &envelope); err != nil {
		return nil, err
	}
	contents := envelope.Contents
	if contents == nil {
		contents = []Content{}
	}
	c.cache.set(campaignContentsKey(campaignID), contents)
	return contents, nil
}

func (c *spockClient) GetContent(ctx context.Context, id uint) (*Content, error) {
	if cached, ok := c.cache.get(contentKey(id)); ok {
		content := cached.(Content)
		return &content, nil
	}

	var envelope contentEnvelope
	if err := c.makeRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/content/%d", id), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Content == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Content not found"}
	}
	c.cache.set(contentKey(id), *envelope.Content)
	return envelope.Content, nil
}

func (c *spockClient) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	var envelope contentEnvelope
	if err := c.makeRequest(ctx, http.MethodPost, "/v1/content", req, &envelope); err != nil {
		return nil, err
	}

	c.cache.invalidate(cacheKeyContents, campaignContentsKey(req.CampaignID))
	return envelope.Content, nil
}

func (c *spockClient) UpdateContent(ctx context.Context, id uint, req UpdateContentRequest) (*Content, error) {
	var envelope contentEnvelope
	if err := c.makeRequest(ctx, http.MethodPut, fmt.Sprintf("/v1/content/%d", id), req, &envelope); err != nil {
		return nil, err
	}

	c.cache.invalidate(cacheKeyContents, contentKey(id))
	if envelope.Content != nil {
		c.cache.invalidate(campaignContentsKey(envelope.Content.CampaignID))
	}
	return envelope.Content, nil
}

func (c *spockClient) DeleteContent(ctx context.Context, id uint) error {
	if err := c.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("/v1/content/%d", id), nil, nil); err != nil {
		return err
	}

	// The owning campaign is unknown here; drop every scoped content list.
	c.cache.invalidate(cacheKeyContents, contentKey(id))
	c.cache.invalidatePrefix(cacheKeyCampaignContents)
	return nil
}

func (c *spockClient) UploadContentImage(ctx context.Context, id uint, filename string, file io.Reader) (*Content, error) {
	var envelope contentEnvelope
	endpoint := fmt.Sprintf("/v1/content/%d/image", id)
	if err := c.makeMultipartRequest(ctx, endpoint, filename, file, &envelope); err != nil {
		return nil, err
	}

	c.cache.invalidate(cacheKeyContents, contentKey(id))
	if envelope.Content != nil {
		c.cache.invalidate(campaignContentsKey(envelope.Content.CampaignID))
	}
	return envelope.Content, nil
}

func (c *spockClient) CreateContentWithImage(ctx context.Context, req CreateContentRequest, image *StagedImage) (*Content, error) {
	content, err := c.CreateContent(ctx, req)
	if err != nil {
		// Save failed: the staged image is never uploaded.
		return nil, err
	}
	return c.uploadStagedImage(ctx, content, image)
}

func (c *spockClient) UpdateContentWithImage(ctx context.Context, id uint, req UpdateContentRequest, image *StagedImage) (*Content, error) {
	content, err := c.UpdateContent(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return c.uploadStagedImage(ctx, content, image)
}

// uploadStagedImage runs the second step of the save-then-upload flow. The
// two steps are not transactional: a failed upload returns the saved entity
// together with an ErrImageUpload-wrapped error.
func (c *spockClient) uploadStagedImage(ctx context.Context, content *Content, image *StagedImage) (*Content, error) {
	if image == nil {
		return content, nil
	}
	updated, err := c.UploadContentImage(ctx, content.ID, image.Filename, image.Data)
	if err != nil {
		return content, fmt.Errorf("%w: %w", ErrImageUpload, err)
	}
	return updated, nil
}
