package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Campaign mirrors the API's campaign entity.
type Campaign struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCampaignRequest is the body of a campaign create. Active defaults to
// true server-side when omitted.
type CreateCampaignRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active,omitempty"`
}

// UpdateCampaignRequest is a partial update; nil fields stay untouched.
type UpdateCampaignRequest struct {
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type campaignEnvelope struct {
	Campaign *Campaign `json:"campaign"`
}

type campaignsEnvelope struct {
	Campaigns []Campaign `json:"campaigns"`
}

func (c *spockClient) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	if cached, ok := c.cache.get(cacheKeyCampaigns); ok {
		return cached.([]Campaign), nil
	}

	var envelope campaignsEnvelope
	if err := c.makeRequest(ctx, http.MethodGet, "/v1/campaign", nil, &envelope); err != nil {
		return nil, err
	}
	campaigns := envelope.Campaigns
	if campaigns == nil {
		// Absent envelope key means an empty collection.
		campaigns = []Campaign{}
	}
	c.cache.set(cacheKeyCampaigns, campaigns)
	return campaigns, nil
}

func (c *spockClient) GetCampaign(ctx context.Context, id uint) (*Campaign, error) {
	if cached, ok := c.cache.get(campaignKey(id)); ok {
		campaign := cached.(Campaign)
		return &campaign, nil
	}

	var envelope campaignEnvelope
	if err := c.makeRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/campaign/%d", id), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Campaign == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Campaign not found"}
	}
	c.cache.set(campaignKey(id), *envelope.Campaign)
	return envelope.Campaign, nil
}

// GetActiveCampaign is never cached: the active flag can move between
// campaigns through any mutation.
func (c *spockClient) GetActiveCampaign(ctx context.Context) (*Campaign, error) {
	var envelope campaignEnvelope
	if err := c.makeRequest(ctx, http.MethodGet, "/v1/campaigns/active", nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Campaign == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Active Campaign not found"}
	}
	return envelope.Campaign, nil
}

func (c *spockClient) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*Campaign, error) {
	var envelope campaignEnvelope
	if err := c.makeRequest(ctx, http.MethodPost, "/v1/campaign", req, &envelope); err != nil {
		return nil, err
	}

	// The list view refetches rather than being patched optimistically.
	c.cache.invalidate(cacheKeyCampaigns)
	return envelope.Campaign, nil
}

func (c *spockClient) UpdateCampaign(ctx context.Context, id uint, req UpdateCampaignRequest) (*Campaign, error) {
	var envelope campaignEnvelope
	if err := c.makeRequest(ctx, http.MethodPut, fmt.Sprintf("/v1/campaign/%d", id), req, &envelope); err != nil {
		return nil, err
	}

	c.cache.invalidate(cacheKeyCampaigns)
	if envelope.Campaign != nil {
		// The detail view is refreshed in place from the mutation response.
		c.cache.set(campaignKey(id), *envelope.Campaign)
	}
	return envelope.Campaign, nil
}

func (c *spockClient) DeleteCampaign(ctx context.Context, id uint) error {
	if err := c.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("/v1/campaign/%d", id), nil, nil); err != nil {
		return err
	}

	// Content cascades server-side, so every content view may be stale.
	c.cache.invalidate(cacheKeyCampaigns, campaignKey(id), cacheKeyContents, campaignContentsKey(id))
	return nil
}
