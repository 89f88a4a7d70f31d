package api

import (
	"bytes"
	"encoding/json"
	"time"
)

// CampaignCreateRequest is the body of POST /v1/campaign.
type CampaignCreateRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

// ContentCreateRequest is the body of POST /v1/content.
type ContentCreateRequest struct {
	Title       string     `json:"title"`
	ContentType string     `json:"content_type"`
	CampaignID  uint       `json:"campaign_id"`
	Order       *int       `json:"order"`
	Subtitle    string     `json:"subtitle"`
	Description string     `json:"description"`
	ButtonText  string     `json:"button_text"`
	ButtonLink  string     `json:"button_link"`
	ExternalURL string     `json:"external_url"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// Update bodies are decoded as raw key/value pairs so the handlers can tell
// an absent field (leave unchanged) from an explicit null (clear the value).

func decodeRawBody(body []byte) (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func jsonIsNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// decodeString accepts a JSON string or null. Null maps to the empty string.
func decodeString(raw json.RawMessage) (string, error) {
	if jsonIsNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func decodeBool(raw json.RawMessage) (bool, error) {
	var b bool
	err := json.Unmarshal(raw, &b)
	return b, err
}

func decodeInt(raw json.RawMessage) (int, error) {
	var n int
	err := json.Unmarshal(raw, &n)
	return n, err
}

// decodeTime accepts an RFC3339 timestamp or null. Null maps to a nil
// pointer, which clears the column on update.
func decodeTime(raw json.RawMessage) (*time.Time, error) {
	if jsonIsNull(raw) {
		return nil, nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
