package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"spock.link/handlers/api"
	"spock.link/models"
	"spock.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCampaignApp(service services.ICampaignService) *fiber.App {
	app := fiber.New()
	handler := api.NewCampaignHandler(service)

	v1 := app.Group("/v1")
	v1.Get("/campaign", handler.ListCampaigns)
	v1.Post("/campaign", handler.CreateCampaign)
	v1.Get("/campaigns/active", handler.GetActiveCampaign)
	v1.Get("/campaign/:id", handler.GetCampaign)
	v1.Put("/campaign/:id", handler.UpdateCampaign)
	v1.Delete("/campaign/:id", handler.DeleteCampaign)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func TestListCampaignsEndpoint(t *testing.T) {
	t.Run("wraps campaigns in the plural envelope", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			listFn: func(ctx context.Context) ([]models.Campaign, error) {
				return []models.Campaign{
					{BaseModel: models.BaseModel{ID: 1}, Name: "Spring Sale", Active: true},
				}, nil
			},
		})

		resp, body := doJSON(t, app, http.MethodGet, "/v1/campaign", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var envelope struct {
			Campaigns []models.Campaign `json:"campaigns"`
		}
		require.NoError(t, json.Unmarshal(body, &envelope))
		require.Len(t, envelope.Campaigns, 1)
		assert.Equal(t, "Spring Sale", envelope.Campaigns[0].Name)
	})

	t.Run("an empty table is an empty array, not null", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			listFn: func(ctx context.Context) ([]models.Campaign, error) { return nil, nil },
		})

		resp, body := doJSON(t, app, http.MethodGet, "/v1/campaign", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"campaigns": []}`, string(body))
	})
}

func TestGetCampaignEndpoint(t *testing.T) {
	t.Run("unknown ID yields a 404 envelope", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			getFn: func(ctx context.Context, id uint) (*models.Campaign, error) {
				return nil, services.ErrCampaignNotFound
			},
		})

		resp, body := doJSON(t, app, http.MethodGet, "/v1/campaign/42", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "Campaign with the ID '42' not found", envelope["message"])
		assert.Equal(t, "Campaign not found", envelope["error"])
	})

	t.Run("non-numeric ID is a 400", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{})

		resp, _ := doJSON(t, app, http.MethodGet, "/v1/campaign/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetActiveCampaignEndpoint(t *testing.T) {
	t.Run("returns the active campaign", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			getActiveFn: func(ctx context.Context) (*models.Campaign, error) {
				return &models.Campaign{BaseModel: models.BaseModel{ID: 7}, Name: "Live", Active: true}, nil
			},
		})

		resp, body := doJSON(t, app, http.MethodGet, "/v1/campaigns/active", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var envelope struct {
			Campaign models.Campaign `json:"campaign"`
		}
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, uint(7), envelope.Campaign.ID)
	})

	t.Run("no active campaign is a 404", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			getActiveFn: func(ctx context.Context) (*models.Campaign, error) {
				return nil, services.ErrActiveCampaignNotFound
			},
		})

		resp, body := doJSON(t, app, http.MethodGet, "/v1/campaigns/active", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "Active Campaign not found", envelope["message"])
	})
}

func TestCreateCampaignEndpoint(t *testing.T) {
	t.Run("responds 201 with the created campaign", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			createFn: func(ctx context.Context, input services.CampaignCreateInput) (*models.Campaign, error) {
				return &models.Campaign{BaseModel: models.BaseModel{ID: 1}, Name: input.Name, Active: true}, nil
			},
		})

		resp, body := doJSON(t, app, http.MethodPost, "/v1/campaign", map[string]any{"name": "Spring Sale"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var envelope struct {
			Campaign models.Campaign `json:"campaign"`
		}
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, uint(1), envelope.Campaign.ID)
		assert.True(t, envelope.Campaign.Active)
	})

	t.Run("a missing name is a 400", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			createFn: func(ctx context.Context, input services.CampaignCreateInput) (*models.Campaign, error) {
				return nil, services.ErrCampaignNameRequired
			},
		})

		resp, body := doJSON(t, app, http.MethodPost, "/v1/campaign", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "Campaign name is required", envelope["message"])
	})

	t.Run("a duplicate name is a 400", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			createFn: func(ctx context.Context, input services.CampaignCreateInput) (*models.Campaign, error) {
				return nil, services.ErrCampaignNameTaken
			},
		})

		resp, body := doJSON(t, app, http.MethodPost, "/v1/campaign", map[string]any{"name": "Spring Sale"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "Campaign name must be unique", envelope["message"])
		assert.Equal(t, "Campaign name already exists", envelope["error"])
	})
}

func TestUpdateCampaignEndpoint(t *testing.T) {
	t.Run("forwards only the fields present in the body", func(t *testing.T) {
		var seen map[string]interface{}
		app := newCampaignApp(&mockCampaignService{
			updateFn: func(ctx context.Context, id uint, updates map[string]interface{}) (*models.Campaign, error) {
				seen = updates
				return &models.Campaign{BaseModel: models.BaseModel{ID: id}, Name: "Summer Sale", Active: true}, nil
			},
		})

		resp, _ := doJSON(t, app, http.MethodPut, "/v1/campaign/1", map[string]any{"name": "Summer Sale"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]interface{}{"name": "Summer Sale"}, seen)
	})

	t.Run("forwards the active flag as a bool", func(t *testing.T) {
		var seen map[string]interface{}
		app := newCampaignApp(&mockCampaignService{
			updateFn: func(ctx context.Context, id uint, updates map[string]interface{}) (*models.Campaign, error) {
				seen = updates
				return &models.Campaign{BaseModel: models.BaseModel{ID: id}}, nil
			},
		})

		resp, _ := doJSON(t, app, http.MethodPut, "/v1/campaign/1", map[string]any{"active": false})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]interface{}{"active": false}, seen)
	})

	t.Run("an explicit null name is rejected like an empty one", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			updateFn: func(ctx context.Context, id uint, updates map[string]interface{}) (*models.Campaign, error) {
				if name, ok := updates["name"].(string); ok && name == "" {
					return nil, services.ErrCampaignNameRequired
				}
				return &models.Campaign{BaseModel: models.BaseModel{ID: id}}, nil
			},
		})

		resp, body := doJSON(t, app, http.MethodPut, "/v1/campaign/1", map[string]any{"name": nil})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "Campaign name is required", envelope["message"])
	})

	t.Run("a non-boolean active flag is a 400", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{})

		resp, _ := doJSON(t, app, http.MethodPut, "/v1/campaign/1", map[string]any{"active": "yes"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown ID is a 404", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			updateFn: func(ctx context.Context, id uint, updates map[string]interface{}) (*models.Campaign, error) {
				return nil, services.ErrCampaignNotFound
			},
		})

		resp, _ := doJSON(t, app, http.MethodPut, "/v1/campaign/42", map[string]any{"name": "X"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteCampaignEndpoint(t *testing.T) {
	t.Run("responds 204 with an empty body", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			deleteFn: func(ctx context.Context, id uint) error { return nil },
		})

		resp, body := doJSON(t, app, http.MethodDelete, "/v1/campaign/1", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)
	})

	t.Run("unknown ID is a 404", func(t *testing.T) {
		app := newCampaignApp(&mockCampaignService{
			deleteFn: func(ctx context.Context, id uint) error { return services.ErrCampaignNotFound },
		})

		resp, _ := doJSON(t, app, http.MethodDelete, "/v1/campaign/42", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
