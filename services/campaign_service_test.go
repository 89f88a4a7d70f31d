package services_test

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"
	"time"

	"spock.link/configs/configslog"
	"spock.link/models"
	"spock.link/repositories"
	"spock.link/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	os.Exit(m.Run())
}

// Mock repositories

type mockCampaignRepo struct {
	byID   map[uint]*models.Campaign
	nextID uint

	createErr error
	updateErr error
}

func newMockCampaignRepo() *mockCampaignRepo {
	return &mockCampaignRepo{byID: map[uint]*models.Campaign{}, nextID: 1}
}

func (m *mockCampaignRepo) FindAll(ctx context.Context) ([]models.Campaign, error) {
	var out []models.Campaign
	for _, campaign := range m.byID {
		out = append(out, *campaign)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCampaignRepo) FindByID(ctx context.Context, id uint) (*models.Campaign, error) {
	campaign, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *campaign
	return &copied, nil
}

func (m *mockCampaignRepo) FindByName(ctx context.Context, name string, excludeID uint) (*models.Campaign, error) {
	for _, campaign := range m.byID {
		if campaign.Name == name && campaign.ID != excludeID {
			copied := *campaign
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockCampaignRepo) FindActive(ctx context.Context) (*models.Campaign, error) {
	var latest *models.Campaign
	for _, campaign := range m.byID {
		if !campaign.Active {
			continue
		}
		if latest == nil || campaign.UpdatedAt.After(latest.UpdatedAt) {
			latest = campaign
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *mockCampaignRepo) Create(ctx context.Context, campaign *models.Campaign) error {
	if m.createErr != nil {
		return m.createErr
	}
	campaign.ID = m.nextID
	m.nextID++
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	copied := *campaign
	m.byID[campaign.ID] = &copied
	return nil
}

func (m *mockCampaignRepo) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	campaign, ok := m.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if name, ok := data["name"]; ok {
		campaign.Name = name.(string)
	}
	if active, ok := data["active"]; ok {
		campaign.Active = active.(bool)
	}
	campaign.UpdatedAt = time.Now()
	return nil
}

func (m *mockCampaignRepo) DeactivateOthers(ctx context.Context, excludeID uint) error {
	for _, campaign := range m.byID {
		if campaign.ID != excludeID {
			campaign.Active = false
		}
	}
	return nil
}

func (m *mockCampaignRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockCampaignRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

// WithTransaction snapshots the store and restores it when fn fails, matching
// the rollback the real repository gets from the database.
func (m *mockCampaignRepo) WithTransaction(ctx context.Context, fn func(repositories.ICampaignRepository) error) error {
	snapshot := make(map[uint]*models.Campaign, len(m.byID))
	for id, campaign := range m.byID {
		copied := *campaign
		snapshot[id] = &copied
	}
	nextID := m.nextID

	if err := fn(m); err != nil {
		m.byID = snapshot
		m.nextID = nextID
		return err
	}
	return nil
}

var _ repositories.ICampaignRepository = (*mockCampaignRepo)(nil)

// Tests

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an ID and defaults to active", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		campaign, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Spring Sale"})
		require.NoError(t, err)
		assert.NotZero(t, campaign.ID)
		assert.Equal(t, "Spring Sale", campaign.Name)
		assert.True(t, campaign.Active)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		_, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: ""})
		assert.ErrorIs(t, err, services.ErrCampaignNameRequired)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		_, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Spring Sale"})
		require.NoError(t, err)

		_, err = service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Spring Sale"})
		assert.ErrorIs(t, err, services.ErrCampaignNameTaken)
	})

	t.Run("an active create deactivates every other campaign", func(t *testing.T) {
		repo := newMockCampaignRepo()
		service := services.NewCampaignService(repo)

		first, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "First"})
		require.NoError(t, err)
		second, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Second"})
		require.NoError(t, err)

		refetched, err := service.GetCampaignByID(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, refetched.Active)
		assert.True(t, second.Active)

		active, err := service.GetActiveCampaign(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)
	})

	t.Run("an explicitly inactive create leaves the active campaign alone", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		first, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "First"})
		require.NoError(t, err)

		inactive := false
		_, err = service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Second", Active: &inactive})
		require.NoError(t, err)

		active, err := service.GetActiveCampaign(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, active.ID)
	})

	t.Run("a failed active create leaves the previous active campaign intact", func(t *testing.T) {
		repo := newMockCampaignRepo()
		service := services.NewCampaignService(repo)

		first, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "First"})
		require.NoError(t, err)

		repo.createErr = errors.New("insert failed")
		_, err = service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Second"})
		assert.ErrorIs(t, err, services.ErrCampaignCreateFailed)

		// Deactivation rolled back with the insert.
		active, err := service.GetActiveCampaign(ctx)
		require.NoError(t, err, "the previously active campaign must stay active after a failed create")
		assert.Equal(t, first.ID, active.ID)
	})
}

func TestUpdateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update leaves absent fields unchanged", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		created, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Spring Sale"})
		require.NoError(t, err)

		updated, err := service.UpdateCampaign(ctx, created.ID, map[string]interface{}{"name": "Summer Sale"})
		require.NoError(t, err)
		assert.Equal(t, "Summer Sale", updated.Name)
		assert.True(t, updated.Active, "active must survive a name-only update")
	})

	t.Run("deactivating removes the campaign from the active lookup", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		created, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Spring Sale"})
		require.NoError(t, err)

		_, err = service.UpdateCampaign(ctx, created.ID, map[string]interface{}{"active": false})
		require.NoError(t, err)

		_, err = service.GetActiveCampaign(ctx)
		assert.ErrorIs(t, err, services.ErrActiveCampaignNotFound)
	})

	t.Run("activating moves the flag between campaigns", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		first, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "First"})
		require.NoError(t, err)
		second, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Second"})
		require.NoError(t, err)

		_, err = service.UpdateCampaign(ctx, first.ID, map[string]interface{}{"active": true})
		require.NoError(t, err)

		refetched, err := service.GetCampaignByID(ctx, second.ID)
		require.NoError(t, err)
		assert.False(t, refetched.Active)
	})

	t.Run("a failed activating update leaves the previous active campaign intact", func(t *testing.T) {
		repo := newMockCampaignRepo()
		service := services.NewCampaignService(repo)

		first, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "First"})
		require.NoError(t, err)

		inactive := false
		second, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Second", Active: &inactive})
		require.NoError(t, err)

		repo.updateErr = errors.New("update failed")
		_, err = service.UpdateCampaign(ctx, second.ID, map[string]interface{}{"active": true})
		assert.ErrorIs(t, err, services.ErrCampaignUpdateFailed)

		active, err := service.GetActiveCampaign(ctx)
		require.NoError(t, err, "the previously active campaign must stay active after a failed update")
		assert.Equal(t, first.ID, active.ID)
	})

	t.Run("unknown ID", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		_, err := service.UpdateCampaign(ctx, 99, map[string]interface{}{"name": "X"})
		assert.ErrorIs(t, err, services.ErrCampaignNotFound)
	})

	t.Run("empty name rejected, duplicate name rejected", func(t *testing.T) {
		service := services.NewCampaignService(newMockCampaignRepo())

		first, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "First"})
		require.NoError(t, err)
		_, err = service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Second"})
		require.NoError(t, err)

		_, err = service.UpdateCampaign(ctx, first.ID, map[string]interface{}{"name": ""})
		assert.ErrorIs(t, err, services.ErrCampaignNameRequired)

		_, err = service.UpdateCampaign(ctx, first.ID, map[string]interface{}{"name": "Second"})
		assert.ErrorIs(t, err, services.ErrCampaignNameTaken)
	})
}

func TestDeleteCampaign(t *testing.T) {
	ctx := context.Background()
	service := services.NewCampaignService(newMockCampaignRepo())

	created, err := service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Spring Sale"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteCampaign(ctx, created.ID))

	_, err = service.GetCampaignByID(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrCampaignNotFound)

	// A repeated delete is a not-found, not a second success.
	assert.ErrorIs(t, service.DeleteCampaign(ctx, created.ID), services.ErrCampaignNotFound)
}

func TestListCampaigns(t *testing.T) {
	ctx := context.Background()
	service := services.NewCampaignService(newMockCampaignRepo())

	campaigns, err := service.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, campaigns)

	_, err = service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "First"})
	require.NoError(t, err)
	_, err = service.CreateCampaign(ctx, services.CampaignCreateInput{Name: "Second"})
	require.NoError(t, err)

	campaigns, err = service.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, "First", campaigns[0].Name)
	assert.Equal(t, "Second", campaigns[1].Name)
}
