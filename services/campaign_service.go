package services

import (
	"context"
	"errors"

	"spock.link/configs/configslog"
	"spock.link/models"
	"spock.link/repositories"

	"go.uber.org/zap"
)

// CampaignServiceError is the error type for campaign business failures.
type CampaignServiceError string

func (e CampaignServiceError) Error() string { return string(e) }

const (
	ErrCampaignNotFound       CampaignServiceError = "campaign not found"
	ErrActiveCampaignNotFound CampaignServiceError = "active campaign not found"
	ErrCampaignNameRequired   CampaignServiceError = "campaign name is required"
	ErrCampaignNameTaken      CampaignServiceError = "campaign name already exists"
	ErrCampaignCreateFailed   CampaignServiceError = "campaign could not be created"
	ErrCampaignUpdateFailed   CampaignServiceError = "campaign could not be updated"
	ErrCampaignDeleteFailed   CampaignServiceError = "campaign could not be deleted"
)

// CampaignCreateInput carries a validated create request.
type CampaignCreateInput struct {
	Name   string
	Active *bool // nil means the default (true)
}

// ICampaignService covers campaign operations.
type ICampaignService interface {
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	GetCampaignByID(ctx context.Context, id uint) (*models.Campaign, error)
	GetActiveCampaign(ctx context.Context) (*models.Campaign, error)
	CreateCampaign(ctx context.Context, input CampaignCreateInput) (*models.Campaign, error)
	// UpdateCampaign applies the present keys of updates ("name", "active")
	// and returns the refreshed campaign.
	UpdateCampaign(ctx context.Context, id uint, updates map[string]interface{}) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id uint) error
}

// CampaignService implements ICampaignService.
type CampaignService struct {
	repo repositories.ICampaignRepository
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(repo repositories.ICampaignRepository) ICampaignService {
	return &CampaignService{repo: repo}
}

func (s *CampaignService) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return s.repo.FindAll(ctx)
}

func (s *CampaignService) GetCampaignByID(ctx context.Context, id uint) (*models.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrCampaignNotFound
	}
	return campaign, err
}

func (s *CampaignService) GetActiveCampaign(ctx context.Context) (*models.Campaign, error) {
	campaign, err := s.repo.FindActive(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrActiveCampaignNotFound
	}
	return campaign, err
}

// CreateCampaign creates a campaign. New campaigns default to active; an
// active campaign deactivates every other one so at most one stays active.
func (s *CampaignService) CreateCampaign(ctx context.Context, input CampaignCreateInput) (*models.Campaign, error) {
	if input.Name == "" {
		return nil, ErrCampaignNameRequired
	}

	if _, err := s.repo.FindByName(ctx, input.Name, 0); err == nil {
		return nil, ErrCampaignNameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrCampaignCreateFailed
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	campaign := &models.Campaign{Name: input.Name, Active: active}

	// Deactivation and the insert share a transaction: a failed insert must
	// not strand the system with zero active campaigns.
	var err error
	if active {
		err = s.repo.WithTransaction(ctx, func(txRepo repositories.ICampaignRepository) error {
			if err := txRepo.DeactivateOthers(ctx, 0); err != nil {
				return err
			}
			return txRepo.Create(ctx, campaign)
		})
	} else {
		err = s.repo.Create(ctx, campaign)
	}
	if err != nil {
		return nil, ErrCampaignCreateFailed
	}

	configslog.Log.Info("Campaign created",
		zap.Uint("id", campaign.ID), zap.String("name", campaign.Name), zap.Bool("active", campaign.Active))
	return campaign, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, id uint, updates map[string]interface{}) (*models.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, ErrCampaignUpdateFailed
	}

	if raw, ok := updates["name"]; ok {
		name, _ := raw.(string)
		if name == "" {
			return nil, ErrCampaignNameRequired
		}
		if _, err := s.repo.FindByName(ctx, name, id); err == nil {
			return nil, ErrCampaignNameTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCampaignUpdateFailed
		}
	}

	if len(updates) == 0 {
		return campaign, nil
	}

	activating := false
	if raw, ok := updates["active"]; ok {
		activating, _ = raw.(bool)
	}

	// Same transactional pairing as on create: the active flag must not be
	// cleared on the others unless this update commits with it.
	var writeErr error
	if activating {
		writeErr = s.repo.WithTransaction(ctx, func(txRepo repositories.ICampaignRepository) error {
			if err := txRepo.DeactivateOthers(ctx, id); err != nil {
				return err
			}
			return txRepo.Update(ctx, id, updates)
		})
	} else {
		writeErr = s.repo.Update(ctx, id, updates)
	}
	if writeErr != nil {
		if errors.Is(writeErr, repositories.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, ErrCampaignUpdateFailed
	}

	refreshed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCampaignUpdateFailed
	}
	configslog.Log.Info("Campaign updated", zap.Uint("id", id))
	return refreshed, nil
}

// DeleteCampaign removes the campaign and, through the cascade constraint,
// its content.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrCampaignNotFound
	}
	if err != nil {
		return ErrCampaignDeleteFailed
	}
	configslog.Log.Info("Campaign deleted", zap.Uint("id", id))
	return nil
}

// Interface compliance check
var _ ICampaignService = (*CampaignService)(nil)
