package services

import (
	"context"
	"errors"
	"time"

	"spock.link/configs/configslog"
	"spock.link/models"
	"spock.link/repositories"

	"go.uber.org/zap"
)

// ContentServiceError is the error type for content business failures.
type ContentServiceError string

func (e ContentServiceError) Error() string { return string(e) }

const (
	ErrContentNotFound         ContentServiceError = "content not found"
	ErrContentTitleRequired    ContentServiceError = "content title is required"
	ErrContentTypeInvalid      ContentServiceError = "invalid content type"
	ErrContentOrderTaken       ContentServiceError = "content order already exists"
	ErrContentCampaignNotFound ContentServiceError = "campaign not found"
	ErrContentCreateFailed     ContentServiceError = "content could not be created"
	ErrContentUpdateFailed     ContentServiceError = "content could not be updated"
	ErrContentDeleteFailed     ContentServiceError = "content could not be deleted"
)

// ContentCreateInput carries a validated create request.
type ContentCreateInput struct {
	Title       string
	ContentType string
	CampaignID  uint
	Order       int

	Subtitle    string
	Description string
	ButtonText  string
	ButtonLink  string
	ExternalURL string
	StartDate   *time.Time
	EndDate     *time.Time
}

// IContentService covers content operations.
type IContentService interface {
	ListContents(ctx context.Context) ([]models.Content, error)
	ListCampaignContents(ctx context.Context, campaignID uint) ([]models.Content, error)
	GetContentByID(ctx context.Context, id uint) (*models.Content, error)
	CreateContent(ctx context.Context, input ContentCreateInput) (*models.Content, error)
	// UpdateContent applies the present keys of updates (column-named, nil
	// values clear nullable columns) and returns the refreshed content.
	UpdateContent(ctx context.Context, id uint, updates map[string]interface{}) (*models.Content, error)
	DeleteContent(ctx context.Context, id uint) error
	// AttachImage records the stored image of a content item.
	AttachImage(ctx context.Context, id uint, filename, path, url string) (*models.Content, error)
}

// ContentService implements IContentService.
type ContentService struct {
	repo         repositories.IContentRepository
	campaignRepo repositories.ICampaignRepository
}

// NewContentService creates a new ContentService.
func NewContentService(repo repositories.IContentRepository, campaignRepo repositories.ICampaignRepository) IContentService {
	return &ContentService{repo: repo, campaignRepo: campaignRepo}
}

func (s *ContentService) ListContents(ctx context.Context) ([]models.Content, error) {
	return s.repo.FindAll(ctx)
}

// ListCampaignContents lists a campaign's content in display order. The
// campaign must exist.
func (s *ContentService) ListCampaignContents(ctx context.Context, campaignID uint) ([]models.Content, error) {
	if _, err := s.campaignRepo.FindByID(ctx, campaignID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContentCampaignNotFound
		}
		return nil, err
	}
	return s.repo.FindByCampaign(ctx, campaignID)
}

func (s *ContentService) GetContentByID(ctx context.Context, id uint) (*models.Content, error) {
	content, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrContentNotFound
	}
	return content, err
}

// CreateContent creates a content item after checking the referenced campaign
// exists and the display order is free within it.
func (s *ContentService) CreateContent(ctx context.Context, input ContentCreateInput) (*models.Content, error) {
	if input.Title == "" {
		return nil, ErrContentTitleRequired
	}
	if !models.IsValidContentType(input.ContentType) {
		return nil, ErrContentTypeInvalid
	}

	if _, err := s.campaignRepo.FindByID(ctx, input.CampaignID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContentCampaignNotFound
		}
		return nil, ErrContentCreateFailed
	}

	if _, err := s.repo.FindByCampaignAndOrder(ctx, input.CampaignID, input.Order, 0); err == nil {
		return nil, ErrContentOrderTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrContentCreateFailed
	}

	content := &models.Content{
		Title:       input.Title,
		ContentType: input.ContentType,
		CampaignID:  input.CampaignID,
		Order:       input.Order,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		ButtonText:  input.ButtonText,
		ButtonLink:  input.ButtonLink,
		ExternalURL: input.ExternalURL,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.repo.Create(ctx, content); err != nil {
		return nil, ErrContentCreateFailed
	}

	configslog.Log.Info("Content created",
		zap.Uint("id", content.ID), zap.Uint("campaign_id", content.CampaignID), zap.String("title", content.Title))
	return content, nil
}

func (s *ContentService) UpdateContent(ctx context.Context, id uint, updates map[string]interface{}) (*models.Content, error) {
	content, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, ErrContentUpdateFailed
	}

	if raw, ok := updates["title"]; ok {
		if title, _ := raw.(string); title == "" {
			return nil, ErrContentTitleRequired
		}
	}
	if raw, ok := updates["content_type"]; ok {
		contentType, _ := raw.(string)
		if !models.IsValidContentType(contentType) {
			return nil, ErrContentTypeInvalid
		}
	}
	if raw, ok := updates["order"]; ok {
		order, _ := raw.(int)
		if _, err := s.repo.FindByCampaignAndOrder(ctx, content.CampaignID, order, id); err == nil {
			return nil, ErrContentOrderTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContentUpdateFailed
		}
	}

	if len(updates) == 0 {
		return content, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, ErrContentUpdateFailed
	}

	refreshed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrContentUpdateFailed
	}
	configslog.Log.Info("Content updated", zap.Uint("id", id))
	return refreshed, nil
}

func (s *ContentService) DeleteContent(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrContentNotFound
	}
	if err != nil {
		return ErrContentDeleteFailed
	}
	configslog.Log.Info("Content deleted", zap.Uint("id", id))
	return nil
}

func (s *ContentService) AttachImage(ctx context.Context, id uint, filename, path, url string) (*models.Content, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, ErrContentUpdateFailed
	}

	updates := map[string]interface{}{
		"image_filename": filename,
		"image_path":     path,
		"image_url":      url,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, ErrContentUpdateFailed
	}

	refreshed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrContentUpdateFailed
	}
	configslog.Log.Info("Content image attached", zap.Uint("id", id), zap.String("filename", filename))
	return refreshed, nil
}

// Interface compliance check
var _ IContentService = (*ContentService)(nil)
