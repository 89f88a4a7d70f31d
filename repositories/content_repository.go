package repositories

import (
	"context"
	"errors"

	"spock.link/configs/configslog"
	"spock.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IContentRepository covers content persistence.
type IContentRepository interface {
	FindAll(ctx context.Context) ([]models.Content, error)
	FindByID(ctx context.Context, id uint) (*models.Content, error)
	FindByCampaign(ctx context.Context, campaignID uint) ([]models.Content, error)
	FindByCampaignAndOrder(ctx context.Context, campaignID uint, order int, excludeID uint) (*models.Content, error)
	Create(ctx context.Context, content *models.Content) error
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

// ContentRepository implements IContentRepository on GORM.
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db *gorm.DB) IContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) FindAll(ctx context.Context) ([]models.Content, error) {
	var contents []models.Content
	err := r.db.WithContext(ctx).Order("id asc").Find(&contents).Error
	if err != nil {
		configslog.Log.Error("ContentRepository.FindAll: DB error", zap.Error(err))
	}
	return contents, err
}

func (r *ContentRepository) FindByID(ctx context.Context, id uint) (*models.Content, error) {
	var content models.Content
	err := r.db.WithContext(ctx).First(&content, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("ContentRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &content, nil
}

// FindByCampaign lists a campaign's content in display order.
func (r *ContentRepository) FindByCampaign(ctx context.Context, campaignID uint) ([]models.Content, error) {
	var contents []models.Content
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order(`"order" asc`).
		Find(&contents).Error
	if err != nil {
		configslog.Log.Error("ContentRepository.FindByCampaign: DB error",
			zap.Uint("campaign_id", campaignID), zap.Error(err))
	}
	return contents, err
}

// FindByCampaignAndOrder finds the sibling holding a display order, skipping
// excludeID (0 skips nothing). Used for the order-uniqueness check.
func (r *ContentRepository) FindByCampaignAndOrder(ctx context.Context, campaignID uint, order int, excludeID uint) (*models.Content, error) {
	var content models.Content
	query := r.db.WithContext(ctx).Where(`campaign_id = ? AND "order" = ?`, campaignID, order)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("ContentRepository.FindByCampaignAndOrder: DB error",
			zap.Uint("campaign_id", campaignID), zap.Int("order", order), zap.Error(err))
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) Create(ctx context.Context, content *models.Content) error {
	err := r.db.WithContext(ctx).Create(content).Error
	if err != nil {
		configslog.Log.Error("ContentRepository.Create: DB error",
			zap.String("title", content.Title), zap.Uint("campaign_id", content.CampaignID), zap.Error(err))
	}
	return err
}

// Update applies a partial update. Only keys present in data are written;
// a nil value clears the column.
func (r *ContentRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Content{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		configslog.Log.Error("ContentRepository.Update: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Content{}, id)
	if result.Error != nil {
		configslog.Log.Error("ContentRepository.Delete: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Interface compliance check
var _ IContentRepository = (*ContentRepository)(nil)
