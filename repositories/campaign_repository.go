package repositories

import (
	"context"
	"errors"

	"spock.link/configs/configslog"
	"spock.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ICampaignRepository covers campaign persistence.
type ICampaignRepository interface {
	FindAll(ctx context.Context) ([]models.Campaign, error)
	FindByID(ctx context.Context, id uint) (*models.Campaign, error)
	FindByName(ctx context.Context, name string, excludeID uint) (*models.Campaign, error)
	FindActive(ctx context.Context) (*models.Campaign, error)
	Create(ctx context.Context, campaign *models.Campaign) error
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	DeactivateOthers(ctx context.Context, excludeID uint) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	// WithTransaction runs fn against a repository bound to one database
	// transaction; an error from fn rolls every write back.
	WithTransaction(ctx context.Context, fn func(ICampaignRepository) error) error
}

// CampaignRepository implements ICampaignRepository on GORM.
type CampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *gorm.DB) ICampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) FindAll(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).Order("id asc").Find(&campaigns).Error
	if err != nil {
		configslog.Log.Error("CampaignRepository.FindAll: DB error", zap.Error(err))
	}
	return campaigns, err
}

func (r *CampaignRepository) FindByID(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).First(&campaign, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("CampaignRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &campaign, nil
}

// FindByName looks a campaign up by name, skipping excludeID (0 skips nothing).
// Used for the uniqueness check on create and update.
func (r *CampaignRepository) FindByName(ctx context.Context, name string, excludeID uint) (*models.Campaign, error) {
	var campaign models.Campaign
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("CampaignRepository.FindByName: DB error", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return &campaign, nil
}

// FindActive returns the currently active campaign. The services layer keeps
// at most one row active; updated_at ordering breaks ties deterministically if
// the table was touched outside the API.
func (r *CampaignRepository) FindActive(ctx context.Context) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("updated_at desc").First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("CampaignRepository.FindActive: DB error", zap.Error(err))
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	err := r.db.WithContext(ctx).Create(campaign).Error
	if err != nil {
		configslog.Log.Error("CampaignRepository.Create: DB error", zap.String("name", campaign.Name), zap.Error(err))
	}
	return err
}

// Update applies a partial update. Only keys present in data are written.
func (r *CampaignRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Campaign{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		configslog.Log.Error("CampaignRepository.Update: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateOthers clears the active flag on every campaign except excludeID.
func (r *CampaignRepository) DeactivateOthers(ctx context.Context, excludeID uint) error {
	err := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("active = ? AND id <> ?", true, excludeID).
		Update("active", false).Error
	if err != nil {
		configslog.Log.Error("CampaignRepository.DeactivateOthers: DB error", zap.Uint("exclude_id", excludeID), zap.Error(err))
	}
	return err
}

// Delete removes the campaign. Owned content goes with it through the
// OnDelete:CASCADE constraint on the relation.
func (r *CampaignRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Campaign{}, id)
	if result.Error != nil {
		configslog.Log.Error("CampaignRepository.Delete: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CampaignRepository) WithTransaction(ctx context.Context, fn func(ICampaignRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCampaignRepository(tx))
	})
}

func (r *CampaignRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Campaign{}).Count(&count).Error
	return count, err
}

// Interface compliance check
var _ ICampaignRepository = (*CampaignRepository)(nil)
