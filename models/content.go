package models

import "time"

// Content type values accepted at the API boundary. The column itself stays an
// open string so new types can ship without a migration.
const (
	ContentTypeCard   = "card"
	ContentTypeBanner = "banner"
	ContentTypeImage  = "image"
	ContentTypeModal  = "modal"
)

// ContentTypes lists the accepted content_type values in a stable order.
var ContentTypes = []string{
	ContentTypeCard,
	ContentTypeBanner,
	ContentTypeImage,
	ContentTypeModal,
}

// IsValidContentType reports whether value is an accepted content type.
func IsValidContentType(value string) bool {
	for _, t := range ContentTypes {
		if t == value {
			return true
		}
	}
	return false
}

// Content is an ordered, typed item belonging to exactly one campaign.
// The (campaign_id, order) pair is unique: order drives display position
// among siblings.
type Content struct {
	BaseModel
	ContentType string `gorm:"type:varchar(50);not null" json:"content_type"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Subtitle    string `gorm:"type:varchar(255)" json:"subtitle,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Order int `gorm:"column:order;not null;uniqueIndex:idx_contents_campaign_order" json:"order"`

	ButtonText string `gorm:"type:varchar(255)" json:"button_text,omitempty"`
	ButtonLink string `gorm:"type:varchar(512)" json:"button_link,omitempty"`

	// Image fields are populated by the upload endpoint; image_url is a
	// server-relative path the frontend resolves against its API base.
	ImageFilename string `gorm:"type:varchar(255)" json:"image_filename,omitempty"`
	ImagePath     string `gorm:"type:varchar(512)" json:"image_path,omitempty"`
	ImageURL      string `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	ExternalURL   string `gorm:"type:varchar(512)" json:"external_url,omitempty"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CampaignID uint     `gorm:"not null;index;uniqueIndex:idx_contents_campaign_order" json:"campaign_id"`
	Campaign   Campaign `gorm:"foreignKey:CampaignID" json:"-"`
}
