package models

// Campaign is a top-level promotional entity. At most one campaign is active
// at any time; the services layer keeps that invariant.
type Campaign struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Active bool   `gorm:"default:true;index" json:"active"`

	// GORM relations
	Contents []Content `gorm:"foreignKey:CampaignID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
