package models

import "gorm.io/gorm"

// Campaign statuses. Deleted campaigns stay in the table (soft delete).
const (
	CampaignStatusDraft    = "Draft"
	CampaignStatusActive   = "Active"
	CampaignStatusInactive = "Inactive"
	CampaignStatusDeleted  = "Deleted"
)

type Campaign struct {
	gorm.Model
	Title          string  `json:"title" gorm:"size:100;not null"`
	Description    string  `json:"description" gorm:"type:text;not null"`
	Link           string  `json:"link"`
	Slug           string  `json:"slug" gorm:"uniqueIndex;not null"`
	BannerURL      string  `json:"bannerUrl"`
	Status         string  `json:"status" gorm:"type:varchar(20);default:Draft;index"`
	AllowAnonymous bool    `json:"allowAnonymous"`
	FeedbackCount  int64   `json:"feedbackCount"`
	AverageRating  float64 `json:"averageRating"`
	CreatedByID    uint    `json:"createdById" gorm:"index;not null"`
	CreatedBy      User    `json:"createdBy" gorm:"foreignKey:CreatedByID;references:ID"`
}
