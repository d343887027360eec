package models

import "gorm.io/gorm"

// VerifiedUser is a campaign owner's allow-list entry. Feedback submitted by a
// registered user with a matching email is flagged as verified.
type VerifiedUser struct {
	gorm.Model
	CampaignID uint     `json:"campaignId" gorm:"index:idx_verified_campaign_email,unique;not null"`
	Campaign   Campaign `json:"-" gorm:"foreignKey:CampaignID;references:ID"`
	Email      string   `json:"email" gorm:"index:idx_verified_campaign_email,unique;size:256;not null"`
}
