package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Feedback statuses. Deleting feedback is one-way and keeps the row.
const (
	FeedbackStatusActive  = "Active"
	FeedbackStatusDeleted = "Deleted"
)

// Feedback is a single rating+text submission tied to a campaign.
// CreatedByID is nil for anonymous submissions.
type Feedback struct {
	gorm.Model
	CampaignID     uint           `json:"campaignId" gorm:"index;not null"`
	Campaign       Campaign       `json:"-" gorm:"foreignKey:CampaignID;references:ID"`
	CreatedByID    *uint          `json:"createdById" gorm:"index"`
	CreatedBy      *User          `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID"`
	Rating         int            `json:"rating" gorm:"not null"`
	FeedbackText   string         `json:"feedback" gorm:"type:text;not null"`
	AttachmentURLs datatypes.JSON `json:"-"`
	Upvotes        datatypes.JSON `json:"-"`
	Downvotes      datatypes.JSON `json:"-"`
	UpvoteCount    int            `json:"upvoteCount"`
	DownvoteCount  int            `json:"downvoteCount"`
	IsVerified     bool           `json:"isVerified"`
	Edited         bool           `json:"edited"`
	Status         string         `json:"status" gorm:"type:varchar(20);default:Active;index"`
}

// BeforeSave keeps the denormalized vote counters in sync with the vote sets,
// the same way the original kept them synced in a pre-save hook.
func (f *Feedback) BeforeSave(tx *gorm.DB) error {
	f.UpvoteCount = len(f.UpvoteIDs())
	f.DownvoteCount = len(f.DownvoteIDs())
	return nil
}

// UpvoteIDs decodes the upvote set. A nil or malformed column reads as empty.
func (f *Feedback) UpvoteIDs() []uint {
	return decodeIDSet(f.Upvotes)
}

func (f *Feedback) DownvoteIDs() []uint {
	return decodeIDSet(f.Downvotes)
}

func (f *Feedback) SetUpvoteIDs(ids []uint) {
	f.Upvotes = encodeIDSet(ids)
}

func (f *Feedback) SetDownvoteIDs(ids []uint) {
	f.Downvotes = encodeIDSet(ids)
}

// Attachments decodes the attachment URL list.
func (f *Feedback) Attachments() []string {
	var urls []string
	if len(f.AttachmentURLs) > 0 {
		_ = json.Unmarshal(f.AttachmentURLs, &urls)
	}
	if urls == nil {
		urls = []string{}
	}
	return urls
}

func (f *Feedback) SetAttachments(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	raw, _ := json.Marshal(urls)
	f.AttachmentURLs = raw
}

func decodeIDSet(raw datatypes.JSON) []uint {
	var ids []uint
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &ids)
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids
}

func encodeIDSet(ids []uint) datatypes.JSON {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	return raw
}

// Custom JSON marshaling so the JSON columns render as plain arrays
func (f *Feedback) MarshalJSON() ([]byte, error) {
	type Alias Feedback
	aux := &struct {
		AttachmentURLs []string `json:"attachmentUrls"`
		Upvotes        []uint   `json:"upvotes"`
		Downvotes      []uint   `json:"downvotes"`
		*Alias
	}{
		AttachmentURLs: f.Attachments(),
		Upvotes:        f.UpvoteIDs(),
		Downvotes:      f.DownvoteIDs(),
		Alias:          (*Alias)(f),
	}
	return json.Marshal(aux)
}
