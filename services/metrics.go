package services

import (
	"log"

	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
)

// RecalculateCampaignMetrics recomputes the denormalized feedback count and
// average rating for a campaign by re-reading every non-deleted feedback row.
// This is a full rescan on every feedback mutation, last write wins; metrics
// are analytics, not accounting, so concurrent writers are tolerated.
func RecalculateCampaignMetrics(campaignID uint) error {
	var feedbacks []models.Feedback
	if err := storage.DB.
		Where("campaign_id = ? AND status <> ?", campaignID, models.FeedbackStatusDeleted).
		Find(&feedbacks).Error; err != nil {
		return err
	}

	var totalRating float64
	for _, fb := range feedbacks {
		totalRating += float64(fb.Rating)
	}

	count := int64(len(feedbacks))
	average := 0.0
	if count > 0 {
		average = totalRating / float64(count)
	}

	if err := storage.DB.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"feedback_count": count,
			"average_rating": average,
		}).Error; err != nil {
		log.Printf("metrics: failed to update campaign %d: %v", campaignID, err)
		return err
	}
	return nil
}
