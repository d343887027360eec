package routes

import (
	"time"

	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/irahuldutta02/feed-sync-sub000/utils"
	"github.com/kataras/iris/v12"
)

// DashboardAnalytics aggregates the authenticated owner's campaigns.
func DashboardAnalytics(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	var campaigns []models.Campaign
	if err := storage.DB.
		Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	countByStatus := map[string]int{}
	campaignIDs := make([]uint, 0, len(campaigns))
	var totalFeedback int64
	var weightedRating float64
	for _, c := range campaigns {
		countByStatus[c.Status]++
		campaignIDs = append(campaignIDs, c.ID)
		totalFeedback += c.FeedbackCount
		weightedRating += c.AverageRating * float64(c.FeedbackCount)
	}

	overallAverage := 0.0
	if totalFeedback > 0 {
		overallAverage = weightedRating / float64(totalFeedback)
	}

	var recent7, recent30 int64
	if len(campaignIDs) > 0 {
		since7 := time.Now().AddDate(0, 0, -7)
		since30 := time.Now().AddDate(0, 0, -30)
		storage.DB.Model(&models.Feedback{}).
			Where("campaign_id IN ? AND status <> ? AND created_at >= ?", campaignIDs, models.FeedbackStatusDeleted, since7).
			Count(&recent7)
		storage.DB.Model(&models.Feedback{}).
			Where("campaign_id IN ? AND status <> ? AND created_at >= ?", campaignIDs, models.FeedbackStatusDeleted, since30).
			Count(&recent30)
	}

	utils.JSONSuccess(ctx, iris.StatusOK, iris.Map{
		"campaignCount":     len(campaigns),
		"campaignsByStatus": countByStatus,
		"totalFeedback":     totalFeedback,
		"overallAverage":    overallAverage,
		"recentFeedback7d":  recent7,
		"recentFeedback30d": recent30,
		"campaigns":         campaigns,
	})
}
