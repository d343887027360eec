package routes

import (
	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/services"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/irahuldutta02/feed-sync-sub000/utils"
	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// CreateFeedback accepts authenticated and anonymous submissions; the route
// is registered without the JWT verifier and the token is read optionally.
func CreateFeedback(ctx iris.Context) {
	claims := utils.OptionalAccessToken(ctx)

	var input CreateFeedbackInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Rating < 1 || input.Rating > 5 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Rating must be between 1 and 5", ctx)
		return
	}

	var campaign models.Campaign
	if err := storage.DB.First(&campaign, input.CampaignID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if campaign.Status != models.CampaignStatusActive {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Campaign is not accepting feedback.", ctx)
		return
	}

	if claims == nil && !campaign.AllowAnonymous {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "This campaign does not allow anonymous feedback.", ctx)
		return
	}

	feedback := models.Feedback{
		CampaignID:   campaign.ID,
		Rating:       input.Rating,
		FeedbackText: input.Feedback,
		Status:       models.FeedbackStatusActive,
	}
	feedback.SetAttachments(input.AttachmentURLs)
	feedback.SetUpvoteIDs(nil)
	feedback.SetDownvoteIDs(nil)

	if claims != nil {
		userID := claims.ID
		feedback.CreatedByID = &userID
		// Verified status is derived from the allow-list at creation time
		// only; later allow-list edits re-flag it through ManageVerifiedUser.
		verified, verifiedErr := emailIsVerified(campaign.ID, claims.Email)
		if verifiedErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		feedback.IsVerified = verified
	}

	if err := storage.DB.Create(&feedback).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	services.RecalculateCampaignMetrics(campaign.ID)

	utils.JSONSuccess(ctx, iris.StatusCreated, &feedback)
}

func UpdateFeedback(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	feedbackID := ctx.Params().GetUintDefault("id", 0)
	if feedbackID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid feedback ID.", ctx)
		return
	}

	var feedback models.Feedback
	if err := storage.DB.First(&feedback, feedbackID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if feedback.CreatedByID == nil || *feedback.CreatedByID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	if feedback.Status == models.FeedbackStatusDeleted {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Deleted feedback cannot be edited.", ctx)
		return
	}

	var input UpdateFeedbackInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Rating must be between 1 and 5", ctx)
			return
		}
		feedback.Rating = *input.Rating
	}
	if input.Feedback != nil {
		feedback.FeedbackText = *input.Feedback
	}
	if input.AttachmentURLs != nil {
		feedback.SetAttachments(input.AttachmentURLs)
	}

	feedback.Edited = true

	if err := storage.DB.Save(&feedback).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	services.RecalculateCampaignMetrics(feedback.CampaignID)

	utils.JSONSuccess(ctx, iris.StatusOK, &feedback)
}

// FeedbackDetail returns a single feedback record by ID, including
// soft-deleted records.
func FeedbackDetail(ctx iris.Context) {
	feedbackID := ctx.Params().GetUintDefault("id", 0)
	if feedbackID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid feedback ID.", ctx)
		return
	}

	var feedback models.Feedback
	if err := storage.DB.Preload("CreatedBy").First(&feedback, feedbackID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, &feedback)
}

func FeedbackPaginatedList(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 10)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	query := storage.DB.Model(&models.Feedback{}).
		Where("status <> ?", models.FeedbackStatusDeleted)

	if campaignID := ctx.URLParamIntDefault("campaignId", 0); campaignID > 0 {
		query = query.Where("campaign_id = ?", campaignID)
	}
	if rating := ctx.URLParamIntDefault("rating", 0); rating >= 1 && rating <= 5 {
		query = query.Where("rating = ?", rating)
	}
	if verified, err := ctx.URLParamBool("verified"); err == nil {
		query = query.Where("is_verified = ?", verified)
	}

	order := "created_at DESC"
	switch ctx.URLParamDefault("sort", "") {
	case "rating":
		order = "rating DESC, created_at DESC"
	case "upvotes":
		order = "upvote_count DESC, created_at DESC"
	case "oldest":
		order = "created_at ASC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var feedbacks []models.Feedback
	if err := query.Preload("CreatedBy").
		Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&feedbacks).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, feedbacks, page, perPage, total)
}

// MarkFeedbackDeleted soft-deletes feedback. The author or the campaign
// owner may delete; the record stays queryable by ID.
func MarkFeedbackDeleted(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	feedbackID := ctx.Params().GetUintDefault("id", 0)
	if feedbackID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid feedback ID.", ctx)
		return
	}

	var feedback models.Feedback
	if err := storage.DB.First(&feedback, feedbackID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var campaign models.Campaign
	if err := storage.DB.First(&campaign, feedback.CampaignID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	isAuthor := feedback.CreatedByID != nil && *feedback.CreatedByID == userID
	isCampaignOwner := campaign.CreatedByID == userID
	if !isAuthor && !isCampaignOwner {
		utils.CreateForbidden(ctx)
		return
	}

	if feedback.Status != models.FeedbackStatusDeleted {
		feedback.Status = models.FeedbackStatusDeleted
		if err := storage.DB.Save(&feedback).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		services.RecalculateCampaignMetrics(feedback.CampaignID)
	}

	utils.JSONSuccessMessage(ctx, iris.StatusOK, "Feedback deleted.")
}

// UpvoteDownvote toggles the requester's vote. Voting the same direction
// again clears it; voting the opposite direction moves it. A user is never
// in both sets at once.
func UpvoteDownvote(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	feedbackID := ctx.Params().GetUintDefault("id", 0)
	if feedbackID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid feedback ID.", ctx)
		return
	}

	var input VoteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var feedback models.Feedback
	if err := storage.DB.First(&feedback, feedbackID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if feedback.Status == models.FeedbackStatusDeleted {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Deleted feedback cannot be voted on.", ctx)
		return
	}

	upvotes := feedback.UpvoteIDs()
	downvotes := feedback.DownvoteIDs()

	if input.Type == "up" {
		if i := slices.Index(upvotes, userID); i >= 0 {
			upvotes = slices.Delete(upvotes, i, i+1)
		} else {
			if j := slices.Index(downvotes, userID); j >= 0 {
				downvotes = slices.Delete(downvotes, j, j+1)
			}
			upvotes = append(upvotes, userID)
		}
	} else {
		if i := slices.Index(downvotes, userID); i >= 0 {
			downvotes = slices.Delete(downvotes, i, i+1)
		} else {
			if j := slices.Index(upvotes, userID); j >= 0 {
				upvotes = slices.Delete(upvotes, j, j+1)
			}
			downvotes = append(downvotes, userID)
		}
	}

	feedback.SetUpvoteIDs(upvotes)
	feedback.SetDownvoteIDs(downvotes)

	if err := storage.DB.Save(&feedback).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, &feedback)
}

// UserFeedbackForCampaign returns the requester's own feedback on a campaign.
func UserFeedbackForCampaign(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	campaignID := ctx.Params().GetUintDefault("campaignId", 0)
	if campaignID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid campaign ID.", ctx)
		return
	}

	var feedbacks []models.Feedback
	if err := storage.DB.
		Where("campaign_id = ? AND created_by_id = ? AND status <> ?",
			campaignID, userID, models.FeedbackStatusDeleted).
		Order("created_at DESC").
		Find(&feedbacks).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, feedbacks)
}

func emailIsVerified(campaignID uint, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var entry models.VerifiedUser
	err := storage.DB.
		Where("campaign_id = ? AND email = ?", campaignID, email).
		First(&entry).Error
	if err == nil {
		return true, nil
	}
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return false, err
}

type CreateFeedbackInput struct {
	CampaignID     uint     `json:"campaignId" validate:"required"`
	Rating         int      `json:"rating"`
	Feedback       string   `json:"feedback" validate:"required,max=5000"`
	AttachmentURLs []string `json:"attachmentUrls"`
}

type UpdateFeedbackInput struct {
	Rating         *int     `json:"rating"`
	Feedback       *string  `json:"feedback"`
	AttachmentURLs []string `json:"attachmentUrls"`
}

type VoteInput struct {
	Type string `json:"type" validate:"required,oneof=up down"`
}
