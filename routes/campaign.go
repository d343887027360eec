package routes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/irahuldutta02/feed-sync-sub000/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

var (
	slugRegex = regexp.MustCompile(`^[a-z0-9]{3,}(?:-[a-z0-9]+)*$`)
	urlRegex  = regexp.MustCompile(`^https?://[^\s]+$`)
)

const maxVerifiedUserBatch = 100

func CreateCampaign(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	var input CreateCampaignInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))
	if !slugRegex.MatchString(input.Slug) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Slug must be lowercase alphanumeric, at least 3 characters, with single hyphens between segments.", ctx)
		return
	}

	if input.Link != "" && !urlRegex.MatchString(input.Link) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Link must be a valid URL.", ctx)
		return
	}
	if input.BannerURL != "" && !urlRegex.MatchString(input.BannerURL) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Banner must be a valid URL.", ctx)
		return
	}

	taken, takenErr := slugTaken(input.Slug, 0)
	if takenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if taken {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Slug already exists.", ctx)
		return
	}

	campaign := models.Campaign{
		Title:          input.Title,
		Description:    input.Description,
		Link:           input.Link,
		Slug:           input.Slug,
		BannerURL:      input.BannerURL,
		Status:         models.CampaignStatusDraft,
		AllowAnonymous: input.AllowAnonymous,
		CreatedByID:    userID,
	}

	if err := storage.DB.Create(&campaign).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusCreated, campaign)
}

func UpdateCampaign(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	campaignID := ctx.Params().GetUintDefault("id", 0)
	if campaignID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid campaign ID.", ctx)
		return
	}

	var campaign models.Campaign
	if err := storage.DB.First(&campaign, campaignID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if campaign.CreatedByID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateCampaignInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Title != nil {
		if len(*input.Title) < 3 || len(*input.Title) > 100 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Title must be between 3 and 100 characters.", ctx)
			return
		}
		campaign.Title = *input.Title
	}

	if input.Description != nil {
		if len(*input.Description) < 10 || len(*input.Description) > 2000 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Description must be between 10 and 2000 characters.", ctx)
			return
		}
		campaign.Description = *input.Description
	}

	if input.Slug != nil {
		slug := strings.TrimSpace(strings.ToLower(*input.Slug))
		if !slugRegex.MatchString(slug) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"Slug must be lowercase alphanumeric, at least 3 characters, with single hyphens between segments.", ctx)
			return
		}
		taken, takenErr := slugTaken(slug, campaign.ID)
		if takenErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if taken {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Slug already exists.", ctx)
			return
		}
		campaign.Slug = slug
	}

	if input.Link != nil {
		if *input.Link != "" && !urlRegex.MatchString(*input.Link) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Link must be a valid URL.", ctx)
			return
		}
		campaign.Link = *input.Link
	}

	if input.BannerURL != nil {
		if *input.BannerURL != "" && !urlRegex.MatchString(*input.BannerURL) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Banner must be a valid URL.", ctx)
			return
		}
		campaign.BannerURL = *input.BannerURL
	}

	if input.Status != nil {
		switch *input.Status {
		case models.CampaignStatusDraft, models.CampaignStatusActive,
			models.CampaignStatusInactive, models.CampaignStatusDeleted:
			campaign.Status = *input.Status
		default:
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid campaign status.", ctx)
			return
		}
	}

	if input.AllowAnonymous != nil {
		campaign.AllowAnonymous = *input.AllowAnonymous
	}

	if err := storage.DB.Save(&campaign).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, campaign)
}

// CampaignDetail looks a campaign up by numeric ID or by slug.
func CampaignDetail(ctx iris.Context) {
	idOrSlug := ctx.Params().GetString("id")

	var campaign models.Campaign
	query := storage.DB.Preload("CreatedBy")

	if id, err := strconv.ParseUint(idOrSlug, 10, 32); err == nil {
		query = query.Where("id = ?", uint(id))
	} else {
		query = query.Where("slug = ?", strings.ToLower(idOrSlug))
	}

	if err := query.First(&campaign).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, campaign)
}

func CampaignPaginatedList(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 10)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	query := storage.DB.Model(&models.Campaign{})

	if search := ctx.URLParamDefault("search", ""); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"lower(title) LIKE lower(?) OR lower(description) LIKE lower(?) OR lower(slug) LIKE lower(?)",
			like, like, like)
	}
	if status := ctx.URLParamDefault("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}
	if createdBy := ctx.URLParamIntDefault("createdBy", 0); createdBy > 0 {
		query = query.Where("created_by_id = ?", createdBy)
	}
	if minRating, err := ctx.URLParamFloat64("minAverageRating"); err == nil && minRating > 0 {
		query = query.Where("average_rating >= ?", minRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var campaigns []models.Campaign
	if err := query.Preload("CreatedBy").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&campaigns).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, campaigns, page, perPage, total)
}

// ManageVerifiedUser bulk-adds or removes allow-listed emails for a campaign.
// Adding an email retroactively marks existing feedback from that registered
// user as verified; removing un-marks it. Each email is processed in sequence
// and failures are reported per item.
func ManageVerifiedUser(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	campaignID := ctx.Params().GetUintDefault("id", 0)
	if campaignID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid campaign ID.", ctx)
		return
	}

	var campaign models.Campaign
	if err := storage.DB.First(&campaign, campaignID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if campaign.CreatedByID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input ManageVerifiedUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if len(input.Emails) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "At least one email is required.", ctx)
		return
	}
	if len(input.Emails) > maxVerifiedUserBatch {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "At most 100 emails per request.", ctx)
		return
	}

	processed := make([]string, 0, len(input.Emails))
	failed := make([]iris.Map, 0)

	for _, rawEmail := range input.Emails {
		email := strings.TrimSpace(strings.ToLower(rawEmail))
		if email == "" {
			failed = append(failed, iris.Map{"email": rawEmail, "reason": "empty email"})
			continue
		}

		var itemErr error
		if input.Action == "add" {
			itemErr = addVerifiedEmail(campaign.ID, email)
		} else {
			itemErr = removeVerifiedEmail(campaign.ID, email)
		}

		if itemErr != nil {
			failed = append(failed, iris.Map{"email": email, "reason": itemErr.Error()})
			continue
		}
		processed = append(processed, email)
	}

	utils.JSONSuccess(ctx, iris.StatusOK, iris.Map{
		"action":    input.Action,
		"processed": processed,
		"failed":    failed,
	})
}

// addVerifiedEmail allow-lists an email and retroactively flags the matching
// registered user's feedback on the campaign as verified.
func addVerifiedEmail(campaignID uint, email string) error {
	var existing models.VerifiedUser
	err := storage.DB.
		Where("campaign_id = ? AND email = ?", campaignID, email).
		First(&existing).Error
	if err == nil {
		return nil // already allow-listed
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	entry := models.VerifiedUser{CampaignID: campaignID, Email: email}
	if err := storage.DB.Create(&entry).Error; err != nil {
		return err
	}

	return setFeedbackVerifiedByEmail(campaignID, email, true)
}

func removeVerifiedEmail(campaignID uint, email string) error {
	if err := storage.DB.
		Where("campaign_id = ? AND email = ?", campaignID, email).
		Delete(&models.VerifiedUser{}).Error; err != nil {
		return err
	}

	return setFeedbackVerifiedByEmail(campaignID, email, false)
}

func setFeedbackVerifiedByEmail(campaignID uint, email string, verified bool) error {
	var user models.User
	err := storage.DB.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil // not registered, nothing to flag
	}
	if err != nil {
		return err
	}

	return storage.DB.Model(&models.Feedback{}).
		Where("campaign_id = ? AND created_by_id = ?", campaignID, user.ID).
		Update("is_verified", verified).Error
}

func slugTaken(slug string, excludeID uint) (bool, error) {
	var count int64
	query := storage.DB.Model(&models.Campaign{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type CreateCampaignInput struct {
	Title          string `json:"title" validate:"required,min=3,max=100"`
	Description    string `json:"description" validate:"required,min=10,max=2000"`
	Link           string `json:"link"`
	Slug           string `json:"slug" validate:"required"`
	BannerURL      string `json:"bannerUrl"`
	AllowAnonymous bool   `json:"allowAnonymous"`
}

type UpdateCampaignInput struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Link           *string `json:"link"`
	Slug           *string `json:"slug"`
	BannerURL      *string `json:"bannerUrl"`
	Status         *string `json:"status"`
	AllowAnonymous *bool   `json:"allowAnonymous"`
}

type ManageVerifiedUserInput struct {
	Action string   `json:"action" validate:"required,oneof=add remove"`
	Emails []string `json:"emails" validate:"required"`
}
