package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	storage.PerformMigrations(db)
	storage.DB = db
}

func TestRecalculateCampaignMetrics(t *testing.T) {
	setupTestDB(t)

	owner := models.User{Name: "Owner", Email: "owner@example.com"}
	storage.DB.Create(&owner)
	campaign := models.Campaign{
		Title:       "Metrics",
		Description: "Metrics recompute test campaign.",
		Slug:        "metrics-test",
		Status:      models.CampaignStatusActive,
		CreatedByID: owner.ID,
	}
	storage.DB.Create(&campaign)

	// no feedback yet: zero values
	if err := RecalculateCampaignMetrics(campaign.ID); err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}
	var c models.Campaign
	storage.DB.First(&c, campaign.ID)
	if c.FeedbackCount != 0 || c.AverageRating != 0 {
		t.Fatalf("empty campaign: expected 0/0, got %d/%v", c.FeedbackCount, c.AverageRating)
	}

	ratings := []int{5, 3, 1}
	for _, r := range ratings {
		fb := models.Feedback{
			CampaignID:   campaign.ID,
			Rating:       r,
			FeedbackText: "rated",
			Status:       models.FeedbackStatusActive,
		}
		storage.DB.Create(&fb)
	}
	deletedFb := models.Feedback{
		CampaignID:   campaign.ID,
		Rating:       1,
		FeedbackText: "ignored",
		Status:       models.FeedbackStatusDeleted,
	}
	storage.DB.Create(&deletedFb)

	if err := RecalculateCampaignMetrics(campaign.ID); err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}
	storage.DB.First(&c, campaign.ID)
	if c.FeedbackCount != 3 {
		t.Errorf("expected count 3 (deleted excluded), got %d", c.FeedbackCount)
	}
	if c.AverageRating != 3.0 {
		t.Errorf("expected average 3.0, got %v", c.AverageRating)
	}

	// deleting everything resets the metrics to zero
	storage.DB.Model(&models.Feedback{}).
		Where("campaign_id = ?", campaign.ID).
		Update("status", models.FeedbackStatusDeleted)
	if err := RecalculateCampaignMetrics(campaign.ID); err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}
	storage.DB.First(&c, campaign.ID)
	if c.FeedbackCount != 0 || c.AverageRating != 0 {
		t.Errorf("all deleted: expected 0/0, got %d/%v", c.FeedbackCount, c.AverageRating)
	}
}
