package routes

import (
	"net/http"
	"testing"

	"github.com/irahuldutta02/feed-sync-sub000/models"
)

func TestDashboardAnalytics(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	owner := createTestUser(t, "Owner", "owner@example.com")
	other := createTestUser(t, "Other", "other@example.com")

	active := createTestCampaign(t, owner.ID, "dash-active", models.CampaignStatusActive, true)
	createTestCampaign(t, owner.ID, "dash-draft", models.CampaignStatusDraft, false)
	createTestCampaign(t, other.ID, "dash-foreign", models.CampaignStatusActive, true)

	token := signTestToken(owner.ID, owner.Email)

	resp := doJSON(app, http.MethodPost, "/api/feedback/create", "",
		map[string]interface{}{"campaignId": active.ID, "rating": 4, "feedback": "dashboard data"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("feedback create failed: %d", resp.Code)
	}

	resp = doJSON(app, http.MethodGet, "/api/dashboard/analytics", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	if count := data["campaignCount"].(float64); count != 2 {
		t.Errorf("expected 2 campaigns for the owner, got %v", count)
	}
	if total := data["totalFeedback"].(float64); total != 1 {
		t.Errorf("expected 1 total feedback, got %v", total)
	}
	if avg := data["overallAverage"].(float64); avg != 4 {
		t.Errorf("expected overall average 4, got %v", avg)
	}
	if recent := data["recentFeedback7d"].(float64); recent != 1 {
		t.Errorf("expected 1 recent feedback, got %v", recent)
	}

	// no token
	resp = doJSON(app, http.MethodGet, "/api/dashboard/analytics", "", nil)
	if resp.Code == http.StatusOK {
		t.Error("analytics without token must not return 200")
	}
}
