package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/irahuldutta02/feed-sync-sub000/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testaccesssecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testrefreshsecret")
	os.Exit(m.Run())
}

// setupTestDB swaps storage.DB for a fresh in-memory sqlite database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// a single connection so every query sees the same :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	storage.PerformMigrations(db)
	storage.DB = db
}

// buildTestApp wires the same routes as main with a JWT verifier.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", Register)
		auth.Post("/login", Login)
		auth.Get("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, GetProfile)
		auth.Patch("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, UpdateProfile)
	}

	campaign := app.Party("/api/campaign")
	{
		campaign.Post("/create", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateCampaign)
		campaign.Patch("/update/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, UpdateCampaign)
		campaign.Get("/detail/{id}", CampaignDetail)
		campaign.Get("/paginated_list", CampaignPaginatedList)
		campaign.Post("/manage_verified_user/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, ManageVerifiedUser)
	}

	feedback := app.Party("/api/feedback")
	{
		feedback.Post("/create", CreateFeedback)
		feedback.Patch("/update/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, UpdateFeedback)
		feedback.Get("/detail/{id:uint}", FeedbackDetail)
		feedback.Get("/paginated_list", FeedbackPaginatedList)
		feedback.Delete("/mark_feedback_deleted/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, MarkFeedbackDeleted)
		feedback.Put("/upvote_downvote/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, UpvoteDownvote)
		feedback.Get("/user-feedback/{campaignId:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, UserFeedbackForCampaign)
	}

	dashboard := app.Party("/api/dashboard")
	{
		dashboard.Get("/analytics", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, DashboardAnalytics)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app
}

// signTestToken returns a signed access token for the given user.
func signTestToken(id uint, email string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Email: email})
	return string(token)
}

// doJSON performs a request against the test app and returns the recorder.
func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func createTestUser(t *testing.T, name, email string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "x"}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestCampaign(t *testing.T, ownerID uint, slug, status string, allowAnonymous bool) models.Campaign {
	t.Helper()
	campaign := models.Campaign{
		Title:          "Test Campaign " + slug,
		Description:    "A campaign used by the test suite.",
		Slug:           slug,
		Status:         status,
		AllowAnonymous: allowAnonymous,
		CreatedByID:    ownerID,
	}
	if err := storage.DB.Create(&campaign).Error; err != nil {
		t.Fatalf("failed to create test campaign: %v", err)
	}
	return campaign
}

func fetchCampaign(t *testing.T, id uint) models.Campaign {
	t.Helper()
	var campaign models.Campaign
	if err := storage.DB.First(&campaign, id).Error; err != nil {
		t.Fatalf("failed to fetch campaign %d: %v", id, err)
	}
	return campaign
}

func fetchFeedback(t *testing.T, id uint) models.Feedback {
	t.Helper()
	var feedback models.Feedback
	if err := storage.DB.First(&feedback, id).Error; err != nil {
		t.Fatalf("failed to fetch feedback %d: %v", id, err)
	}
	return feedback
}
