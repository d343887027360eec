package routes

import (
	"net/http"
	"testing"

	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
)

func TestRegisterLoginFlow(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	resp := doJSON(app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Rahul",
		"email":    "rahul@example.com",
		"password": "supersecret1",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	if data["accessToken"] == "" || data["refreshToken"] == "" {
		t.Fatal("register should return a token pair")
	}

	var user models.User
	if err := storage.DB.Where("email = ?", "rahul@example.com").First(&user).Error; err != nil {
		t.Fatalf("registered user not persisted: %v", err)
	}
	if user.Password == "supersecret1" {
		t.Fatal("password must be stored hashed")
	}

	// duplicate email
	resp = doJSON(app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Rahul Again",
		"email":    "rahul@example.com",
		"password": "supersecret1",
	})
	if resp.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", resp.Code)
	}

	// wrong password
	resp = doJSON(app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "rahul@example.com",
		"password": "wrongpassword",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", resp.Code)
	}

	// correct password
	resp = doJSON(app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "rahul@example.com",
		"password": "supersecret1",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	// short password
	resp := doJSON(app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Short",
		"email":    "short@example.com",
		"password": "short",
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("short password: expected 400, got %d", resp.Code)
	}

	// invalid email
	resp = doJSON(app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Bad Email",
		"email":    "not-an-email",
		"password": "supersecret1",
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("invalid email: expected 400, got %d", resp.Code)
	}
}

func TestLoginRejectsSocialOnlyAccount(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	social := models.User{
		Name:           "Social",
		Email:          "social@example.com",
		SocialLogin:    true,
		SocialProvider: "Google",
		GoogleID:       "google-sub-1",
	}
	if err := storage.DB.Create(&social).Error; err != nil {
		t.Fatalf("failed to create social user: %v", err)
	}

	resp := doJSON(app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "social@example.com",
		"password": "whatever123",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for social-only account, got %d", resp.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	user := createTestUser(t, "Before", "profile@example.com")
	token := signTestToken(user.ID, user.Email)

	resp := doJSON(app, http.MethodGet, "/api/auth/profile", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("profile get: expected 200, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodPatch, "/api/auth/profile", token, map[string]interface{}{
		"name":      "After",
		"avatarURL": "https://res.cloudinary.com/demo/avatar.png",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("profile update: expected 200, got %d", resp.Code)
	}

	var updated models.User
	storage.DB.First(&updated, user.ID)
	if updated.Name != "After" {
		t.Errorf("profile update not applied, name is %q", updated.Name)
	}

	// no token
	resp = doJSON(app, http.MethodGet, "/api/auth/profile", "", nil)
	if resp.Code == http.StatusOK {
		t.Error("profile without token must not return 200")
	}
}
