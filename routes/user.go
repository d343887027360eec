package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/irahuldutta02/feed-sync-sub000/utils"
	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const googleJWKSEndpoint = "https://www.googleapis.com/oauth2/v3/certs"

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser = models.User{
		Name:        userInput.Name,
		Email:       strings.ToLower(userInput.Email),
		Password:    hashedPassword,
		SocialLogin: false}

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.SocialLogin && existingUser.Password == "" {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Social Login Account", ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

// GoogleLoginOrSignUp verifies a Google ID token against Google's JWKS and
// finds or creates the matching account. An existing account with the same
// email gets the Google ID linked onto it.
func GoogleLoginOrSignUp(ctx iris.Context) {
	var userInput GoogleUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	jwks, jwksErr := keyfunc.Get(googleJWKSEndpoint, keyfunc.Options{})
	if jwksErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	token, tokenErr := jwt.Parse(userInput.IDToken, jwks.Keyfunc)
	if tokenErr != nil || !token.Valid {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid Google identity token.", ctx)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid Google identity token.", ctx)
		return
	}

	googleID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)

	if googleID == "" || email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Google token is missing identity claims.", ctx)
		return
	}

	user, findErr := findOrCreateSocialUser(socialIdentity{
		Provider:   "Google",
		ProviderID: googleID,
		Email:      email,
		Name:       name,
		AvatarURL:  picture,
	})
	if findErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(*user, ctx)
}

// GithubLoginOrSignUp exchanges a GitHub OAuth access token against the
// GitHub user API. Private emails fall back to the /user/emails endpoint.
func GithubLoginOrSignUp(ctx iris.Context) {
	var userInput GithubUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	githubUser, githubErr := fetchGithubUser(userInput.AccessToken)
	if githubErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid GitHub access token.", ctx)
		return
	}

	if githubUser.Email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "GitHub account has no accessible email.", ctx)
		return
	}

	name := githubUser.Name
	if name == "" {
		name = githubUser.Login
	}

	user, findErr := findOrCreateSocialUser(socialIdentity{
		Provider:   "GitHub",
		ProviderID: strconv.FormatInt(githubUser.ID, 10),
		Email:      githubUser.Email,
		Name:       name,
		AvatarURL:  githubUser.AvatarURL,
	})
	if findErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(*user, ctx)
}

func GetProfile(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, user)
}

func UpdateProfile(ctx iris.Context) {
	userID, ok := utils.GetUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Login required.", ctx)
		return
	}

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, user)
}

type socialIdentity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// findOrCreateSocialUser resolves a provider identity to a local account:
// match by provider ID first, then by email (linking the provider ID),
// otherwise create a fresh account.
func findOrCreateSocialUser(identity socialIdentity) (*models.User, error) {
	providerColumn := "google_id"
	if identity.Provider == "GitHub" {
		providerColumn = "github_id"
	}

	var user models.User
	err := storage.DB.Where(providerColumn+" = ?", identity.ProviderID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	userExists, userExistsErr := getAndHandleUserExists(&user, identity.Email)
	if userExistsErr != nil {
		return nil, userExistsErr
	}

	if userExists {
		if identity.Provider == "GitHub" {
			user.GithubID = identity.ProviderID
		} else {
			user.GoogleID = identity.ProviderID
		}
		if user.AvatarURL == "" {
			user.AvatarURL = identity.AvatarURL
		}
		if saveErr := storage.DB.Save(&user).Error; saveErr != nil {
			return nil, saveErr
		}
		return &user, nil
	}

	user = models.User{
		Name:           identity.Name,
		Email:          strings.ToLower(identity.Email),
		AvatarURL:      identity.AvatarURL,
		SocialLogin:    true,
		SocialProvider: identity.Provider,
	}
	if identity.Provider == "GitHub" {
		user.GithubID = identity.ProviderID
	} else {
		user.GoogleID = identity.ProviderID
	}

	if createErr := storage.DB.Create(&user).Error; createErr != nil {
		return nil, createErr
	}
	return &user, nil
}

type githubUserRes struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func fetchGithubUser(accessToken string) (*githubUserRes, error) {
	body, err := githubGet("https://api.github.com/user", accessToken)
	if err != nil {
		return nil, err
	}

	var githubUser githubUserRes
	if err := json.Unmarshal(body, &githubUser); err != nil {
		return nil, err
	}

	if githubUser.Email == "" {
		emailsBody, emailsErr := githubGet("https://api.github.com/user/emails", accessToken)
		if emailsErr == nil {
			var emails []struct {
				Email    string `json:"email"`
				Primary  bool   `json:"primary"`
				Verified bool   `json:"verified"`
			}
			if json.Unmarshal(emailsBody, &emails) == nil {
				for _, e := range emails {
					if e.Primary && e.Verified {
						githubUser.Email = e.Email
						break
					}
				}
			}
		}
	}

	return &githubUser, nil
}

func githubGet(endpoint string, accessToken string) ([]byte, error) {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api returned status %d", res.StatusCode)
	}

	return io.ReadAll(res.Body)
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)
	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}
	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"status": iris.StatusOK,
		"error":  false,
		"data": iris.Map{
			"ID":           user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"avatarURL":    user.AvatarURL,
			"accessToken":  string(tokenPair.AccessToken),
			"refreshToken": string(tokenPair.RefreshToken),
		},
	})
}

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,max=256,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleUserInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

type GithubUserInput struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

type UpdateProfileInput struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarURL"`
}
