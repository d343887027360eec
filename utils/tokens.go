package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/irahuldutta02/feed-sync-sub000/models"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

// AccessToken is the claims payload carried by access tokens.
type AccessToken struct {
	ID    uint   `json:"ID"`
	Email string `json:"email"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateTokenPair signs an access/refresh pair and registers the refresh
// token in Redis so it can be rotated exactly once.
func CreateTokenPair(id uint) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	userID := strconv.FormatUint(uint64(id), 10)
	refreshClaims := jwt.Claims{Subject: userID}

	// Embed the email so handlers can match the verified-user allow-list
	// without a user lookup per request.
	email := ""
	var u models.User
	if err := storage.DB.Select("id, email").First(&u, id).Error; err == nil {
		email = u.Email
	}

	accessTokenClaims := AccessToken{
		ID:    id,
		Email: email,
	}

	accessToken, err := accessTokenSigner.Sign(accessTokenClaims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	if storage.Redis != nil {
		storage.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)
	}

	return &tokenPair, nil
}

// RefreshToken rotates a verified refresh token: the presented token is
// invalidated and a fresh pair is issued.
func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)

	if storage.Redis != nil {
		validToken, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()
		if tokenErr != nil || validToken != "true" {
			CreateError(iris.StatusForbidden, "Forbidden", "Refresh token is no longer valid.", ctx)
			return
		}
		storage.Redis.Del(bgContext, tokenStr)
	}

	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(uint(userID))
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"status": iris.StatusOK,
		"error":  false,
		"data": iris.Map{
			"accessToken":  string(tokenPair.AccessToken),
			"refreshToken": string(tokenPair.RefreshToken),
		},
	})
}
