package utils

import (
	"os"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID and email from the verified
// access token and stores them in the request context.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userEmail", claims.Email)
	ctx.Next()
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(ctx iris.Context) (uint, bool) {
	v := ctx.Values().Get("userID")
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetUserEmail returns the authenticated user's email from the request context.
func GetUserEmail(ctx iris.Context) string {
	if v := ctx.Values().Get("userEmail"); v != nil {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}

// OptionalAccessToken verifies the Authorization header when one is present.
// Returns nil for missing or invalid tokens; routes that allow anonymous
// access use this instead of the verifier middleware.
func OptionalAccessToken(ctx iris.Context) *AccessToken {
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))

	token := verifier.RequestToken(ctx)
	if token == "" {
		return nil
	}

	verifiedToken, err := verifier.VerifyToken([]byte(token))
	if err != nil {
		return nil
	}

	claims := new(AccessToken)
	if err := verifiedToken.Claims(claims); err != nil {
		return nil
	}
	return claims
}
