package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/irahuldutta02/feed-sync-sub000/routes"
	"github.com/irahuldutta02/feed-sync-sub000/services"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/irahuldutta02/feed-sync-sub000/utils"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/api/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": iris.StatusOK, "error": false, "message": "ok"})
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Post("/google", routes.GoogleLoginOrSignUp)
		auth.Post("/github", routes.GithubLoginOrSignUp)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		auth.Get("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetProfile)
		auth.Patch("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateProfile)
	}

	campaign := app.Party("/api/campaign")
	{
		campaign.Post("/create", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateCampaign)
		campaign.Patch("/update/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateCampaign)
		campaign.Get("/detail/{id}", routes.CampaignDetail)
		campaign.Get("/paginated_list", routes.CampaignPaginatedList)
		campaign.Post("/manage_verified_user/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ManageVerifiedUser)
	}

	feedback := app.Party("/api/feedback")
	{
		// create stays outside the verifier so anonymous submissions reach
		// the handler; the token is read optionally there
		feedback.Post("/create", routes.CreateFeedback)
		feedback.Patch("/update/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateFeedback)
		feedback.Get("/detail/{id:uint}", routes.FeedbackDetail)
		feedback.Get("/paginated_list", routes.FeedbackPaginatedList)
		feedback.Delete("/mark_feedback_deleted/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkFeedbackDeleted)
		feedback.Put("/upvote_downvote/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpvoteDownvote)
		feedback.Get("/user-feedback/{campaignId:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UserFeedbackForCampaign)
	}

	upload := app.Party("/api/upload")
	{
		upload.Post("/avatar", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UploadAvatar)
		upload.Post("/attachment", routes.UploadAttachment)
	}

	dashboard := app.Party("/api/dashboard")
	{
		dashboard.Get("/analytics", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DashboardAnalytics)
	}

	services.StartKeepAlive()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	app.Listen(":" + port)
}
