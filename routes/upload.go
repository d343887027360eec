package routes

import (
	"github.com/google/uuid"
	"github.com/irahuldutta02/feed-sync-sub000/storage"
	"github.com/irahuldutta02/feed-sync-sub000/utils"
	"github.com/kataras/iris/v12"
)

type uploadInput struct {
	Data string `json:"data" validate:"required"` // base64 data URL or raw base64
}

// UploadAvatar proxies a base64 image to Cloudinary and returns the hosted URL.
func UploadAvatar(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	url := storage.UploadBase64Image(in.Data, "avatars/"+uuid.NewString())
	if url == "" {
		utils.CreateError(iris.StatusBadRequest, "Upload Error", "Image upload failed.", ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, iris.Map{"url": url})
}

// UploadAttachment does the same for feedback attachments.
func UploadAttachment(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	url := storage.UploadBase64Image(in.Data, "attachments/"+uuid.NewString())
	if url == "" {
		utils.CreateError(iris.StatusBadRequest, "Upload Error", "Image upload failed.", ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, iris.Map{"url": url})
}
