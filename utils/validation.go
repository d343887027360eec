package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// HandleValidationErrors maps ctx.ReadJSON failures onto the 400 envelope.
// Validator tag failures are reported per field; anything else is treated as
// a malformed body.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			fields = append(fields, fieldErr.Field()+" failed on "+fieldErr.Tag())
		}
		CreateError(iris.StatusBadRequest, "Validation Error", strings.Join(fields, "; "), ctx)
		return
	}

	CreateError(iris.StatusBadRequest, "Validation Error", "Invalid request body.", ctx)
}
