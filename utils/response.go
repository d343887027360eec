package utils

import (
	"github.com/kataras/iris/v12"
)

// Pagination is the paging block attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// JSONSuccess writes the uniform success envelope.
func JSONSuccess(ctx iris.Context, status int, data interface{}) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"status": status,
		"error":  false,
		"data":   data,
	})
}

// JSONSuccessMessage writes a success envelope carrying only a message.
func JSONSuccessMessage(ctx iris.Context, status int, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"status":  status,
		"error":   false,
		"message": message,
	})
}

// JSONPage writes a success envelope with pagination metadata.
func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	ctx.JSON(iris.Map{
		"status":     iris.StatusOK,
		"error":      false,
		"data":       data,
		"pagination": Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages},
	})
}

// CreateError writes the uniform error envelope.
func CreateError(status int, title string, detail string, ctx iris.Context) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"status":  status,
		"error":   true,
		"title":   title,
		"message": detail,
	})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(
		iris.StatusInternalServerError,
		"Internal Server Error",
		"An unexpected error occurred.",
		ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(
		iris.StatusNotFound,
		"Not Found",
		"The requested resource was not found.",
		ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(
		iris.StatusForbidden,
		"Forbidden",
		"You do not have permission to perform this action.",
		ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(
		iris.StatusConflict,
		"Conflict",
		"Email already registered.",
		ctx)
}
