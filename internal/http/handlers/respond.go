package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope: {"code":0,"data":...} on
// success, {"code":-1,"data":{"code","description",...}} on failure.

type ErrorBody struct {
	Code        string       `json:"code"`
	Description string       `json:"description"`
	Fields      []FieldError `json:"fields,omitempty"`
}

func RespondData(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, gin.H{
		"code": 0,
		"data": data,
	})
}

func RespondError(ctx *gin.Context, status int, body ErrorBody) {
	ctx.JSON(status, gin.H{
		"code": -1,
		"data": body,
	})
}

func RespondInternal(ctx *gin.Context, description string) {
	RespondError(ctx, http.StatusInternalServerError, ErrorBody{
		Code:        "internal_server_error",
		Description: description,
	})
}
