package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The wire shapes here are the legacy contract consumed by the
// console: flat {"message"} bodies, plus the raw error text on 500s.

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"message": message,
	})
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondMessage(ctx, http.StatusNotFound, message)
}

func RespondServerError(ctx *gin.Context, message string, err error) {
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"message": message,
		"error":   err.Error(),
	})
}

func RespondUnAuthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": message,
	})
}

// RespondUnprocessable carries field-level validation details. The
// status mirrors the framework-level 422 the previous backend emitted.
func RespondUnprocessable(ctx *gin.Context, message string, details interface{}) {
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": message,
		"errors":  details,
	})
}
