package utils

import (
	"abs/src/types"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

func IsStaff(role string) bool {
	return role == "staff" || role == "admin"
}

// AbortWithDomainError maps the error taxonomy onto HTTP statuses and
// surfaces the specific reason to the caller.
func AbortWithDomainError(ctx *gin.Context, err error) {
	var validation *types.ValidationError
	var notFound *types.NotFoundError
	var conflict *types.ConflictError
	var authz *types.AuthorizationError
	switch {
	case errors.As(err, &validation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &authz):
		ctx.JSON(http.StatusForbidden, gin.H{"error": authz.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.Status(http.StatusNotFound)
	default:
		log.Printf("Could not complete request: %s\n", err.Error())
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
	}
}
