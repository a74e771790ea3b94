package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecofood/internal/accounts"
	"ecofood/internal/catalog"
	"ecofood/internal/middleware"
)

const requestTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Error().
			Str("route", route).
			Str("request_id", middleware.GetRequestID(c)).
			Interface("panic", r).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Str("route", route).
		Str("request_id", middleware.GetRequestID(c)).
		Int("status", status).
		Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondValidationError renders binding, validator and catalog validation
// failures as 400 with per-field details.
func respondValidationError(c *gin.Context, err error) {
	var catalogErr *catalog.ValidationError
	if errors.As(err, &catalogErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": catalogErr.Details(),
		})
		return
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required", "required_if":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

// respondServiceError maps domain errors to status codes. Anything unknown
// is a store failure.
func respondServiceError(c *gin.Context, route string, err error) {
	var catalogErr *catalog.ValidationError
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &catalogErr), errors.As(err, &validationErrors):
		respondValidationError(c, err)
	case errors.Is(err, catalog.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, "product not found")
	case errors.Is(err, accounts.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, "account not found")
	case errors.Is(err, accounts.ErrEmailTaken):
		respondWithError(c, http.StatusConflict, route, "email already registered")
	case errors.Is(err, accounts.ErrInvalidCredentials):
		respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
	case errors.Is(err, accounts.ErrEmailNotVerified):
		respondWithError(c, http.StatusForbidden, route, "email not verified")
	case errors.Is(err, accounts.ErrProtectedAccount):
		respondWithError(c, http.StatusForbidden, route, "principal admin cannot be modified")
	case errors.Is(err, accounts.ErrInvalidToken):
		respondWithError(c, http.StatusUnauthorized, route, "invalid token")
	case errors.Is(err, accounts.ErrTokenExpired):
		respondWithError(c, http.StatusUnauthorized, route, "token expired")
	case errors.Is(err, accounts.ErrUnknownRole):
		respondWithError(c, http.StatusBadRequest, route, "unknown role")
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		log.Error().Err(err).Str("route", route).Msg("store unreachable")
		respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
	default:
		log.Error().Err(err).Str("route", route).Msg("store failure")
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}

func parseObjectID(c *gin.Context, route, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param(param)))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

func currentAccount(c *gin.Context, route string) (primitive.ObjectID, bool) {
	id, ok := middleware.AccountID(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
		return primitive.NilObjectID, false
	}
	return id, true
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
