package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ecofood/internal/accounts"
	"ecofood/internal/middleware"
	"ecofood/internal/models"
)

func ListAccounts(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/accounts"
		defer handlePanic(c, route)

		role := models.Role(strings.ToLower(strings.TrimSpace(c.Query("role"))))

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := svc.List(ctx, role)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

func CreateAdmin(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/admins"
		defer handlePanic(c, route)

		var in accounts.AdminInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := svc.CreateAdmin(ctx, in)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		if by, ok := middleware.AccountID(c); ok {
			log.Info().Str("route", route).Str("created_by", by.Hex()).Str("account_id", a.ID.Hex()).Msg("admin created")
		}
		c.JSON(http.StatusCreated, a)
	}
}

func UpdateAccount(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/accounts/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}
		var in accounts.ProfileInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := svc.Update(ctx, id, in)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func DeleteAccount(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/accounts/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
	}
}
