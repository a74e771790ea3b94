package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/accounts"
	"ecofood/internal/models"
)

// AccountService is the identity collaborator as seen by handlers.
type AccountService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (models.Account, error)
	CreateAdmin(ctx context.Context, in accounts.AdminInput) (models.Account, error)
	Login(ctx context.Context, email, password string) (models.Account, accounts.Tokens, error)
	Refresh(ctx context.Context, plain string) (models.Account, accounts.Tokens, error)
	Logout(ctx context.Context, plain string) error
	VerifyEmail(ctx context.Context, plain string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, plain, password string) error
	Get(ctx context.Context, id primitive.ObjectID) (models.Account, error)
	List(ctx context.Context, role models.Role) ([]models.Account, error)
	Update(ctx context.Context, id primitive.ObjectID, in accounts.ProfileInput) (models.Account, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	accounts.Tokens
	Account models.Account `json:"account"`
}

func Register(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var in accounts.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := svc.Register(ctx, in)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "account registered, check your email to verify it",
			"account": a,
		})
	}
}

func Login(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		a, tokens, err := svc.Login(ctx, req.Email, req.Password)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		log.Info().Str("route", route).Str("account_id", a.ID.Hex()).Msg("login succeeded")
		c.JSON(http.StatusOK, authResponse{Tokens: tokens, Account: a})
	}
}

func Refresh(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/refresh"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		a, tokens, err := svc.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, authResponse{Tokens: tokens, Account: a})
	}
}

func Logout(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/logout"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.Logout(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func VerifyEmail(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/verify"
		defer handlePanic(c, route)

		var req TokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.VerifyEmail(ctx, strings.TrimSpace(req.Token)); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	}
}

// RequestPasswordReset answers the same way whether or not the email is
// registered.
func RequestPasswordReset(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/password-reset"
		defer handlePanic(c, route)

		var req PasswordResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.RequestPasswordReset(ctx, req.Email); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "if the email is registered, a reset link was sent"})
	}
}

func ConfirmPasswordReset(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/password-reset/confirm"
		defer handlePanic(c, route)

		var req PasswordResetConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.ResetPassword(ctx, strings.TrimSpace(req.Token), req.Password); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func GetMe(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, route)

		id, ok := currentAccount(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := svc.Get(ctx, id)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// UpdateMe lets a signed-in account edit its own profile.
func UpdateMe(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /auth/me"
		defer handlePanic(c, route)

		id, ok := currentAccount(c, route)
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
