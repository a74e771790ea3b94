package accounts

import (
	"context"

	"github.com/rs/zerolog/log"

	"ecofood/internal/models"
)

// Notifier hands out verification and password reset tokens to the
// account holder.
type Notifier interface {
	SendVerification(ctx context.Context, a models.Account, token string) error
	SendPasswordReset(ctx context.Context, a models.Account, token string) error
}

// LogNotifier writes tokens to the log instead of mailing them.
type LogNotifier struct{}

func (LogNotifier) SendVerification(_ context.Context, a models.Account, token string) error {
	log.Info().
		Str("account_id", a.ID.Hex()).
		Str("email", a.Email).
		Str("token", token).
		Msg("verification token issued")
	return nil
}

func (LogNotifier) SendPasswordReset(_ context.Context, a models.Account, token string) error {
	log.Info().
		Str("account_id", a.ID.Hex()).
		Str("email", a.Email).
		Str("token", token).
		Msg("password reset token issued")
	return nil
}
