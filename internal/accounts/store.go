package accounts

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/models"
)

// Store persists accounts. Lookups report ErrNotFound when nothing matches
// and Insert reports ErrEmailTaken on a duplicate email.
type Store interface {
	Insert(ctx context.Context, a *models.Account) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByVerifyToken(ctx context.Context, hash string) (models.Account, error)
	FindByResetToken(ctx context.Context, hash string) (models.Account, error)
	List(ctx context.Context, role models.Role) ([]models.Account, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, p models.Profile, at time.Time) (models.Account, error)
	MarkVerified(ctx context.Context, id primitive.ObjectID, at time.Time) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, hash string, expires time.Time) error
	SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	Insert(ctx context.Context, t *models.RefreshToken) error
	FindActive(ctx context.Context, hash string) (models.RefreshToken, error)
	Revoke(ctx context.Context, id primitive.ObjectID, replacedBy *primitive.ObjectID) error
	RevokeByHash(ctx context.Context, hash string) (bool, error)
	RevokeAll(ctx context.Context, accountID primitive.ObjectID) error
}

// OwnedDataRemover drops everything a company owns once its account is gone.
type OwnedDataRemover interface {
	DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
}
