package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProductsCollection      = "products"
	AccountsCollection      = "accounts"
	RefreshTokensCollection = "refresh_tokens"
)

// EnsureProductIndexes covers every listing order: each sort key is
// followed by _id so cursor conditions resolve on the index.
func EnsureProductIndexes(db *mongo.Database) error {
	return ensureIndexes(db, ProductsCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("owner_name_id"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "price", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("owner_price_id"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("owner_status_name_id"),
		},
	})
}

func EnsureAccountIndexes(db *mongo.Database) error {
	return ensureIndexes(db, AccountsCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role_index"),
		},
		{
			Keys: bson.D{{Key: "verifyTokenHash", Value: 1}},
			Options: options.Index().
				SetName("verify_token").
				SetPartialFilterExpression(bson.M{"verifyTokenHash": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "resetTokenHash", Value: 1}},
			Options: options.Index().
				SetName("reset_token").
				SetPartialFilterExpression(bson.M{"resetTokenHash": bson.M{"$exists": true}}),
		},
	})
}

// EnsureTokenIndexes lets mongo drop refresh tokens once they expire.
func EnsureTokenIndexes(db *mongo.Database) error {
	return ensureIndexes(db, RefreshTokensCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tokenHash", Value: 1}},
			Options: options.Index().SetName("token_hash"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("expires_ttl").SetExpireAfterSeconds(0),
		},
	})
}

func ensureIndexes(db *mongo.Database, collection string, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := log.With().Str("collection", collection).Logger()
	logger.Debug().Int("count", len(models)).Msg("creating indexes")
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		logger.Error().Err(err).Msg("index creation failed")
		return err
	}
	logger.Info().Strs("indexes", names).Msg("indexes ensured")
	return nil
}
