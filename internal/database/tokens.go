package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecofood/internal/accounts"
	"ecofood/internal/models"
)

// TokenStore is the mongo-backed accounts.TokenStore.
type TokenStore struct {
	coll *mongo.Collection
}

func NewTokenStore(db *mongo.Database) *TokenStore {
	return &TokenStore{coll: db.Collection(RefreshTokensCollection)}
}

func (s *TokenStore) Insert(ctx context.Context, t *models.RefreshToken) error {
	t.ID = primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, t); err != nil {
		t.ID = primitive.NilObjectID
		return err
	}
	return nil
}

func (s *TokenStore) FindActive(ctx context.Context, hash string) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := s.coll.FindOne(ctx, bson.M{"tokenHash": hash, "revoked": false}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RefreshToken{}, accounts.ErrNotFound
	}
	return t, err
}

func (s *TokenStore) Revoke(ctx context.Context, id primitive.ObjectID, replacedBy *primitive.ObjectID) error {
	set := bson.M{"revoked": true}
	if replacedBy != nil {
		set["replacedByToken"] = *replacedBy
	}
	_, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *TokenStore) RevokeByHash(ctx context.Context, hash string) (bool, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{
		"tokenHash": hash,
		"revoked":   false,
	}, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *TokenStore) RevokeAll(ctx context.Context, accountID primitive.ObjectID) error {
	_, err := s.coll.UpdateMany(ctx, bson.M{
		"accountId": accountID,
		"revoked":   false,
	}, bson.M{"$set": bson.M{"revoked": true}})
	return err
}
