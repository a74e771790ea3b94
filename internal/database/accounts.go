package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecofood/internal/accounts"
	"ecofood/internal/models"
)

// AccountStore is the mongo-backed accounts.Store.
type AccountStore struct {
	coll *mongo.Collection
}

func NewAccountStore(db *mongo.Database) *AccountStore {
	return &AccountStore{coll: db.Collection(AccountsCollection)}
}

func (s *AccountStore) Insert(ctx context.Context, a *models.Account) error {
	a.ID = primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, a); err != nil {
		a.ID = primitive.NilObjectID
		if mongo.IsDuplicateKeyError(err) {
			return accounts.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *AccountStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *AccountStore) FindByVerifyToken(ctx context.Context, hash string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"verifyTokenHash": hash})
}

func (s *AccountStore) FindByResetToken(ctx context.Context, hash string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"resetTokenHash": hash})
}

func (s *AccountStore) List(ctx context.Context, role models.Role) ([]models.Account, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Account{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AccountStore) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"role": role})
}

func (s *AccountStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, p models.Profile, at time.Time) (models.Account, error) {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"companyName": p.CompanyName,
		"legalName":   p.LegalName,
		"taxId":       p.TaxID,
		"address":     p.Address,
		"commune":     p.Commune,
		"phone":       p.Phone,
		"updatedAt":   at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.Account
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Account{}, accounts.ErrNotFound
	}
	return a, err
}

func (s *AccountStore) MarkVerified(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return s.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"emailVerified": true, "updatedAt": at},
		"$unset": bson.M{"verifyTokenHash": "", "verifyExpiresAt": ""},
	})
}

func (s *AccountStore) SetResetToken(ctx context.Context, id primitive.ObjectID, hash string, expires time.Time) error {
	return s.updateByID(ctx, id, bson.M{
		"$set": bson.M{"resetTokenHash": hash, "resetExpiresAt": expires},
	})
}

// SetPassword also consumes any pending reset token.
func (s *AccountStore) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string, at time.Time) error {
	return s.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"passwordHash": passwordHash, "updatedAt": at},
		"$unset": bson.M{"resetTokenHash": "", "resetExpiresAt": ""},
	})
}

func (s *AccountStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func (s *AccountStore) findOne(ctx context.Context, filter bson.M) (models.Account, error) {
	var a models.Account
	err := s.coll.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Account{}, accounts.ErrNotFound
	}
	return a, err
}

func (s *AccountStore) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return accounts.ErrNotFound
	}
	return nil
}
