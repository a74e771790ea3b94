package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecofood/internal/catalog"
	"ecofood/internal/models"
)

// ProductStore is the mongo-backed catalog.Store.
type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(ProductsCollection)}
}

func (s *ProductStore) Find(ctx context.Context, c catalog.Criteria) ([]models.Product, error) {
	opts := options.Find().SetSort(sortFor(c))
	if c.Limit > 0 {
		opts.SetLimit(int64(c.Limit))
	}

	cursor, err := s.coll.Find(ctx, filterFor(c), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) Count(ctx context.Context, c catalog.Criteria) (int64, error) {
	c.After = nil
	return s.coll.CountDocuments(ctx, filterFor(c))
}

func (s *ProductStore) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, catalog.ErrNotFound
	}
	return p, err
}

func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		p.ID = primitive.NilObjectID
		return err
	}
	return nil
}

// Update matches on id and owner in one call and returns the stored
// document after the change.
func (s *ProductStore) Update(ctx context.Context, p models.Product) (models.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":           p.Name,
		"description":    p.Description,
		"quantity":       p.Quantity,
		"price":          p.Price,
		"productionDate": p.ProductionDate,
		"expirationDate": p.ExpirationDate,
		"status":         p.Status,
		"updatedAt":      p.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": p.ID, "ownerId": p.OwnerID}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, catalog.ErrNotFound
	}
	return updated, err
}

func (s *ProductStore) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every product of one owner, used when a company
// account is deleted.
func (s *ProductStore) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func filterFor(c catalog.Criteria) bson.D {
	filter := bson.D{{Key: "ownerId", Value: c.OwnerID}}
	if c.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: c.Status})
	}
	if c.NamePrefix != "" {
		lo, hi := c.NameRange()
		filter = append(filter, bson.E{Key: "name", Value: bson.M{"$gte": lo, "$lt": hi}})
	}
	if c.After != nil {
		op := "$gt"
		if !c.Ascending {
			op = "$lt"
		}
		field := string(c.Sort)
		value := c.After.Value()
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{field: bson.M{op: value}},
			bson.M{field: value, "_id": bson.M{op: c.After.ID}},
		}})
	}
	return filter
}

func sortFor(c catalog.Criteria) bson.D {
	dir := 1
	if !c.Ascending {
		dir = -1
	}
	field := string(c.Sort)
	if field == "" {
		field = string(catalog.SortByName)
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
