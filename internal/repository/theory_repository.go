package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/conspiralab/conspiralab/internal/model"
)

// TheoryRepo reads and writes the `theories` collection.
type TheoryRepo struct{ col *mongo.Collection }

func NewTheoryRepo(db *mongo.Database) *TheoryRepo {
	return &TheoryRepo{col: db.Collection("theories")}
}

// Create inserts a theory and fills in its ID and timestamps.
func (r *TheoryRepo) Create(ctx context.Context, t *model.Theory) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugExists
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return nil
}

// List returns the catalog, newest first.
func (r *TheoryRepo) List(ctx context.Context) ([]model.Theory, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []model.Theory{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches a theory by its hex identifier.
func (r *TheoryRepo) GetByID(ctx context.Context, id string) (*model.Theory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var t model.Theory
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update overwrites the mutable fields of a theory and bumps UpdatedAt.
func (r *TheoryRepo) Update(ctx context.Context, id string, title, slug, summary, body string) (*model.Theory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"title":      title,
		"slug":       slug,
		"summary":    summary,
		"body":       body,
		"updated_at": time.Now().UTC(),
	}}
	var t model.Theory
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes a theory. Deleting a missing theory reports ErrNotFound.
func (r *TheoryRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
