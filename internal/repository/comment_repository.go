package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/conspiralab/conspiralab/internal/model"
)

// CommentRepo reads and writes the `comments` collection.
type CommentRepo struct{ col *mongo.Collection }

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{col: db.Collection("comments")}
}

// Add inserts a comment and fills in its ID and timestamp.
func (r *CommentRepo) Add(ctx context.Context, cm *model.Comment) error {
	cm.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, cm)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cm.ID = oid
	}
	return nil
}

// ListByTheory returns the comments of a theory, oldest first.
func (r *CommentRepo) ListByTheory(ctx context.Context, theoryID string) ([]model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(theoryID)
	if err != nil {
		return nil, ErrNotFound
	}
	cur, err := r.col.Find(ctx, bson.M{"theory_id": oid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []model.Comment{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a single comment.
func (r *CommentRepo) Delete(ctx context.Context, id string) error {
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

// DeleteByTheory removes every comment attached to a theory. Used when the
// theory itself is deleted.
func (r *CommentRepo) DeleteByTheory(ctx context.Context, theoryID string) error {
	oid, err := primitive.ObjectIDFromHex(theoryID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"theory_id": oid})
	return err
}
