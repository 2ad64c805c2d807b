package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a remark attached to a theory, stored in the `comments`
// collection. AuthorName is denormalized at write time so list pages do not
// need a join back to users.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TheoryID   primitive.ObjectID `bson:"theory_id" json:"theory_id"`
	AuthorID   primitive.ObjectID `bson:"author_id,omitempty" json:"author_id,omitempty"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
