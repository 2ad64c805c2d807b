package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Theory is a catalog article in the `theories` collection.
//
// Fields:
//  ID        – Mongo ObjectID (_id).
//  Title     – headline shown in the catalog.
//  Slug      – URL-safe identifier derived from the title, unique.
//  Summary   – short teaser used on list pages.
//  Body      – full article text.
//  AuthorID  – the admin who created the entry.
//  CreatedAt – set at insert.
//  UpdatedAt – bumped on every mutation.
type Theory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Slug      string             `bson:"slug" json:"slug"`
	Summary   string             `bson:"summary" json:"summary"`
	Body      string             `bson:"body" json:"body"`
	AuthorID  primitive.ObjectID `bson:"author_id,omitempty" json:"author_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
