// Package schema provisions the MongoDB collections: validation rules
// and the indexes the query layer depends on.
package schema

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections creates the users, posts and categories collections
// with their validation rules, then provisions indexes. Collections
// that already exist are left alone.
func EnsureCollections(ctx context.Context, db *mongo.Database) error {
	collections := map[string]bson.M{
		"users":      userSchema,
		"posts":      postSchema,
		"categories": categorySchema,
	}

	for name, validator := range collections {
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			var cmdErr mongo.CommandError
			if errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
				continue
			}
			return err
		}
		log.Printf("Collection %s created with validation", name)
	}

	return ensureIndexes(ctx, db)
}

// ensureIndexes provisions every index the query layer relies on
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return err
	}

	posts := []mongo.IndexModel{
		{Keys: bson.D{{Key: "authorId", Value: 1}}},
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "publishedAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "rating.likes", Value: -1}}},
		{Keys: bson.D{{Key: "views", Value: -1}}},
		{
			// Weighted text index backing the full-text search
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}},
			Options: options.Index().
				SetName("text_search_index").
				SetWeights(bson.M{"title": 10, "content": 5}),
		},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	}
	if _, err := db.Collection("posts").Indexes().CreateMany(ctx, posts); err != nil {
		return err
	}

	categories := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := db.Collection("categories").Indexes().CreateMany(ctx, categories); err != nil {
		return err
	}

	log.Println("All indexes created.")
	return nil
}
