package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionIndexes declares the schema constraints the application relies
// on: uniqueness that check-then-insert alone cannot guarantee under
// concurrent requests, and the TTL sweep for session documents.
func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"submissions": {
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "assignment_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"quiz_attempts": {
			{
				Keys:    bson.D{{Key: "quiz_id", Value: 1}, {Key: "student_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"sessions": {
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range collectionIndexes() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
