package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	usersCollection     = "users"
	leadsCollection     = "leads"
	templatesCollection = "emailtemplates"
)

// MongoStore implements Store against a MongoDB database.
type MongoStore struct {
	users     *mongo.Collection
	leads     *mongo.Collection
	templates *mongo.Collection
	now       func() time.Time
}

// NewMongoStore creates a store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:     db.Collection(usersCollection),
		leads:     db.Collection(leadsCollection),
		templates: db.Collection(templatesCollection),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the indexes that back the uniqueness invariants
// and the common list queries. It is idempotent.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = s.leads.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "google_place_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_user_place").
				SetPartialFilterExpression(bson.M{"google_place_id": bson.M{"$gt": ""}}),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create leads indexes: %w", err)
	}

	_, err = s.templates.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	if err != nil {
		return fmt.Errorf("failed to create templates index: %w", err)
	}

	return nil
}

// objectID parses a hex id. Malformed ids report ok=false and are treated
// as absent records by callers.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// newestFirstOpts sorts by creation time descending.
func newestFirstOpts() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
}

// returnAfter makes FindOneAndUpdate return the updated document.
func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
