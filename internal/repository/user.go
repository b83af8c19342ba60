package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Briancute/local-lead-finder/internal/model"
)

type userDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash"`
	APIQuotaUsed  int                `bson:"api_quota_used"`
	APIQuotaLimit int                `bson:"api_quota_limit"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		APIQuotaUsed:  d.APIQuotaUsed,
		APIQuotaLimit: d.APIQuotaLimit,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// CreateUser inserts a new user into the database.
func (s *MongoStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := validateUser(user); err != nil {
		return err
	}

	now := s.now()
	user.Email = model.NormalizeEmail(user.Email)
	if user.APIQuotaLimit == 0 {
		user.APIQuotaLimit = model.DefaultAPIQuotaLimit
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	doc := userDoc{
		Name:          user.Name,
		Email:         user.Email,
		PasswordHash:  user.PasswordHash,
		APIQuotaUsed:  user.APIQuotaUsed,
		APIQuotaLimit: user.APIQuotaLimit,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}

	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

// GetUserByEmail retrieves a user by their normalized email address.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toModel(), nil
}

// UpdateUser applies a partial update and refreshes updated_at.
func (s *MongoStore) UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	set := bson.M{"updated_at": s.now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.APIQuotaUsed != nil {
		set["api_quota_used"] = *upd.APIQuotaUsed
	}
	if upd.APIQuotaLimit != nil {
		set["api_quota_limit"] = *upd.APIQuotaLimit
	}

	return s.updateUser(ctx, oid, bson.M{"$set": set})
}

// IncrementQuota atomically adds delta to the user's quota usage.
func (s *MongoStore) IncrementQuota(ctx context.Context, id string, delta int) (*model.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	return s.updateUser(ctx, oid, bson.M{
		"$inc": bson.M{"api_quota_used": delta},
		"$set": bson.M{"updated_at": s.now()},
	})
}

func (s *MongoStore) updateUser(ctx context.Context, oid primitive.ObjectID, update bson.M) (*model.User, error) {
	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, returnAfter()).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return doc.toModel(), nil
}
