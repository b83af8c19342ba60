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

type templateDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Name      string             `bson:"name"`
	Subject   string             `bson:"subject"`
	Body      string             `bson:"body"`
	IsDefault bool               `bson:"is_default"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *templateDoc) toModel() *model.EmailTemplate {
	return &model.EmailTemplate{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Name:      d.Name,
		Subject:   d.Subject,
		Body:      d.Body,
		IsDefault: d.IsDefault,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ListTemplates retrieves the owner's templates, newest first.
func (s *MongoStore) ListTemplates(ctx context.Context, userID string) ([]*model.EmailTemplate, error) {
	cur, err := s.templates.Find(ctx, bson.M{"user_id": userID}, newestFirstOpts())
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer cur.Close(ctx)

	var docs []templateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}

	templates := make([]*model.EmailTemplate, 0, len(docs))
	for i := range docs {
		templates = append(templates, docs[i].toModel())
	}
	return templates, nil
}

// GetTemplate retrieves a template owned by userID.
func (s *MongoStore) GetTemplate(ctx context.Context, id, userID string) (*model.EmailTemplate, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	var doc templateDoc
	err := s.templates.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return doc.toModel(), nil
}

// CreateTemplate inserts a template. When it is the default, the owner's
// other templates are cleared afterwards.
func (s *MongoStore) CreateTemplate(ctx context.Context, tmpl *model.EmailTemplate) error {
	if err := validateTemplate(tmpl); err != nil {
		return err
	}

	now := s.now()
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = now
	}
	tmpl.UpdatedAt = now

	res, err := s.templates.InsertOne(ctx, templateDoc{
		UserID:    tmpl.UserID,
		Name:      tmpl.Name,
		Subject:   tmpl.Subject,
		Body:      tmpl.Body,
		IsDefault: tmpl.IsDefault,
		CreatedAt: tmpl.CreatedAt,
		UpdatedAt: tmpl.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tmpl.ID = oid.Hex()
	}

	if tmpl.IsDefault {
		return s.ClearDefaultTemplates(ctx, tmpl.UserID, tmpl.ID)
	}
	return nil
}

// UpdateTemplate applies a partial update to a template owned by userID.
func (s *MongoStore) UpdateTemplate(ctx context.Context, id, userID string, upd model.TemplateUpdate) (*model.EmailTemplate, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	set := bson.M{"updated_at": s.now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Subject != nil {
		set["subject"] = *upd.Subject
	}
	if upd.Body != nil {
		set["body"] = *upd.Body
	}
	if upd.IsDefault != nil {
		set["is_default"] = *upd.IsDefault
	}

	var doc templateDoc
	err := s.templates.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": set},
		returnAfter(),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	if doc.IsDefault {
		if err := s.ClearDefaultTemplates(ctx, userID, id); err != nil {
			return nil, err
		}
	}
	return doc.toModel(), nil
}

// DeleteTemplate removes a template owned by userID.
func (s *MongoStore) DeleteTemplate(ctx context.Context, id, userID string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}

	res, err := s.templates.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete template: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ClearDefaultTemplates unsets is_default on the user's templates except exceptID.
func (s *MongoStore) ClearDefaultTemplates(ctx context.Context, userID, exceptID string) error {
	filter := bson.M{"user_id": userID, "is_default": true}
	if oid, ok := objectID(exceptID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}

	_, err := s.templates.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"is_default": false, "updated_at": s.now()},
	})
	if err != nil {
		return fmt.Errorf("failed to clear default templates: %w", err)
	}
	return nil
}
