package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Briancute/local-lead-finder/internal/model"
)

type leadDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	BusinessName  string             `bson:"business_name"`
	Address       string             `bson:"address,omitempty"`
	Phone         string             `bson:"phone,omitempty"`
	Website       string             `bson:"website,omitempty"`
	Rating        *float64           `bson:"rating,omitempty"`
	GooglePlaceID string             `bson:"google_place_id,omitempty"`
	Status        string             `bson:"status"`
	Tags          []string           `bson:"tags"`
	Notes         string             `bson:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *leadDoc) toModel() *model.Lead {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &model.Lead{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		BusinessName:  d.BusinessName,
		Address:       d.Address,
		Phone:         d.Phone,
		Website:       d.Website,
		Rating:        d.Rating,
		GooglePlaceID: d.GooglePlaceID,
		Status:        model.LeadStatus(d.Status),
		Tags:          tags,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ListLeads retrieves the owner's leads matching the filter, newest first.
func (s *MongoStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error) {
	if filter.UserID == "" {
		return nil, ErrInvalidInput
	}

	query := bson.M{"user_id": filter.UserID}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.GooglePlaceID != "" {
		query["google_place_id"] = filter.GooglePlaceID
	}
	if filter.Search != "" {
		query["business_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	cur, err := s.leads.Find(ctx, query, newestFirstOpts())
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer cur.Close(ctx)

	var docs []leadDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}

	leads := make([]*model.Lead, 0, len(docs))
	for i := range docs {
		leads = append(leads, docs[i].toModel())
	}
	return leads, nil
}

// GetLead retrieves a lead owned by userID.
func (s *MongoStore) GetLead(ctx context.Context, id, userID string) (*model.Lead, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	var doc leadDoc
	err := s.leads.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return doc.toModel(), nil
}

// CreateLead inserts a new lead. The partial unique index on
// (user_id, google_place_id) turns concurrent duplicates into ErrDuplicateLead.
func (s *MongoStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	if err := validateLead(lead); err != nil {
		return err
	}

	now := s.now()
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}
	if lead.Tags == nil {
		lead.Tags = []string{}
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now

	doc := leadDoc{
		UserID:        lead.UserID,
		BusinessName:  lead.BusinessName,
		Address:       lead.Address,
		Phone:         lead.Phone,
		Website:       lead.Website,
		Rating:        lead.Rating,
		GooglePlaceID: lead.GooglePlaceID,
		Status:        string(lead.Status),
		Tags:          lead.Tags,
		Notes:         lead.Notes,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}

	res, err := s.leads.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateLead
		}
		return fmt.Errorf("failed to create lead: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid.Hex()
	}
	return nil
}

// UpdateLead applies a partial update to a lead owned by userID.
func (s *MongoStore) UpdateLead(ctx context.Context, id, userID string, upd model.LeadUpdate) (*model.Lead, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	set := bson.M{"updated_at": s.now()}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Website != nil {
		set["website"] = *upd.Website
	}
	update := bson.M{"$set": set}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	} else if upd.ClearRating {
		update["$unset"] = bson.M{"rating": ""}
	}

	var doc leadDoc
	err := s.leads.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		update,
		returnAfter(),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	return doc.toModel(), nil
}

// DeleteLead removes a lead owned by userID.
func (s *MongoStore) DeleteLead(ctx context.Context, id, userID string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}

	res, err := s.leads.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete lead: %w", err)
	}
	return res.DeletedCount > 0, nil
}
