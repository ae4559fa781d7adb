package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taara-rescue/internal/domain/rescue"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type noteDoc struct {
	Text      string    `bson:"text"`
	CreatedBy string    `bson:"createdBy"`
	CreatedAt time.Time `bson:"createdAt"`
}

type rescueDoc struct {
	ID           string `bson:"_id"`
	TrackingCode string `bson:"trackingCode"`

	FullName      string `bson:"fullName"`
	ContactNumber string `bson:"contactNumber"`
	Email         string `bson:"email"`
	Concern       string `bson:"concern"`
	LocationNote  string `bson:"locationNote"`
	Urgency       string `bson:"urgency,omitempty"`
	Tag           string `bson:"tag"`

	PhotoURL         string `bson:"photoUrl,omitempty"`
	PhotoContentType string `bson:"photoContentType,omitempty"`

	Status     string    `bson:"status"`
	AssignedTo string    `bson:"assignedTo,omitempty"`
	Notes      []noteDoc `bson:"notes"`

	// omitempty: sin clave no entra al índice único sparse
	IdempotencyKey string `bson:"idempotencyKey,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toRescueDoc(req rescue.RescueRequest) rescueDoc {
	notes := make([]noteDoc, 0, len(req.Notes))
	for _, n := range req.Notes {
		notes = append(notes, noteDoc{Text: n.Text, CreatedBy: n.CreatedBy, CreatedAt: n.CreatedAt})
	}
	return rescueDoc{
		ID:               req.ID,
		TrackingCode:     req.TrackingCode,
		FullName:         req.FullName,
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		Concern:          req.Concern,
		LocationNote:     req.LocationNote,
		Urgency:          req.Urgency,
		Tag:              string(req.Tag),
		PhotoURL:         req.PhotoURL,
		PhotoContentType: req.PhotoContentType,
		Status:           string(req.Status),
		AssignedTo:       req.AssignedTo,
		Notes:            notes,
		IdempotencyKey:   req.IdempotencyKey,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

func (d rescueDoc) toDomain() rescue.RescueRequest {
	notes := make([]rescue.Note, 0, len(d.Notes))
	for _, n := range d.Notes {
		notes = append(notes, rescue.Note{Text: n.Text, CreatedBy: n.CreatedBy, CreatedAt: n.CreatedAt})
	}
	return rescue.RescueRequest{
		ID:               d.ID,
		TrackingCode:     d.TrackingCode,
		FullName:         d.FullName,
		ContactNumber:    d.ContactNumber,
		Email:            d.Email,
		Concern:          d.Concern,
		LocationNote:     d.LocationNote,
		Urgency:          d.Urgency,
		Tag:              rescue.Tag(d.Tag),
		PhotoURL:         d.PhotoURL,
		PhotoContentType: d.PhotoContentType,
		Status:           rescue.Status(d.Status),
		AssignedTo:       d.AssignedTo,
		Notes:            notes,
		IdempotencyKey:   d.IdempotencyKey,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type rescueRepo struct {
	col *mongo.Collection
}

func NewRescueRepo(db *mongo.Database) rescue.Repository {
	return &rescueRepo{col: db.Collection(colRescueRequests)}
}

func (r *rescueRepo) Create(ctx context.Context, req rescue.RescueRequest) error {
	_, err := r.col.InsertOne(ctx, toRescueDoc(req))
	if mongo.IsDuplicateKeyError(err) {
		// El mensaje del write error nombra el índice que chocó.
		if strings.Contains(err.Error(), "idempotencyKey") {
			return rescue.ErrIdempotencyKeyTaken
		}
		return rescue.ErrTrackingCodeTaken
	}
	if err != nil {
		return fmt.Errorf("mongo: insert rescue request: %w", err)
	}
	return nil
}

func (r *rescueRepo) GetByID(ctx context.Context, id string) (rescue.RescueRequest, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *rescueRepo) GetByTrackingCode(ctx context.Context, code string) (rescue.RescueRequest, error) {
	return r.findOne(ctx, bson.M{"trackingCode": code})
}

func (r *rescueRepo) GetByIdempotencyKey(ctx context.Context, key string) (rescue.RescueRequest, error) {
	return r.findOne(ctx, bson.M{"idempotencyKey": key})
}

func (r *rescueRepo) findOne(ctx context.Context, filter bson.M) (rescue.RescueRequest, error) {
	var doc rescueDoc
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rescue.RescueRequest{}, rescue.ErrNotFound
	}
	if err != nil {
		return rescue.RescueRequest{}, fmt.Errorf("mongo: find rescue request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *rescueRepo) List(ctx context.Context) ([]rescue.RescueRequest, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list rescue requests: %w", err)
	}
	defer cur.Close(ctx)

	var docs []rescueDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode rescue requests: %w", err)
	}

	out := make([]rescue.RescueRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *rescueRepo) Update(ctx context.Context, req rescue.RescueRequest) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": req.ID}, toRescueDoc(req))
	if err != nil {
		return fmt.Errorf("mongo: update rescue request: %w", err)
	}
	if res.MatchedCount == 0 {
		return rescue.ErrNotFound
	}
	return nil
}
