package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taara-rescue/internal/domain/events"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Date        time.Time `bson:"date"`
	Time        string    `bson:"time"`
	Location    string    `bson:"location"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toEventDoc(e events.Event) eventDoc {
	return eventDoc{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (d eventDoc) toDomain() events.Event {
	return events.Event{
		ID:          d.ID,
		Title:       d.Title,
		Date:        d.Date,
		Time:        d.Time,
		Location:    d.Location,
		Description: d.Description,
		Status:      events.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type eventRepo struct {
	col *mongo.Collection
}

func NewEventRepo(db *mongo.Database) events.Repository {
	return &eventRepo{col: db.Collection(colEvents)}
}

func (r *eventRepo) Create(ctx context.Context, e events.Event) error {
	if _, err := r.col.InsertOne(ctx, toEventDoc(e)); err != nil {
		return fmt.Errorf("mongo: insert event: %w", err)
	}
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	var doc eventDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return events.Event{}, events.ErrNotFound
	}
	if err != nil {
		return events.Event{}, fmt.Errorf("mongo: find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *eventRepo) List(ctx context.Context) ([]events.Event, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode events: %w", err)
	}

	out := make([]events.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *eventRepo) Update(ctx context.Context, e events.Event) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, toEventDoc(e))
	if err != nil {
		return fmt.Errorf("mongo: update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return events.ErrNotFound
	}
	return nil
}
