package mongo

import (
	"context"
	"fmt"
	"time"

	"taara-rescue/internal/domain/applications"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type applicationDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Contact    string    `bson:"contact"`
	Address    string    `bson:"address"`
	PetType    string    `bson:"petType"`
	Reason     string    `bson:"reason"`
	Experience string    `bson:"experience"`
	Notes      string    `bson:"notes"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

type applicationRepo struct {
	col *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) applications.Repository {
	return &applicationRepo{col: db.Collection(colApplications)}
}

func (r *applicationRepo) Create(ctx context.Context, a applications.Application) error {
	doc := applicationDoc{
		ID:         a.ID,
		Name:       a.Name,
		Contact:    a.Contact,
		Address:    a.Address,
		PetType:    a.PetType,
		Reason:     a.Reason,
		Experience: a.Experience,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: insert application: %w", err)
	}
	return nil
}

func (r *applicationRepo) List(ctx context.Context) ([]applications.Application, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list applications: %w", err)
	}
	defer cur.Close(ctx)

	var docs []applicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode applications: %w", err)
	}

	out := make([]applications.Application, 0, len(docs))
	for _, d := range docs {
		out = append(out, applications.Application{
			ID:         d.ID,
			Name:       d.Name,
			Contact:    d.Contact,
			Address:    d.Address,
			PetType:    d.PetType,
			Reason:     d.Reason,
			Experience: d.Experience,
			Notes:      d.Notes,
			CreatedAt:  d.CreatedAt,
			UpdatedAt:  d.UpdatedAt,
		})
	}
	return out, nil
}
