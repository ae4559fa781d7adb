package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taara-rescue/internal/domain/animals"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type animalDoc struct {
	ID        string    `bson:"_id"`
	Date      string    `bson:"date"`
	Name      string    `bson:"name"`
	Breed     string    `bson:"breed"`
	Address   string    `bson:"address"`
	Reporter  string    `bson:"reporter"`
	Remarks   string    `bson:"remarks"`
	ImageURL  string    `bson:"imageUrl"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toAnimalDoc(a animals.Animal) animalDoc {
	return animalDoc{
		ID:        a.ID,
		Date:      a.Date,
		Name:      a.Name,
		Breed:     a.Breed,
		Address:   a.Address,
		Reporter:  a.Reporter,
		Remarks:   a.Remarks,
		ImageURL:  a.ImageURL,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (d animalDoc) toDomain() animals.Animal {
	return animals.Animal{
		ID:        d.ID,
		Date:      d.Date,
		Name:      d.Name,
		Breed:     d.Breed,
		Address:   d.Address,
		Reporter:  d.Reporter,
		Remarks:   d.Remarks,
		ImageURL:  d.ImageURL,
		Status:    animals.Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type animalRepo struct {
	col *mongo.Collection
}

func NewAnimalRepo(db *mongo.Database) animals.Repository {
	return &animalRepo{col: db.Collection(colAnimals)}
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) error {
	if _, err := r.col.InsertOne(ctx, toAnimalDoc(a)); err != nil {
		return fmt.Errorf("mongo: insert animal: %w", err)
	}
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	var doc animalDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return animals.Animal{}, animals.ErrNotFound
	}
	if err != nil {
		return animals.Animal{}, fmt.Errorf("mongo: find animal: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *animalRepo) List(ctx context.Context) ([]animals.Animal, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list animals: %w", err)
	}
	defer cur.Close(ctx)

	var docs []animalDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode animals: %w", err)
	}

	out := make([]animals.Animal, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, toAnimalDoc(a))
	if err != nil {
		return fmt.Errorf("mongo: update animal: %w", err)
	}
	if res.MatchedCount == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *animalRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete animal: %w", err)
	}
	if res.DeletedCount == 0 {
		return animals.ErrNotFound
	}
	return nil
}
