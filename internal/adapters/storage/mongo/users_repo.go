package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taara-rescue/internal/domain/users"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type loginDoc struct {
	ID     string    `bson:"_id"`
	UserID string    `bson:"userId"`
	At     time.Time `bson:"at"`
}

func toUserDoc(u users.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDoc) toDomain() users.User {
	return users.User{
		ID:           d.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
	}
}

type userRepo struct {
	users  *mongo.Collection
	logins *mongo.Collection
}

func NewUserRepo(db *mongo.Database) users.Repository {
	return &userRepo{
		users:  db.Collection(colUsers),
		logins: db.Collection(colLogins),
	}
}

// Create confía en el índice único de username: el duplicado se detecta
// en el insert, sin check-then-insert.
func (r *userRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.users.InsertOne(ctx, toUserDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return users.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("mongo: insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return users.User{}, users.ErrNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("mongo: find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return users.User{}, users.ErrNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("mongo: find user by username: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) List(ctx context.Context) ([]users.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode users: %w", err)
	}

	out := make([]users.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.users.ReplaceOne(ctx, bson.M{"_id": u.ID}, toUserDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return users.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("mongo: update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *userRepo) RecordLogin(ctx context.Context, rec users.LoginRecord) error {
	doc := loginDoc{ID: rec.ID, UserID: rec.UserID, At: rec.At}
	if _, err := r.logins.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: insert login: %w", err)
	}
	return nil
}

func (r *userRepo) LastLogin(ctx context.Context, userID string) (time.Time, bool, error) {
	var doc loginDoc
	err := r.logins.FindOne(ctx, bson.M{"userId": userID},
		options.FindOne().SetSort(bson.D{{Key: "at", Value: -1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("mongo: last login: %w", err)
	}
	return doc.At, true, nil
}
