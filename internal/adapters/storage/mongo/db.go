// Package mongo implementa los repositorios de dominio sobre MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colAnimals        = "animals"
	colEvents         = "events"
	colUsers          = "users"
	colLogins         = "logins"
	colApplications   = "applications"
	colRescueRequests = "rescuerequests"
)

// Open conecta y hace ping con un timeout corto para fallar rápido en
// el arranque si la base no está.
func Open(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return client.Database(dbName), nil
}

// EnsureIndexes crea los índices que los repos asumen. Es idempotente;
// se corre en cada arranque.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	sparseUnique := options.Index().SetUnique(true).SetSparse(true)

	specs := []struct {
		col    string
		models []mongo.IndexModel
	}{
		{colUsers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		}},
		{colLogins, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "at", Value: -1}}},
		}},
		{colRescueRequests, []mongo.IndexModel{
			{Keys: bson.D{{Key: "trackingCode", Value: 1}}, Options: unique},
			// sparse: los requests sin Idempotency-Key no entran al índice
			{Keys: bson.D{{Key: "idempotencyKey", Value: 1}}, Options: sparseUnique},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}},
		{colEvents, []mongo.IndexModel{
			{Keys: bson.D{{Key: "date", Value: 1}}},
		}},
		{colAnimals, []mongo.IndexModel{
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}},
		{colApplications, []mongo.IndexModel{
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.col).Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("mongo: ensure indexes on %s: %w", s.col, err)
		}
	}
	return nil
}
