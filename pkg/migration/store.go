package migration

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection holds one document per applied migration.
const Collection = "schema_migrations"

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore tracks migrations in db's schema_migrations collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{col: db.Collection(Collection)}
}

func (s *mongoStore) Applied(ctx context.Context) ([]Record, error) {
	cur, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) Add(ctx context.Context, rec Record) error {
	_, err := s.col.InsertOne(ctx, rec)
	return err
}

func (s *mongoStore) Remove(ctx context.Context, name string) error {
	_, err := s.col.DeleteOne(ctx, bson.D{{Key: "name", Value: name}})
	return err
}
