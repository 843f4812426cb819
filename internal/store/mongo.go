package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEntry[V any] struct {
	Key   string `bson:"_id"`
	Value V      `bson:"value"`
}

// MongoMap stores each key as one document {_id: key, value: V} in its own collection.
type MongoMap[V any] struct {
	col *mongo.Collection
}

func NewMongoMap[V any](col *mongo.Collection) *MongoMap[V] {
	return &MongoMap[V]{col: col}
}

func (m *MongoMap[V]) Get(ctx context.Context, key string) (V, error) {
	var e mongoEntry[V]
	if err := m.col.FindOne(ctx, bson.M{"_id": key}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.Value, ErrNotFound
		}
		return e.Value, err
	}
	return e.Value, nil
}

func (m *MongoMap[V]) Insert(ctx context.Context, key string, v V) error {
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": key}, mongoEntry[V]{Key: key, Value: v}, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoMap[V]) Values(ctx context.Context) ([]V, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []V{}
	for cur.Next(ctx) {
		var e mongoEntry[V]
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e.Value)
	}
	return out, cur.Err()
}
