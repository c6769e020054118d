package repository

import (
	"context"
	"fmt"

	"github.com/msgboard/msgboard/backend/go-services/internal/message"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for messages.
// Documents use the driver's ObjectID as _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, msg *message.Message) error {
	stamp(msg)
	if _, err := m.col.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List scans the whole collection ordered by _id, which follows insertion order.
func (m *MongoRepo) List(ctx context.Context) ([]*message.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cur.Close(ctx)
	out := []*message.Message{}
	for cur.Next(ctx) {
		var msg message.Message
		if err := cur.Decode(&msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, &msg)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}
