package repository

import (
	"context"
	"time"

	"github.com/msgboard/msgboard/backend/go-services/internal/message"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository persists messages. List returns every stored message in
// insertion order; there is no filtering or paging.
type Repository interface {
	Create(ctx context.Context, m *message.Message) error
	List(ctx context.Context) ([]*message.Message, error)
}

// stamp assigns the identity fields the store owns. Mongo keeps millisecond
// precision, so CreatedAt is truncated to match what a later read returns.
func stamp(m *message.Message) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
}
