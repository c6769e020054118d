package service

import (
	"context"

	"github.com/msgboard/msgboard/backend/go-services/internal/message"
	"github.com/msgboard/msgboard/backend/go-services/internal/message/repository"
	"github.com/msgboard/msgboard/backend/go-services/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service defines the message operations used by the handler layer.
type Service interface {
	List(ctx context.Context) ([]*message.Message, error)
	Create(ctx context.Context, text string) (*message.Message, error)
}

// New returns a Service over the given repository.
func New(repo repository.Repository) Service {
	return &messageService{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection) Service {
	return New(repository.NewMongoRepo(col))
}

type messageService struct {
	repo repository.Repository
}

func (s *messageService) List(ctx context.Context) ([]*message.Message, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	if list == nil {
		list = []*message.Message{}
	}
	metrics.MessagesListed.Inc()
	return list, nil
}

// Create stores text as-is; empty text is accepted.
func (s *messageService) Create(ctx context.Context, text string) (*message.Message, error) {
	m := &message.Message{Text: text}
	if err := s.repo.Create(ctx, m); err != nil {
		metrics.StoreErrors.WithLabelValues("create").Inc()
		return nil, err
	}
	metrics.MessagesCreated.Inc()
	return m, nil
}
