// Package performance serves the read-only academic records.
package performance

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/store"
)

// Service reads the performance collection.
type Service struct {
	docs store.Docs
}

// NewService creates a service over the performance collection.
func NewService(docs store.Docs) *Service {
	return &Service{docs: docs}
}

// ByRollNo returns a student's records.
func (s *Service) ByRollNo(ctx context.Context, rollNo int64) ([]bson.M, error) {
	out, err := s.docs.Find(ctx, bson.M{"RollNo": rollNo})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("No performance data found for RollNo: %d", rollNo)
	}
	return out, nil
}

// All returns every student's records.
func (s *Service) All(ctx context.Context) ([]bson.M, error) {
	return s.docs.Find(ctx, nil)
}
