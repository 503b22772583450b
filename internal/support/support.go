// Package support stores help requests sent from the contact form.
package support

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/store"
)

// Ticket is an append-only help request.
type Ticket struct {
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	QueryType string    `bson:"queryType" json:"queryType"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Service adds and lists tickets.
type Service struct {
	docs store.Docs
	now  func() time.Time
}

// NewService creates a service over the support collection.
func NewService(docs store.Docs) *Service {
	return &Service{docs: docs, now: time.Now}
}

// Add stores a ticket. Every field is required.
func (s *Service) Add(ctx context.Context, t Ticket) (primitive.ObjectID, error) {
	for _, f := range []string{t.Name, t.Email, t.Role, t.QueryType, t.Message} {
		if strings.TrimSpace(f) == "" {
			return primitive.NilObjectID, apperr.Invalid("All fields are required")
		}
	}
	t.CreatedAt = s.now().UTC()
	return s.docs.Insert(ctx, t)
}

// List returns every ticket.
func (s *Service) List(ctx context.Context) ([]bson.M, error) {
	return s.docs.Find(ctx, nil)
}

// Count returns the number of tickets.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.docs.Count(ctx)
}
