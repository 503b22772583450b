// Package notice stores mentor notices, events and general notices in one
// collection, told apart by their tag.
package notice

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/store"
)

// Tags stored on notice documents.
const (
	TagMentor  = "mentornotice"
	TagEvent   = "event"
	TagGeneral = "notice"
)

// TagFor maps the type a client submits to the stored tag.
func TagFor(kind string) (string, bool) {
	switch kind {
	case "mentorNotice":
		return TagMentor, true
	case "eventNotice":
		return TagEvent, true
	case "generalNotice":
		return TagGeneral, true
	}
	return "", false
}

// Service creates and lists notices.
type Service struct {
	docs store.Docs
}

// NewService creates a service over the notices collection.
func NewService(docs store.Docs) *Service {
	return &Service{docs: docs}
}

// Create stores the client's fields as they are, plus the tag for kind.
func (s *Service) Create(ctx context.Context, kind string, data map[string]any) (primitive.ObjectID, error) {
	tag, ok := TagFor(kind)
	if !ok {
		return primitive.NilObjectID, apperr.Invalid("Invalid notice type")
	}
	doc := bson.M{}
	for k, v := range data {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	doc["tag"] = tag
	return s.docs.Insert(ctx, doc)
}

// ByTag lists notices with the given tag. An empty list is not an error.
func (s *Service) ByTag(ctx context.Context, tag string) ([]bson.M, error) {
	return s.docs.Find(ctx, bson.M{"tag": tag})
}

// Count returns the number of notices of every kind.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.docs.Count(ctx)
}
