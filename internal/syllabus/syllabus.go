// Package syllabus stores course outlines.
package syllabus

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/store"
)

// Syllabus is one course outline.
type Syllabus struct {
	CourseName string    `bson:"courseName" json:"courseName"`
	Topics     []string  `bson:"topics" json:"topics"`
	Semester   any       `bson:"semester" json:"semester"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// SplitTopics accepts either a list of topics or one comma-separated string.
// Blank entries are dropped.
func SplitTopics(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Service adds and lists syllabi.
type Service struct {
	docs store.Docs
	now  func() time.Time
}

// NewService creates a service over the syllabus collection.
func NewService(docs store.Docs) *Service {
	return &Service{docs: docs, now: time.Now}
}

// Add stores a syllabus. Semester is kept as the client sent it.
func (s *Service) Add(ctx context.Context, courseName string, topics any, semester any) (primitive.ObjectID, error) {
	list := SplitTopics(topics)
	if strings.TrimSpace(courseName) == "" || len(list) == 0 || empty(semester) {
		return primitive.NilObjectID, apperr.Invalid("All fields are required")
	}
	return s.docs.Insert(ctx, Syllabus{
		CourseName: courseName,
		Topics:     list,
		Semester:   semester,
		CreatedAt:  s.now().UTC(),
	})
}

// List returns every syllabus.
func (s *Service) List(ctx context.Context) ([]bson.M, error) {
	return s.docs.Find(ctx, nil)
}

func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return t == 0
	}
	return false
}
