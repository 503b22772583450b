package query

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/activity"
	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/metrics"
	"chitkaraconnect/internal/store"
)

// Request is a new question from a student.
type Request struct {
	Name   string
	RollNo int64
	Email  string
	Topic  string
	Tags   []string
	Query  string
}

// Service handles the question board.
type Service struct {
	store    Store
	recorder activity.Recorder
	now      func() time.Time
}

// NewService creates a service. recorder may be nil.
func NewService(s Store, recorder activity.Recorder) *Service {
	if recorder == nil {
		recorder = activity.Discard
	}
	return &Service{store: s, recorder: recorder, now: time.Now}
}

// Submit stores an unsolved query with no likes.
func (s *Service) Submit(ctx context.Context, req Request) (primitive.ObjectID, error) {
	if req.Name == "" || req.Email == "" || req.RollNo == 0 || req.Topic == "" || req.Query == "" {
		return primitive.NilObjectID, apperr.Invalid("All fields are required")
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return s.store.Insert(ctx, Query{
		Name:        req.Name,
		RollNo:      store.Int64(req.RollNo),
		Email:       req.Email,
		Topic:       req.Topic,
		Tags:        tags,
		Description: req.Query,
		Solution:    UnsolvedSentinel,
		CreatedAt:   s.now().UTC(),
	})
}

// Unsolved lists queries still waiting for an answer.
func (s *Service) Unsolved(ctx context.Context) ([]Query, error) {
	solved := false
	return s.nonEmpty(ctx, Filter{Solved: &solved}, "No queries without a solution found.")
}

// Solved lists answered queries.
func (s *Service) Solved(ctx context.Context) ([]Query, error) {
	solved := true
	return s.nonEmpty(ctx, Filter{Solved: &solved}, "No queries with a solution found.")
}

// ByRollNo lists one student's queries.
func (s *Service) ByRollNo(ctx context.Context, rollNo int64) ([]Query, error) {
	return s.nonEmpty(ctx, Filter{RollNo: &rollNo}, fmt.Sprintf("No queries found for roll number: %d", rollNo))
}

// All lists every query. An empty board is not an error here.
func (s *Service) All(ctx context.Context) ([]Query, error) {
	return s.store.Find(ctx, Filter{})
}

// Count returns the number of stored queries.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func (s *Service) nonEmpty(ctx context.Context, f Filter, notFound string) ([]Query, error) {
	out, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("%s", notFound)
	}
	return out, nil
}

// UpdateSolution answers a query. Blank answers and the unsolved sentinel are
// refused since either would leave the query in the wrong list.
func (s *Service) UpdateSolution(ctx context.Context, rawID, solution string, actor activity.Actor) error {
	if rawID == "" {
		return apperr.Invalid("Invalid input. queryId and solution are required.")
	}
	if trimmed := strings.TrimSpace(solution); trimmed == "" || trimmed == UnsolvedSentinel {
		return apperr.Invalid("Solution must be a non-empty answer.")
	}
	id, err := store.ParseID("queryId", rawID)
	if err != nil {
		return err
	}

	matched, modified, err := s.store.SetSolution(ctx, id, solution)
	if err != nil {
		return fmt.Errorf("update solution: %w", err)
	}
	if !matched {
		return apperr.NotFound("Query not found.")
	}
	if !modified {
		return apperr.Invalid("Solution was not updated.")
	}

	metrics.Transitions.WithLabelValues("query", "solved").Inc()
	evt := activity.NewEvent(activity.QuerySolved, id.Hex(), "solved", actor)
	if err := s.recorder.Record(ctx, evt); err != nil {
		log.Printf("record query solution %s failed: %v", id.Hex(), err)
	}
	return nil
}
