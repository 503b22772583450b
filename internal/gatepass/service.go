package gatepass

import (
	"context"
	"errors"
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

// Request is a submission from a student.
type Request struct {
	Name    string
	RollNo  int64
	Email   string
	Contact string
	Date    string
	Time    string
	Reason  string
}

// Service coordinates submission and decisions.
type Service struct {
	store    Store
	recorder activity.Recorder
	strict   bool
	now      func() time.Time
}

// NewService creates a service. With strict set, only pending passes can be
// decided. recorder may be nil.
func NewService(s Store, recorder activity.Recorder, strict bool) *Service {
	if recorder == nil {
		recorder = activity.Discard
	}
	return &Service{store: s, recorder: recorder, strict: strict, now: time.Now}
}

// Submit stores a new pass. The status is always pending whatever the client sent.
func (s *Service) Submit(ctx context.Context, req Request) (primitive.ObjectID, error) {
	if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Reason) == "" {
		return primitive.NilObjectID, apperr.Invalid("rollNo, date and reason are required")
	}
	gp := Gatepass{
		Name:           req.Name,
		RollNo:         store.Int64(req.RollNo),
		Email:          req.Email,
		Contact:        store.Text(req.Contact),
		Date:           req.Date,
		Time:           req.Time,
		Reason:         req.Reason,
		ApprovedStatus: Pending,
		CreatedAt:      s.now().UTC(),
	}
	return s.store.Insert(ctx, gp)
}

// List returns passes in status, optionally for one student. An empty result
// is reported as not found.
func (s *Service) List(ctx context.Context, status Status, rollNo *int64) ([]Gatepass, error) {
	out, err := s.store.List(ctx, status, rollNo)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		if rollNo != nil {
			return nil, apperr.NotFound("No %s gatepasses found for RollNo: %d", status, *rollNo)
		}
		return nil, apperr.NotFound("No %s gatepasses found", status)
	}
	return out, nil
}

// Decide moves a pass to approved or rejected and returns it as stored.
func (s *Service) Decide(ctx context.Context, rawID, rawStatus string, actor activity.Actor) (*Gatepass, error) {
	if rawID == "" || rawStatus == "" {
		return nil, apperr.Invalid("gatepassId and approvedStatus are required")
	}
	status, ok := ParseStatus(rawStatus)
	if !ok || !status.Decision() {
		return nil, apperr.Invalid("approvedStatus must be approved or rejected")
	}
	id, err := store.ParseID("gatepassId", rawID)
	if err != nil {
		return nil, err
	}

	matched, err := s.store.SetStatus(ctx, id, status, s.strict)
	if errors.Is(err, ErrNotPending) {
		return nil, apperr.Conflict("Gate pass %s has already been decided", rawID)
	}
	if err != nil {
		return nil, fmt.Errorf("decide gatepass: %w", err)
	}
	if !matched {
		return nil, apperr.NotFound("No gate pass found with ID: %s", rawID)
	}

	metrics.Transitions.WithLabelValues("gatepass", string(status)).Inc()
	evt := activity.NewEvent(activity.GatepassDecided, id.Hex(), string(status), actor)
	if err := s.recorder.Record(ctx, evt); err != nil {
		log.Printf("record gatepass decision %s failed: %v", id.Hex(), err)
	}

	gp, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload gatepass %s: %w", id.Hex(), err)
	}
	if gp == nil {
		return nil, apperr.NotFound("No gate pass found with ID: %s", rawID)
	}
	return gp, nil
}
