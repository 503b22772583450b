// Package attendance records daily presence for students, submitted by a
// teacher one class roster at a time.
package attendance

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/activity"
	"chitkaraconnect/internal/apperr"
)

// DateLayout is the stored date format.
const DateLayout = "2006-01-02"

// Record is one student's status on one day.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	StudentID string             `bson:"studentId" json:"studentId"`
	Date      string             `bson:"date" json:"date"`
	Status    string             `bson:"status" json:"status"`
}

// Result summarises a bulk upsert.
type Result struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
}

// Entry is one row of a roster submission.
type Entry struct {
	StudentID string
	Status    string
}

// Service coordinates marking and lookups.
type Service struct {
	repo     Repository
	recorder activity.Recorder
}

// NewService creates a service backed by a repository. recorder may be nil.
func NewService(repo Repository, recorder activity.Recorder) *Service {
	if recorder == nil {
		recorder = activity.Discard
	}
	return &Service{repo: repo, recorder: recorder}
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
}

// NormalizeDate converts a client date into YYYY-MM-DD. Timestamps with an
// offset are moved to UTC first.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(DateLayout), nil
		}
	}
	return "", apperr.Invalid("Invalid date: %q", raw)
}

// Mark upserts the roster for a date. Marking the same student twice on a
// day keeps only the latest status.
func (s *Service) Mark(ctx context.Context, date string, entries []Entry, actor activity.Actor) (Result, error) {
	if strings.TrimSpace(date) == "" || len(entries) == 0 {
		return Result{}, apperr.Invalid(`Invalid input format. "date" and "attendanceRecords" are required.`)
	}
	day, err := NormalizeDate(date)
	if err != nil {
		return Result{}, err
	}

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.StudentID) == "" {
			return Result{}, apperr.Invalid("Each attendance record must have a valid studentId and status (present/absent)")
		}
		records = append(records, Record{StudentID: e.StudentID, Date: day, Status: e.Status})
	}

	res, err := s.repo.Upsert(ctx, records)
	if err != nil {
		return Result{}, err
	}

	evt := activity.NewEvent(activity.AttendanceMarked, day, fmt.Sprintf("%d records", len(records)), actor)
	if err := s.recorder.Record(ctx, evt); err != nil {
		log.Printf("record attendance for %s failed: %v", day, err)
	}
	return res, nil
}

// ByStudent returns a student's records, oldest first.
func (s *Service) ByStudent(ctx context.Context, studentID string) ([]Record, error) {
	out, err := s.repo.ByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("No attendance records found for this student")
	}
	return out, nil
}
