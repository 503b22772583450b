package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chitkaraconnect/internal/store"
)

// Repository persists attendance records.
type Repository interface {
	// Upsert writes one record per entry keyed on (studentId, date).
	Upsert(ctx context.Context, records []Record) (Result, error)
	// ByStudent returns a student's records ordered by date.
	ByStudent(ctx context.Context, studentID string) ([]Record, error)
}

// MongoRepository stores attendance in MongoDB.
type MongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoRepository creates a repo over the shared database handle.
func NewMongoRepository(db *store.Mongo, timeout time.Duration) *MongoRepository {
	return &MongoRepository{coll: db.Collection(store.Attendance), timeout: timeout}
}

// Upsert sends every record in a single ordered bulk write.
func (r *MongoRepository) Upsert(ctx context.Context, records []Record) (Result, error) {
	if len(records) == 0 {
		return Result{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"studentId": rec.StudentID, "date": rec.Date}).
			SetUpdate(bson.M{"$set": bson.M{"status": rec.Status}}).
			SetUpsert(true))
	}
	res, err := r.coll.BulkWrite(ctx, models)
	if err != nil {
		return Result{}, fmt.Errorf("bulk write attendance: %w", err)
	}
	return Result{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}, nil
}

func (r *MongoRepository) ByStudent(ctx context.Context, studentID string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"studentId": studentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find attendance for %s: %w", studentID, err)
	}
	out := []Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("find attendance for %s: %w", studentID, err)
	}
	return out, nil
}

type recordKey struct {
	studentID string
	date      string
}

// MemoryRepository keeps attendance in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[recordKey]Record
}

// NewMemoryRepository creates an empty repo.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[recordKey]Record)}
}

func (r *MemoryRepository) Upsert(_ context.Context, records []Record) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res Result
	for _, rec := range records {
		key := recordKey{rec.StudentID, rec.Date}
		existing, ok := r.records[key]
		if !ok {
			rec.ID = primitive.NewObjectID()
			r.records[key] = rec
			res.UpsertedCount++
			continue
		}
		res.MatchedCount++
		if existing.Status != rec.Status {
			existing.Status = rec.Status
			r.records[key] = existing
			res.ModifiedCount++
		}
	}
	return res, nil
}

func (r *MemoryRepository) ByStudent(_ context.Context, studentID string) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Record{}
	for key, rec := range r.records {
		if key.studentID == studentID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
