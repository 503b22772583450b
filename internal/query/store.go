package query

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chitkaraconnect/internal/store"
)

// Filter selects queries. Nil fields match everything.
type Filter struct {
	Solved *bool
	RollNo *int64
}

// Store persists queries.
type Store interface {
	Insert(ctx context.Context, q Query) (primitive.ObjectID, error)
	Find(ctx context.Context, f Filter) ([]Query, error)
	// SetSolution reports whether a document matched and whether it changed.
	SetSolution(ctx context.Context, id primitive.ObjectID, solution string) (matched, modified bool, err error)
	Count(ctx context.Context) (int64, error)
}

// MongoStore uses the queries collection.
type MongoStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore creates a store over the shared database handle.
func NewMongoStore(db *store.Mongo, timeout time.Duration) *MongoStore {
	return &MongoStore{coll: db.Collection(store.Queries), timeout: timeout}
}

func (s *MongoStore) Insert(ctx context.Context, q Query) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, q); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert query: %w", err)
	}
	return q.ID, nil
}

func (s *MongoStore) Find(ctx context.Context, f Filter) ([]Query, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{}
	if f.Solved != nil {
		if *f.Solved {
			filter["solution"] = bson.M{"$ne": UnsolvedSentinel}
		} else {
			filter["solution"] = UnsolvedSentinel
		}
	}
	if f.RollNo != nil {
		filter["rollNo"] = store.RollNoMatch(*f.RollNo)
	}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find queries: %w", err)
	}
	out := []Query{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("find queries: %w", err)
	}
	return out, nil
}

func (s *MongoStore) SetSolution(ctx context.Context, id primitive.ObjectID, solution string) (bool, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"solution": solution}})
	if err != nil {
		return false, false, fmt.Errorf("update query %s: %w", id.Hex(), err)
	}
	return res.MatchedCount > 0, res.ModifiedCount > 0, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.coll.CountDocuments(ctx, bson.M{})
}

// MemoryStore keeps queries in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]Query
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[primitive.ObjectID]Query)}
}

func (s *MemoryStore) Insert(_ context.Context, q Query) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	q.Tags = append([]string{}, q.Tags...)
	s.docs[q.ID] = q
	return q.ID, nil
}

func (s *MemoryStore) Find(_ context.Context, f Filter) ([]Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Query{}
	for _, q := range s.docs {
		if f.Solved != nil && q.Solved() != *f.Solved {
			continue
		}
		if f.RollNo != nil && int64(q.RollNo) != *f.RollNo {
			continue
		}
		q.Tags = append([]string{}, q.Tags...)
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) SetSolution(_ context.Context, id primitive.ObjectID, solution string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.docs[id]
	if !ok {
		return false, false, nil
	}
	if q.Solution == solution {
		return true, false, nil
	}
	q.Solution = solution
	s.docs[id] = q
	return true, true, nil
}

func (s *MemoryStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}
