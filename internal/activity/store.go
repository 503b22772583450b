package activity

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chitkaraconnect/internal/store"
)

// Store persists events. Inserting an event id twice is not an error.
type Store interface {
	Insert(ctx context.Context, evt Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

// MongoStore writes to the activity collection.
type MongoStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore creates a store over the shared database handle.
func NewMongoStore(db *store.Mongo, timeout time.Duration) *MongoStore {
	return &MongoStore{coll: db.Collection(store.Activity), timeout: timeout}
}

func (s *MongoStore) Insert(ctx context.Context, evt Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.coll.InsertOne(ctx, evt)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (s *MongoStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return events, nil
}

// MemoryStore keeps events in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string]Event
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string]Event)}
}

func (s *MemoryStore) Insert(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[evt.ID]; !ok {
		s.events[evt.ID] = evt
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.events))
	for _, evt := range s.events {
		out = append(out, evt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
