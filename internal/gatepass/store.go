package gatepass

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chitkaraconnect/internal/store"
)

// ErrNotPending is returned by SetStatus when the pass exists but was already decided.
var ErrNotPending = errors.New("gatepass already decided")

// Store persists gate passes.
type Store interface {
	Insert(ctx context.Context, gp Gatepass) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Gatepass, error)
	// List filters by status and, when rollNo is non-nil, by requester.
	List(ctx context.Context, status Status, rollNo *int64) ([]Gatepass, error)
	// SetStatus reports whether a document matched. With requirePending an
	// existing pass that is not pending yields ErrNotPending.
	SetStatus(ctx context.Context, id primitive.ObjectID, status Status, requirePending bool) (bool, error)
}

// MongoStore uses the gatepass collection.
type MongoStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore creates a store over the shared database handle.
func NewMongoStore(db *store.Mongo, timeout time.Duration) *MongoStore {
	return &MongoStore{coll: db.Collection(store.Gatepasses), timeout: timeout}
}

func (s *MongoStore) Insert(ctx context.Context, gp Gatepass) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if gp.ID.IsZero() {
		gp.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, gp); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert gatepass: %w", err)
	}
	return gp.ID, nil
}

func (s *MongoStore) Get(ctx context.Context, id primitive.ObjectID) (*Gatepass, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var gp Gatepass
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&gp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get gatepass %s: %w", id.Hex(), err)
	}
	return &gp, nil
}

func (s *MongoStore) List(ctx context.Context, status Status, rollNo *int64) ([]Gatepass, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{"approvedStatus": status}
	if rollNo != nil {
		filter["rollNo"] = store.RollNoMatch(*rollNo)
	}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s gatepasses: %w", status, err)
	}
	out := []Gatepass{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list %s gatepasses: %w", status, err)
	}
	return out, nil
}

func (s *MongoStore) SetStatus(ctx context.Context, id primitive.ObjectID, status Status, requirePending bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if requirePending {
		filter["approvedStatus"] = Pending
	}
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"approvedStatus": status}})
	if err != nil {
		return false, fmt.Errorf("update gatepass %s: %w", id.Hex(), err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	if !requirePending {
		return false, nil
	}

	// Nothing pending matched; tell a decided pass apart from a missing one.
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("update gatepass %s: %w", id.Hex(), err)
	}
	if n > 0 {
		return false, ErrNotPending
	}
	return false, nil
}

// MemoryStore keeps gate passes in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]Gatepass
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[primitive.ObjectID]Gatepass)}
}

func (s *MemoryStore) Insert(_ context.Context, gp Gatepass) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gp.ID.IsZero() {
		gp.ID = primitive.NewObjectID()
	}
	s.docs[gp.ID] = gp
	return gp.ID, nil
}

func (s *MemoryStore) Get(_ context.Context, id primitive.ObjectID) (*Gatepass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gp, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return &gp, nil
}

func (s *MemoryStore) List(_ context.Context, status Status, rollNo *int64) ([]Gatepass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Gatepass{}
	for _, gp := range s.docs {
		if gp.ApprovedStatus != status {
			continue
		}
		if rollNo != nil && int64(gp.RollNo) != *rollNo {
			continue
		}
		out = append(out, gp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) SetStatus(_ context.Context, id primitive.ObjectID, status Status, requirePending bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gp, ok := s.docs[id]
	if !ok {
		return false, nil
	}
	if requirePending && gp.ApprovedStatus != Pending {
		return false, ErrNotPending
	}
	gp.ApprovedStatus = status
	s.docs[id] = gp
	return true, nil
}
