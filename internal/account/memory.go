package account

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/numeric"
)

// MemoryStore keeps user documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[Role][]bson.M
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[Role][]bson.M)}
}

// Add inserts a copy of doc, assigning an _id when missing, and returns the id.
func (s *MemoryStore) Add(role Role, doc bson.M) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := copyDoc(doc)
	id, ok := cp["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		cp["_id"] = id
	}
	s.docs[role] = append(s.docs[role], cp)
	return id
}

func (s *MemoryStore) FindByRoleID(_ context.Context, role Role, id int64) (bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs[role] {
		if v, ok := numeric.FromAny(doc[role.IDField()]); ok && v == id {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindByID(_ context.Context, role Role, id primitive.ObjectID) (bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs[role] {
		if doc["_id"] == id {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) SetPasswordHash(_ context.Context, role Role, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs[role] {
		if doc["_id"] == id {
			doc["passwordHash"] = hash
			delete(doc, "password")
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, role Role, fields ...string) ([]bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]bson.M, 0, len(s.docs[role]))
	for _, doc := range s.docs[role] {
		if len(fields) == 0 {
			out = append(out, copyDoc(doc))
			continue
		}
		proj := bson.M{}
		for _, f := range fields {
			if v, ok := doc[f]; ok {
				proj[f] = v
			}
		}
		out = append(out, proj)
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context, role Role) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs[role])), nil
}

func copyDoc(doc bson.M) bson.M {
	cp := make(bson.M, len(doc))
	for k, v := range doc {
		cp[k] = v
	}
	return cp
}
