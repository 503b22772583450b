package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Docs is a loosely typed collection. Filters are plain equality matches.
type Docs interface {
	Insert(ctx context.Context, doc any) (primitive.ObjectID, error)
	Find(ctx context.Context, filter bson.M, fields ...string) ([]bson.M, error)
	Count(ctx context.Context) (int64, error)
}

// MongoDocs runs Docs operations against one collection.
type MongoDocs struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoDocs wraps the named collection.
func NewMongoDocs(db *Mongo, name string, timeout time.Duration) *MongoDocs {
	return &MongoDocs{coll: db.Collection(name), timeout: timeout}
}

func (d *MongoDocs) Insert(ctx context.Context, doc any) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	res, err := d.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", d.coll.Name(), err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// Find returns matching documents. When fields are given only those are
// returned and _id is dropped.
func (d *MongoDocs) Find(ctx context.Context, filter bson.M, fields ...string) ([]bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if len(fields) > 0 {
		proj := bson.M{"_id": 0}
		for _, f := range fields {
			proj[f] = 1
		}
		opts.SetProjection(proj)
	}
	cur, err := d.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", d.coll.Name(), err)
	}
	out := []bson.M{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("find in %s: %w", d.coll.Name(), err)
	}
	return out, nil
}

func (d *MongoDocs) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.coll.CountDocuments(ctx, bson.M{})
}

// MemoryDocs keeps documents in insertion order. Inserted values are
// round-tripped through BSON so they read back the way Mongo would return them.
type MemoryDocs struct {
	mu   sync.RWMutex
	docs []bson.M
}

// NewMemoryDocs creates an empty collection.
func NewMemoryDocs() *MemoryDocs {
	return &MemoryDocs{}
}

func (d *MemoryDocs) Insert(_ context.Context, doc any) (primitive.ObjectID, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return primitive.NilObjectID, fmt.Errorf("decode document: %w", err)
	}
	id, ok := m["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		m["_id"] = id
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs = append(d.docs, m)
	return id, nil
}

func (d *MemoryDocs) Find(_ context.Context, filter bson.M, fields ...string) ([]bson.M, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []bson.M{}
	for _, doc := range d.docs {
		if !matches(doc, filter) {
			continue
		}
		out = append(out, project(doc, fields))
	}
	return out, nil
}

func (d *MemoryDocs) Count(context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.docs)), nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if !equalValue(doc[k], want) {
			return false
		}
	}
	return true
}

// equalValue compares numbers by value regardless of their Go type, the way
// Mongo compares int32, int64 and double.
func equalValue(a, b any) bool {
	fa, aNum := asFloat(a)
	fb, bNum := asFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func project(doc bson.M, fields []string) bson.M {
	out := bson.M{}
	if len(fields) == 0 {
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
