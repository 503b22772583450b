package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chitkaraconnect/internal/store"
)

// Store reads user documents. Lookups return nil, nil when nothing matches.
type Store interface {
	FindByRoleID(ctx context.Context, role Role, id int64) (bson.M, error)
	FindByID(ctx context.Context, role Role, id primitive.ObjectID) (bson.M, error)
	// SetPasswordHash stores a bcrypt hash and drops the plain password field.
	SetPasswordHash(ctx context.Context, role Role, id primitive.ObjectID, hash string) error
	List(ctx context.Context, role Role, fields ...string) ([]bson.M, error)
	Count(ctx context.Context, role Role) (int64, error)
}

// MongoStore keeps each role in its own collection.
type MongoStore struct {
	db      *store.Mongo
	timeout time.Duration
}

// NewMongoStore creates a store over the shared database handle.
func NewMongoStore(db *store.Mongo, timeout time.Duration) *MongoStore {
	return &MongoStore{db: db, timeout: timeout}
}

func (s *MongoStore) findOne(ctx context.Context, role Role, filter bson.M) (bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc bson.M
	err := s.db.Collection(role.Collection()).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", role, err)
	}
	return doc, nil
}

func (s *MongoStore) FindByRoleID(ctx context.Context, role Role, id int64) (bson.M, error) {
	return s.findOne(ctx, role, bson.M{role.IDField(): id})
}

func (s *MongoStore) FindByID(ctx context.Context, role Role, id primitive.ObjectID) (bson.M, error) {
	return s.findOne(ctx, role, bson.M{"_id": id})
}

func (s *MongoStore) SetPasswordHash(ctx context.Context, role Role, id primitive.ObjectID, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.db.Collection(role.Collection()).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"passwordHash": hash}, "$unset": bson.M{"password": ""}},
	)
	return err
}

// List returns every document of the role. When fields are given only those
// are returned and _id is dropped.
func (s *MongoStore) List(ctx context.Context, role Role, fields ...string) ([]bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find()
	if len(fields) > 0 {
		proj := bson.M{"_id": 0}
		for _, f := range fields {
			proj[f] = 1
		}
		opts.SetProjection(proj)
	}
	cur, err := s.db.Collection(role.Collection()).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", role, err)
	}
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list %s: %w", role, err)
	}
	return docs, nil
}

func (s *MongoStore) Count(ctx context.Context, role Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.Collection(role.Collection()).CountDocuments(ctx, bson.M{})
}
