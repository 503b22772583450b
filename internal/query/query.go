// Package query implements the student question board and its resolution
// workflow.
package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/store"
)

// UnsolvedSentinel is the stored solution of an unanswered query. Clients
// filter on this exact string, so it is kept instead of a real null.
const UnsolvedSentinel = "null"

// Query is a stored question.
type Query struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	RollNo      store.Int64        `bson:"rollNo" json:"rollNo"`
	Email       string             `bson:"email" json:"email"`
	Topic       string             `bson:"topic" json:"topic"`
	Tags        []string           `bson:"tags" json:"tags"`
	Description string             `bson:"description" json:"description"`
	Likes       int64              `bson:"likes" json:"likes"`
	Solution    string             `bson:"solution" json:"solution"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Solved reports whether the query has an answer.
func (q Query) Solved() bool {
	return q.Solution != UnsolvedSentinel
}
