// Package gatepass implements student leave requests and the teacher decision
// workflow over them.
package gatepass

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/store"
)

// Status is the decision state of a gate pass.
type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

// ParseStatus accepts the three known states.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case Pending, Approved, Rejected:
		return Status(s), true
	}
	return "", false
}

// Decision reports whether s is a state a teacher can move a pass into.
func (s Status) Decision() bool {
	return s == Approved || s == Rejected
}

// Gatepass is a stored request.
type Gatepass struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"name" json:"name"`
	RollNo         store.Int64        `bson:"rollNo" json:"rollNo"`
	Email          string             `bson:"email" json:"email"`
	Contact        store.Text         `bson:"contact" json:"contact"`
	Date           string             `bson:"date" json:"date"`
	Time           string             `bson:"time" json:"time"`
	Reason         string             `bson:"reason" json:"reason"`
	ApprovedStatus Status             `bson:"approvedStatus" json:"approvedStatus"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
