// Package account resolves logins and profiles across the student, teacher and
// admin collections.
package account

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/numeric"
	"chitkaraconnect/internal/store"
)

// Role selects one of the three user collections.
type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Admin   Role = "admin"
)

// LoginOrder is the order in which collections are probed for a login id.
var LoginOrder = []Role{Student, Teacher, Admin}

// ParseRole accepts the role names carried in tokens.
func ParseRole(s string) (Role, bool) {
	for _, r := range LoginOrder {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// IDField is the document field holding the role-specific numeric id.
func (r Role) IDField() string {
	switch r {
	case Student:
		return "RollNo"
	case Teacher:
		return "teacherId"
	case Admin:
		return "adminId"
	}
	return ""
}

// Collection is the Mongo collection for the role.
func (r Role) Collection() string {
	switch r {
	case Student:
		return store.Students
	case Teacher:
		return store.Teachers
	case Admin:
		return store.Admins
	}
	return ""
}

// Account is the identity part of a user document.
type Account struct {
	ID           primitive.ObjectID
	Role         Role
	RoleID       int64
	Name         string
	Email        string
	LegacyPass   int64
	HasLegacy    bool
	PasswordHash string
}

// FromDocument extracts the identity fields of a user document.
func FromDocument(role Role, doc bson.M) *Account {
	acc := &Account{Role: role}
	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		acc.ID = id
	}
	acc.RoleID, _ = numeric.FromAny(doc[role.IDField()])
	acc.Name, _ = doc["name"].(string)
	acc.Email, _ = doc["email"].(string)
	acc.LegacyPass, acc.HasLegacy = numeric.FromAny(doc["password"])
	acc.PasswordHash, _ = doc["passwordHash"].(string)
	return acc
}

// Sanitize removes credential fields before a document leaves the API.
func Sanitize(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if k == "password" || k == "passwordHash" {
			continue
		}
		out[k] = v
	}
	return out
}
