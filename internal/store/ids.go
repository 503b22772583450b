package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chitkaraconnect/internal/apperr"
)

// ParseID converts a hex document id from a request into an ObjectID.
func ParseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Invalid("invalid %s: %s", field, hex)
	}
	return id, nil
}
