package store

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"chitkaraconnect/internal/numeric"
)

// Int64 is an integer field that older documents may hold as a double, an
// int32 or a numeric string. Values that cannot be read decode as zero.
type Int64 int64

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (n *Int64) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	v, _ := numeric.FromAny(scalar(t, data))
	*n = Int64(v)
	return nil
}

// Text is a string field that older documents may hold as a number, such as
// a phone number copied from a profile.
type Text string

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (s *Text) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch v := scalar(t, data).(type) {
	case string:
		*s = Text(v)
	case int32:
		*s = Text(strconv.FormatInt(int64(v), 10))
	case int64:
		*s = Text(strconv.FormatInt(v, 10))
	case float64:
		*s = Text(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		*s = ""
	}
	return nil
}

// RollNoMatch matches a roll number stored either as a number or as its
// decimal string.
func RollNoMatch(rollNo int64) bson.M {
	return bson.M{"$in": bson.A{rollNo, strconv.FormatInt(rollNo, 10)}}
}

func scalar(t bsontype.Type, data []byte) any {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		return rv.StringValue()
	case bsontype.Int32:
		return rv.Int32()
	case bsontype.Int64:
		return rv.Int64()
	case bsontype.Double:
		return rv.Double()
	case bsontype.Decimal128:
		if f, err := strconv.ParseFloat(rv.Decimal128().String(), 64); err == nil {
			return f
		}
	}
	return nil
}
