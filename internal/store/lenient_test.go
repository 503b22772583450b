package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLenientFieldsDecode(t *testing.T) {
	type row struct {
		RollNo  Int64 `bson:"rollNo"`
		Contact Text  `bson:"contact"`
	}
	dec128, err := primitive.ParseDecimal128("2021001")
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     bson.M
		rollNo  int64
		contact string
	}{
		{"typed", bson.M{"rollNo": int64(2021001), "contact": "98765"}, 2021001, "98765"},
		{"int32 and int64", bson.M{"rollNo": int32(2021001), "contact": int64(9876543210)}, 2021001, "9876543210"},
		{"string roll number", bson.M{"rollNo": "2021001", "contact": int32(98765)}, 2021001, "98765"},
		{"doubles", bson.M{"rollNo": 2021001.0, "contact": 9876543210.0}, 2021001, "9876543210"},
		{"decimal", bson.M{"rollNo": dec128}, 2021001, ""},
		{"nulls", bson.M{"rollNo": nil, "contact": nil}, 0, ""},
		{"garbage", bson.M{"rollNo": "abc", "contact": bson.A{"x"}}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			require.NoError(t, err)
			var got row
			require.NoError(t, bson.Unmarshal(raw, &got))
			assert.EqualValues(t, tt.rollNo, got.RollNo)
			assert.EqualValues(t, tt.contact, got.Contact)
		})
	}
}

func TestLenientFieldsEncodeTyped(t *testing.T) {
	raw, err := bson.Marshal(struct {
		RollNo  Int64 `bson:"rollNo"`
		Contact Text  `bson:"contact"`
	}{2021001, "98765"})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, int64(2021001), doc["rollNo"])
	assert.Equal(t, "98765", doc["contact"])
}

func TestRollNoMatch(t *testing.T) {
	assert.Equal(t, bson.M{"$in": bson.A{int64(7), "7"}}, RollNoMatch(7))
}
