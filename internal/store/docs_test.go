package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryDocsFindMatchesNumbersByValue(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDocs()
	_, err := d.Insert(ctx, bson.M{"RollNo": int32(7), "cgpa": 8.1})
	require.NoError(t, err)
	_, err = d.Insert(ctx, bson.M{"RollNo": 8.0})
	require.NoError(t, err)

	got, err := d.Find(ctx, bson.M{"RollNo": int64(7)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 8.1, got[0]["cgpa"])

	got, err = d.Find(ctx, bson.M{"RollNo": int64(8)})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = d.Find(ctx, bson.M{"RollNo": "7"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryDocsInsertStructAndProject(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDocs()
	type row struct {
		Name  string `bson:"name"`
		Group string `bson:"group"`
	}
	id, err := d.Insert(ctx, row{Name: "Asha", Group: "G1"})
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	all, err := d.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0]["_id"].(primitive.ObjectID))

	named, err := d.Find(ctx, nil, "name")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"name": "Asha"}, named[0])

	n, err := d.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID("gatepassId", id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("gatepassId", "zzz")
	assert.EqualError(t, err, "invalid gatepassId: zzz")
}
