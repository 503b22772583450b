package performance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/store"
)

func TestByRollNo(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryDocs()
	_, err := docs.Insert(ctx, bson.M{"RollNo": int32(2021001), "CGPA": 8.4})
	require.NoError(t, err)
	_, err = docs.Insert(ctx, bson.M{"RollNo": int32(2021002), "CGPA": 7.9})
	require.NoError(t, err)
	svc := NewService(docs)

	got, err := svc.ByRollNo(ctx, 2021001)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 8.4, got[0]["CGPA"])

	_, err = svc.ByRollNo(ctx, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "No performance data found for RollNo: 1", apperr.Message(err, ""))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
