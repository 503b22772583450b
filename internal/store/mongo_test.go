package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// connectTestMongo connects to MONGODB_TEST_URI and skips the test when it is unset.
func connectTestMongo(t *testing.T) *Mongo {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := NewMongo(ctx, uri, "chitkaraconnect_test_"+time.Now().Format("150405"))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = m.DB.Drop(ctx)
		_ = m.Close(ctx)
	})
	return m
}

func TestMongoDocsAgainstServer(t *testing.T) {
	m := connectTestMongo(t)
	ctx := context.Background()
	assert.True(t, m.Healthy(ctx))

	d := NewMongoDocs(m, Notices, 5*time.Second)
	_, err := d.Insert(ctx, bson.M{"tag": "event", "title": "Fest"})
	require.NoError(t, err)
	_, err = d.Insert(ctx, bson.M{"tag": "mentor", "title": "Meet"})
	require.NoError(t, err)

	got, err := d.Find(ctx, bson.M{"tag": "event"}, "title")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bson.M{"title": "Fest"}, got[0])

	n, err := d.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
