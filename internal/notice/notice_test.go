package notice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/store"
)

func TestCreateTagsByKind(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryDocs())

	for kind, tag := range map[string]string{
		"mentorNotice":  TagMentor,
		"eventNotice":   TagEvent,
		"generalNotice": TagGeneral,
	} {
		_, err := svc.Create(ctx, kind, map[string]any{"heading": kind, "tag": "spoofed"})
		require.NoError(t, err)

		got, err := svc.ByTag(ctx, tag)
		require.NoError(t, err)
		require.Len(t, got, 1, kind)
		assert.Equal(t, kind, got[0]["heading"])
	}

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	svc := NewService(store.NewMemoryDocs())
	_, err := svc.Create(context.Background(), "memo", nil)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
	assert.Equal(t, "Invalid notice type", apperr.Message(err, ""))
}

func TestByTagEmpty(t *testing.T) {
	svc := NewService(store.NewMemoryDocs())
	got, err := svc.ByTag(context.Background(), TagEvent)
	require.NoError(t, err)
	assert.Empty(t, got)
}
