package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

func TestImageStore_PutGetRelease(t *testing.T) {
	store := NewImageStore()
	ctx := context.Background()

	a, err := store.Put(ctx, domain.PageImage{Data: []byte("png-a"), MIMEType: "image/png"})
	require.NoError(t, err)
	b, err := store.Put(ctx, domain.PageImage{Data: []byte("png-b"), MIMEType: "image/png"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, store.Len())

	img, err := store.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-a"), img.Data)

	require.NoError(t, store.Release(ctx, a, "unknown"))
	_, err = store.Get(ctx, a)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, store.Len())
}
