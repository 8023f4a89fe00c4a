package imagefs

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestImageStore_PutGetRelease(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)
	ctx := context.Background()
	data := pngBytes(t)

	ref, err := store.Put(ctx, domain.PageImage{Data: data, MIMEType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(ref))

	img, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, data, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)

	require.NoError(t, store.Release(ctx, ref, "never-stored.png"))
	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImageStore_DetectsTypeWhenMissing(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), domain.PageImage{Data: pngBytes(t)})

	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(ref))
}

func TestImageStore_RejectsBadInput(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, domain.PageImage{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.Get(ctx, "../config.toml")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, store.Release(ctx, "../../etc/passwd"), domain.ErrInvalidInput)
}
