package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k1 := Key("photos", "Me.JPG")
	k2 := Key("photos", "Me.JPG")

	assert.True(t, strings.HasPrefix(k1, "photos/"))
	assert.True(t, strings.HasSuffix(k1, ".jpg"))
	assert.NotEqual(t, k1, k2)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "a/b.png", strings.NewReader("png"), 3, "image/png"))
	assert.True(t, s.Has("a/b.png"))

	r, info, err := s.Get(ctx, "a/b.png")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", info.ContentType)
	assert.EqualValues(t, 3, info.Size)

	require.NoError(t, s.Delete(ctx, "a/b.png"))
	_, _, err = s.Get(ctx, "a/b.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.Equal(t, 0, s.Len())
}
