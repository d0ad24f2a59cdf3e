package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "recipes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "recipes", "[]"))
	v, ok, err := m.Get(ctx, "recipes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, m.Delete(ctx, "recipes"))
	_, ok, _ = m.Get(ctx, "recipes")
	assert.False(t, ok)
}

func TestMemory_KeysSorted(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, m.Set(ctx, k, k))
	}
	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestMemory_FailSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "recipes", "old"))

	full := errors.New("quota exceeded")
	m.FailSet = full
	err := m.Set(ctx, "recipes", "new")
	assert.ErrorIs(t, err, full)

	v, _, _ := m.Get(ctx, "recipes")
	assert.Equal(t, "old", v)
}
