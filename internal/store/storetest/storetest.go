// Package storetest contains the behavior every store.Store implementation is expected to have.
package storetest

import (
	"context"
	"github.com/cirruslabs/hashmap/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"testing"
)

func Run(t *testing.T, store store.Store) {
	t.Helper()

	t.Run("Simple", func(t *testing.T) {
		testSimple(t, store)
	})
	t.Run("UpdateAbsent", func(t *testing.T) {
		testUpdateAbsent(t, store)
	})
	t.Run("EmptyValue", func(t *testing.T) {
		testEmptyValue(t, store)
	})
	t.Run("LargeValue", func(t *testing.T) {
		testLargeValue(t, store)
	})
}

func testSimple(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := uuid.NewString()

	// Retrieval of a non-existent key should fail with ErrNotFound
	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, store.ErrNotFound)

	// ...but deletion should not
	require.NoError(t, s.Delete(ctx, key))

	// Insertion of a non-existent key should succeed
	require.NoError(t, s.Set(ctx, key, []byte("Hello, World!")))

	value, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("Hello, World!"), value)

	// Re-insertion of an existent key should overwrite it
	require.NoError(t, s.Set(ctx, key, []byte("Bye bye!")))

	value, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("Bye bye!"), value)

	// Update of an existent key should overwrite it
	require.NoError(t, s.Update(ctx, key, []byte("Hello again!")))

	value, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("Hello again!"), value)

	// Deletion of an existent key should succeed
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testUpdateAbsent(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := uuid.NewString()

	// Update of a non-existent key is a no-op
	require.NoError(t, s.Update(ctx, key, []byte("Hello, World!")))

	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testEmptyValue(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := uuid.NewString()

	// Empty values should be distinguishable from absent keys
	require.NoError(t, s.Set(ctx, key, []byte{}))

	value, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, value)
	require.Empty(t, value)
}

func testLargeValue(t *testing.T, s store.Store) {
	ctx := context.Background()
	key := uuid.NewString()

	expectedValue := make([]byte, 64*1024)

	for i := range expectedValue {
		expectedValue[i] = byte(i % 251)
	}

	require.NoError(t, s.Set(ctx, key, expectedValue))

	value, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, expectedValue, value)
}
