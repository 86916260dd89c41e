package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDetectionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	payload := []byte(`{"has_phi":true,"phi_count":1}`)
	require.NoError(t, store.PutDetection("abc123", payload))

	got, ok, err := store.GetDetection("abc123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestGetDetectionMissing(t *testing.T) {
	store := newTestStore(t)

	got, ok, err := store.GetDetection("never-stored")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestPutDetectionOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PutDetection("key", []byte("old")))
	require.NoError(t, store.PutDetection("key", []byte("new")))

	got, ok, err := store.GetDetection("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()

	store, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, store.PutDetection("key", []byte("value")))
	require.NoError(t, store.Close())

	store, err = New(dir)
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := store.GetDetection("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}

func TestCloseNilSafe(t *testing.T) {
	var store Store
	assert.NoError(t, store.Close())
}
