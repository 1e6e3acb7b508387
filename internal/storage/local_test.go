package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(ctx, "datasets/abc_data.csv", strings.NewReader("a,b\n1,2\n"), "text/csv")
	require.NoError(t, err)

	rc, err := store.Download(ctx, "datasets/abc_data.csv")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	require.NoError(t, store.Delete(ctx, "datasets/abc_data.csv"))

	_, err = store.Download(ctx, "datasets/abc_data.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalStorageMissingFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "datasets/nope.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(ctx, "../outside.csv", strings.NewReader("x"), "text/csv")
	assert.Error(t, err)

	_, err = store.Download(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), "datasets/gone.jsonl"))
}
