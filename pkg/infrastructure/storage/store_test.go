package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, SlotProducts)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := Has(ctx, store, SlotProducts)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, SlotProducts, []byte(`[{"id":1}]`)))
	require.NoError(t, store.Set(ctx, SlotProducts, []byte(`[{"id":2}]`)))

	value, err := store.Get(ctx, SlotProducts)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2}]`, string(value))

	ok, err = Has(ctx, store, SlotProducts)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Remove(ctx, SlotProducts))
	require.NoError(t, store.Remove(ctx, SlotProducts))
	_, err = store.Get(ctx, SlotProducts)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Close())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	value := []byte(`"a"`)
	require.NoError(t, store.Set(context.Background(), SlotUsers, value))
	value[1] = 'b'

	stored, err := store.Get(context.Background(), SlotUsers)
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(stored))
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set(context.Background(), SlotOrders, []byte(`[]`))
			_, _ = store.Get(context.Background(), SlotOrders)
		}()
	}
	wg.Wait()
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), SlotCurrentUser, []byte(`{"type":"buyer"}`)))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	value, err := reopened.Get(context.Background(), SlotCurrentUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"buyer"}`, string(value))

	_, err = os.Stat(filepath.Join(dir, SlotCurrentUser+".json"))
	assert.NoError(t, err)
}

func TestFileStoreKeepsBytesAsGiven(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), SlotUsers, []byte("{not json")))
	value, err := store.Get(context.Background(), SlotUsers)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(value))

	onDisk, err := os.ReadFile(filepath.Join(dir, SlotUsers+".json"))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(onDisk))
}

func TestStoresAgreeOnOpaqueValues(t *testing.T) {
	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for name, store := range map[string]Store{"memory": NewMemoryStore(), "file": fileStore} {
		t.Run(name, func(t *testing.T) {
			raw := []byte{0x00, 'x', 0xff}
			require.NoError(t, store.Set(context.Background(), SlotForumPosts, raw))
			value, err := store.Get(context.Background(), SlotForumPosts)
			require.NoError(t, err)
			assert.Equal(t, raw, value)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "floppy"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestRetryGivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	attempts := 0
	err := Retry(ctx, time.Second, "test", func() error {
		attempts++
		return errors.New("down")
	})
	require.Error(t, err)
	assert.GreaterOrEqual(t, attempts, 1)
}

func TestRetrySucceeds(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), time.Second, "test", func() error {
		attempts++
		if attempts < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
