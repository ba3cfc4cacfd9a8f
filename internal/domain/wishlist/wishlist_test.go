package wishlist

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
)

type fakeStorage struct {
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: make(map[string][]byte)}
}

func (f *fakeStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStorage) Save(_ context.Context, key string, value []byte) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deletes++
	delete(f.data, key)
	return nil
}

func TestStore_Toggle(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	s := NewStore(storage)

	assert.True(t, s.Toggle(ctx, "p2"))
	assert.True(t, s.Toggle(ctx, "p1"))
	assert.True(t, s.Has("p1"))
	assert.Equal(t, []string{"p1", "p2"}, s.IDs())
	assert.Equal(t, `{"version":1,"ids":["p1","p2"]}`, string(storage.data[StorageKey]))

	assert.False(t, s.Toggle(ctx, "p1"))
	assert.False(t, s.Has("p1"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 3, storage.saves)
}

func TestStore_ToggleTwiceRestoresStorage(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	s := NewStore(storage)
	for _, id := range []string{"c", "a", "b"} {
		s.Toggle(ctx, id)
	}

	for _, id := range []string{"a", "b", "c", "new"} {
		before := string(storage.data[StorageKey])
		had := s.Has(id)

		s.Toggle(ctx, id)
		s.Toggle(ctx, id)

		assert.Equal(t, had, s.Has(id), id)
		assert.Equal(t, before, string(storage.data[StorageKey]), id)
	}
}

func TestStore_Hydrate(t *testing.T) {
	tests := []struct {
		name    string
		stored  *string
		loadErr error
		want    []string
	}{
		{name: "missing key", want: []string{}},
		{name: "versioned", stored: ptr(`{"version":1,"ids":["b","a"]}`), want: []string{"a", "b"}},
		{name: "legacy array", stored: ptr(`["x","y","x"]`), want: []string{"x", "y"}},
		{name: "corrupt", stored: ptr(`{oops`), want: []string{}},
		{name: "load error", loadErr: errors.New("disk on fire"), want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			s := NewStore(storage)
			s.Toggle(context.Background(), "stale")
			storage.loadErr = tt.loadErr
			if tt.stored != nil {
				storage.data[StorageKey] = []byte(*tt.stored)
			} else {
				delete(storage.data, StorageKey)
			}

			s.Hydrate(context.Background())
			assert.Equal(t, tt.want, s.IDs())
			assert.False(t, s.Has("stale"))
		})
	}
}

func TestStore_HydrateIdempotent(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	storage.data[StorageKey] = []byte(`["a"]`)

	s := NewStore(storage)
	s.Hydrate(ctx)
	s.Hydrate(ctx)
	assert.Equal(t, []string{"a"}, s.IDs())
}

func TestStore_SaveFailureIsBestEffort(t *testing.T) {
	storage := newFakeStorage()
	storage.saveErr = errors.New("quota exceeded")
	s := NewStore(storage)

	assert.True(t, s.Toggle(context.Background(), "p1"))
	assert.True(t, s.Has("p1"))
	assert.Empty(t, storage.data)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	s := NewStore(storage)
	s.Toggle(ctx, "a")

	calls := 0
	s.Subscribe(func() { calls++ })
	s.Clear(ctx)

	assert.Zero(t, s.Len())
	_, ok := storage.data[StorageKey]
	assert.False(t, ok)
	assert.Equal(t, 1, storage.deletes)
	assert.Equal(t, 1, calls)
}

func ptr(s string) *string { return &s }
