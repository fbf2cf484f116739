package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"profile-site/pkg/gallery"
	"profile-site/pkg/site"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

type countingResolver struct {
	calls  atomic.Int32
	assets map[string]string
	err    error
}

func (r *countingResolver) Resolve(context.Context) (map[string]string, error) {
	r.calls.Add(1)
	return r.assets, r.err
}

func newTestService(t *testing.T, r gallery.AssetResolver) *Service {
	t.Helper()
	return NewService(site.Default(), r, "gallery", gallery.Options{}, zaptest.NewLogger(t))
}

func TestCatalogIsCached(t *testing.T) {
	r := &countingResolver{assets: map[string]string{
		"gallery/cats/a.jpg": "/a.jpg",
		"gallery/root.png":   "/root.png",
	}}
	s := newTestService(t, r)

	first := s.Catalog(context.Background())
	second := s.Catalog(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"All", "cats"}, first.Groups)
	assert.EqualValues(t, 1, r.calls.Load())

	s.Invalidate()
	s.Catalog(context.Background())
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestCatalogFallsBackWhenEmpty(t *testing.T) {
	s := newTestService(t, &countingResolver{assets: map[string]string{}})

	catalog := s.Catalog(context.Background())
	assert.Equal(t, site.Default().Gallery, catalog)
}

func TestCatalogFallsBackOnError(t *testing.T) {
	r := &countingResolver{err: errors.New("bucket unavailable")}
	s := newTestService(t, r)

	catalog := s.Catalog(context.Background())
	assert.Equal(t, site.Default().Gallery, catalog)

	// failures are not cached
	s.Catalog(context.Background())
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestBuildReturnsEmptyCatalog(t *testing.T) {
	s := newTestService(t, &countingResolver{assets: map[string]string{}})

	catalog, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, catalog.Empty())
}

func TestGroup(t *testing.T) {
	s := newTestService(t, &countingResolver{assets: map[string]string{
		"gallery/cats/a.jpg": "/a.jpg",
		"gallery/cats/b.jpg": "/b.jpg",
		"gallery/dogs/c.jpg": "/c.jpg",
	}})

	items, err := s.Group(context.Background(), "cats")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Title)

	_, err = s.Group(context.Background(), "birds")
	assert.Error(t, err)

	assert.Equal(t, []string{"cats", "dogs"}, s.Groups(context.Background()))
}

func TestWatcherInvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cats"), 0o755))

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(dir, 20*time.Millisecond, func() { changed <- struct{}{} }, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cats", "a.jpg"), []byte{byte(i)}, 0o644))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
