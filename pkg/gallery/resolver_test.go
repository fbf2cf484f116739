package gallery

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemResolver(t *testing.T, files ...string) *FSResolver {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/site/gallery", f), []byte("img"), 0o644))
	}
	return &FSResolver{Fs: fs, Root: "/site/gallery", BaseURL: "/assets/gallery/"}
}

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.png", "a.jpg", "a.jpeg", "a.webp", "a.gif", "a.avif", "A.PNG"} {
		assert.True(t, IsImage(name), name)
	}
	for _, name := range []string{"a.svg", "a.txt", "a", "png", "a.png.bak"} {
		assert.False(t, IsImage(name), name)
	}
}

func TestFSResolverResolve(t *testing.T) {
	r := newMemResolver(t, "cats/a.jpg", "cats/notes.md", "root.png", "trips/summer 2024/beach.webp")

	assets, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		filepath.Join("/site/gallery", "cats/a.jpg"):                   "/assets/gallery/cats/a.jpg",
		filepath.Join("/site/gallery", "root.png"):                     "/assets/gallery/root.png",
		filepath.Join("/site/gallery", "trips/summer 2024/beach.webp"): "/assets/gallery/trips/summer%202024/beach.webp",
	}, assets)
}

func TestFSResolverMissingRoot(t *testing.T) {
	r := &FSResolver{Fs: afero.NewMemMapFs(), Root: "/nope", BaseURL: "/"}

	assets, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestFSResolverCancelled(t *testing.T) {
	r := newMemResolver(t, "a.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBuildFromFS(t *testing.T) {
	r := newMemResolver(t, "cats/a.jpg", "cats/b.png", "root.png")

	catalog, err := Build(context.Background(), r, r.Root, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"All", "cats"}, catalog.Groups)
	require.Len(t, catalog.Items, 3)
	assert.Equal(t, "root", catalog.Items[2].Title)
	assert.Equal(t, "All", catalog.Items[2].Group)
	assert.Equal(t, "/assets/gallery/root.png", catalog.Items[2].Src)
}

func TestAssetURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/g/a%20b/c.png", assetURL("https://cdn.example.com/g", "a b/c.png"))
	assert.Equal(t, "/g/c.png", assetURL("/g/", "c.png"))
}

type fakeSource struct {
	names   []string
	failing map[string]bool
	listErr error
}

func (f *fakeSource) List(context.Context, string) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeSource) Sign(name string) (string, error) {
	if f.failing[name] {
		return "", errors.New("no signer")
	}
	return "https://storage.example.com/" + name + "?sig=1", nil
}

func TestBucketResolverResolve(t *testing.T) {
	r := &BucketResolver{
		Prefix: "gallery/",
		source: &fakeSource{
			names:   []string{"gallery/cats/a.jpg", "gallery/readme.txt", "gallery/b.png", "gallery/broken.gif"},
			failing: map[string]bool{"gallery/broken.gif": true},
		},
	}

	assets, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"gallery/cats/a.jpg": "https://storage.example.com/gallery/cats/a.jpg?sig=1",
		"gallery/b.png":      "https://storage.example.com/gallery/b.png?sig=1",
	}, assets)

	catalog := BuildCatalog(assets, r.Prefix, Options{})
	assert.Equal(t, []string{"All", "cats"}, catalog.Groups)
	assert.NoError(t, r.Close())
}

func TestBucketResolverListError(t *testing.T) {
	r := &BucketResolver{source: &fakeSource{listErr: errors.New("denied")}}

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
}
