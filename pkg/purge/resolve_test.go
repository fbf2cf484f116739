package purge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testBase = "https://www.example.com"

func TestResolveURLs(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		want     []string
		warnings int
	}{
		{
			name: "explicit urls verbatim",
			in: Input{
				ExplicitURLs: `["https://a.example/x", "https://a.example/x", 42]`,
				ChangedPaths: `["public/ignored.png"]`,
			},
			want: []string{"https://a.example/x", "https://a.example/x", "42"},
		},
		{
			name: "empty explicit falls through to changed paths",
			in: Input{
				ExplicitURLs: `[]`,
				ChangedPaths: `["index.html"]`,
			},
			want: []string{testBase + "/"},
		},
		{
			name: "malformed explicit falls through with warning",
			in: Input{
				ExplicitURLs: `[not json`,
				ChangedPaths: `["public/a.png"]`,
			},
			want:     []string{testBase + "/a.png"},
			warnings: 1,
		},
		{
			name: "changed paths mapped and deduplicated",
			in: Input{
				ChangedPaths: `["public/a.png", "README.md", "./public/a.png", "src/assets/b.jpg", "index.html", "assets/c.css"]`,
			},
			want: []string{
				testBase + "/a.png",
				testBase + "/assets/b.jpg",
				testBase + "/",
				testBase + "/c.css",
			},
		},
		{
			name: "unmapped paths only",
			in:   Input{ChangedPaths: `["README.md", "go.mod"]`},
			want: nil,
		},
		{
			name:     "malformed changed paths",
			in:       Input{ChangedPaths: `{"a": 1}`},
			want:     nil,
			warnings: 1,
		},
		{
			name: "non-string changed entries skipped",
			in:   Input{ChangedPaths: `[1, null, "public/a.png"]`},
			want: []string{testBase + "/a.png"},
		},
		{
			name: "no inputs",
			in:   Input{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			tt.in.BaseURL = testBase

			got, err := ResolveURLs(tt.in, zap.New(core))
			require.NoError(t, err)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.warnings, logs.Len())
		})
	}
}

func TestResolveURLsBaseURL(t *testing.T) {
	t.Run("explicit urls ignore base", func(t *testing.T) {
		got, err := ResolveURLs(Input{ExplicitURLs: `["https://a.example/x"]`, BaseURL: "www.example.com"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example/x"}, got)
	})

	t.Run("no changed paths ignore base", func(t *testing.T) {
		got, err := ResolveURLs(Input{BaseURL: "not a url"}, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	for _, base := range []string{"www.example.com", "ftp://example.com", "https://", ""} {
		t.Run("mapping rejects "+base, func(t *testing.T) {
			_, err := ResolveURLs(Input{ChangedPaths: `["index.html"]`, BaseURL: base}, nil)
			assert.ErrorIs(t, err, ErrBaseURLInvalid)
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "1.5", stringify(1.5))
	assert.Equal(t, "true", stringify(true))
	assert.Equal(t, "null", stringify(nil))
	assert.Equal(t, `{"a":1}`, stringify(map[string]any{"a": 1}))
}
