package inline

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
}

func TestInlineCSS(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"dist/index.html": `<!doctype html><html><head>` +
			`<link rel="stylesheet" href="/assets/app.css">` +
			`<link rel="stylesheet" href="https://cdn.example.com/font.css">` +
			`</head><body><p>hi</p></body></html>`,
		"dist/about/index.html": `<html><head><link rel="stylesheet" href="../assets/app.css" media="screen"></head><body></body></html>`,
		"dist/plain.html":       `<html><head><title>x</title></head><body></body></html>`,
		"dist/assets/app.css":   `body{color:red}`,
	})

	modified, err := InlineCSS(fs, "dist")
	require.NoError(t, err)
	assert.Equal(t, []string{"about/index.html", "index.html"}, modified)

	index, err := afero.ReadFile(fs, "dist/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(index), "<style>body{color:red}</style>")
	assert.NotContains(t, string(index), `href="/assets/app.css"`)
	assert.Contains(t, string(index), `href="https://cdn.example.com/font.css"`)

	about, err := afero.ReadFile(fs, "dist/about/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(about), `<style media="screen">body{color:red}</style>`)

	plain, err := afero.ReadFile(fs, "dist/plain.html")
	require.NoError(t, err)
	assert.Equal(t, `<html><head><title>x</title></head><body></body></html>`, string(plain))
}

func TestInlineCSSMissingStylesheet(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"dist/index.html": `<html><head><link rel="stylesheet" href="gone.css"></head></html>`,
	})

	_, err := InlineCSS(fs, "dist")
	assert.Error(t, err)
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{href: "/assets/a.css", want: "dist/assets/a.css", ok: true},
		{href: "a.css?v=3", want: "dist/sub/a.css", ok: true},
		{href: "https://cdn.example.com/a.css"},
		{href: "//cdn.example.com/a.css"},
		{href: "../../escape.css"},
		{href: ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := localPath("dist", "dist/sub", tt.href)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
