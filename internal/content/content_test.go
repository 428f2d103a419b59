package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantMeta string
		wantBody string
		wantErr  bool
	}{
		{name: "basic", src: "---\ntitle: x\n---\n# Hello\n", wantMeta: "title: x\n", wantBody: "# Hello\n"},
		{name: "crlf", src: "---\r\ntitle: x\r\n---\r\nbody", wantMeta: "title: x\n", wantBody: "body"},
		{name: "empty block", src: "---\n---\nbody", wantMeta: "", wantBody: "body"},
		{name: "no body", src: "---\ntitle: x\n---", wantMeta: "title: x\n", wantBody: ""},
		{name: "missing", src: "# Hello", wantErr: true},
		{name: "unterminated", src: "---\ntitle: x\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := SplitFrontMatter([]byte(tt.src))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMeta, string(meta))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestLoadPostsSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "older.md", "---\ntitle: Older\ndate: 2023-04-01\nimage: /img/a.png\ndescription: first\n---\nOld body\n")
	writeFile(t, dir, "newer.md", "---\ntitle: \"Newer\"\ndate: \"2024-02-10\"\nimage: /img/b.png\ndescription: second\n---\nNew body\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts"), 0755))

	posts, warns, err := LoadPosts(dir)
	require.NoError(t, err)
	assert.Empty(t, warns)
	require.Len(t, posts, 2)

	assert.Equal(t, "newer", posts[0].Slug)
	assert.Equal(t, "Newer", posts[0].Title)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), posts[0].Published)
	assert.Equal(t, "New body\n", string(posts[0].Body))
	assert.Equal(t, "older", posts[1].Slug)
	assert.Equal(t, "2023-04-01", posts[1].Date)
}

func TestLoadPostsSchemaViolations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.md", "---\ntitle: Ok\ndate: 2024-01-01\nimage: x.png\ndescription: d\n---\n")
	writeFile(t, dir, "missing.md", "---\ntitle: Missing\ndate: 2024-01-01\n---\n")
	writeFile(t, dir, "baddate.md", "---\ntitle: T\ndate: someday\nimage: x.png\ndescription: d\n---\n")
	writeFile(t, dir, "nofm.md", "# Just markdown\n")

	posts, _, err := LoadPosts(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	require.Len(t, posts, 1)
	assert.Equal(t, "ok", posts[0].Slug)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, err.Error(), "description is required")
	assert.Contains(t, err.Error(), "image is required")
	assert.Contains(t, err.Error(), `date "someday" is not a recognized date`)
	assert.Contains(t, err.Error(), "missing front matter")
}

func TestLoadArtifactsOptionalLinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tool.md", "---\ntitle: Tool\ndate: 2024-05-01T10:00:00Z\ndescription: A tool\ngithub: https://github.com/x/tool\n---\nBody\n")
	writeFile(t, dir, "demo.md", "---\ntitle: Demo\ndate: March 3, 2024\ndescription: A demo\ndemo: https://example.com\n---\n")

	arts, _, err := LoadArtifacts(dir)
	require.NoError(t, err)
	require.Len(t, arts, 2)
	assert.Equal(t, "tool", arts[0].Slug)
	assert.Equal(t, "https://github.com/x/tool", arts[0].GitHub)
	assert.Empty(t, arts[0].Demo)
	assert.Equal(t, "demo", arts[1].Slug)
	assert.Equal(t, "https://example.com", arts[1].Demo)
}

func TestLoadMissingDirectory(t *testing.T) {
	posts, warns, err := LoadPosts(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, posts)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "does not exist")
}
