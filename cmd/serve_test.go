package main

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":            "<html><head><title>home</title></head><body>home</body></html>",
		"blog/hello/index.html": "<html><head></head><body>hello</body></html>",
		"feed.xml":              "<rss></rss>",
	}
	for name, body := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDevServerFiles(t *testing.T) {
	t.Parallel()

	h := newDevServer(publicDir(t), "/site", log.New(io.Discard)).handler()

	tests := []struct {
		name     string
		target   string
		code     int
		contains string
		location string
	}{
		{name: "root redirects to base", target: "/", code: http.StatusFound, location: "/site/"},
		{name: "base without slash", target: "/site", code: http.StatusFound, location: "/site/"},
		{name: "index", target: "/site/", code: http.StatusOK, contains: "<title>home</title>"},
		{name: "post directory", target: "/site/blog/hello/", code: http.StatusOK, contains: "hello"},
		{name: "asset", target: "/site/feed.xml", code: http.StatusOK, contains: "<rss>"},
		{name: "outside base", target: "/other/index.html", code: http.StatusNotFound},
		{name: "missing page", target: "/site/nope/", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.code, rec.Code)
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestDevServerInjectsReloadScript(t *testing.T) {
	t.Parallel()

	h := newDevServer(publicDir(t), "", log.New(io.Discard)).handler()

	body := get(t, h, "/").Body.String()
	assert.Contains(t, body, "new EventSource('/_sse')")
	assert.Less(t, strings.Index(body, "EventSource"), strings.Index(body, "</head>"))
	assert.Equal(t, 1, strings.Count(body, "EventSource"))

	assert.NotContains(t, get(t, h, "/feed.xml").Body.String(), "EventSource")
}

func TestDevServerBroadcast(t *testing.T) {
	t.Parallel()

	srv := newDevServer(publicDir(t), "", log.New(io.Discard))
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/_sse", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Equal(t, 1, srv.clientCount())

	srv.broadcast("reload")
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: reload\n", line)
}
