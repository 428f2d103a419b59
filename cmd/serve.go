package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const reloadScript = `<script>
var es = new EventSource('/_sse');
es.onmessage = function(e) { if (e.data === 'reload') window.location.reload(); };
</script>`

// devServer serves the generated site and pushes reload events to open pages.
type devServer struct {
	root   string
	base   string
	logger *log.Logger

	mu      sync.Mutex
	clients map[chan string]struct{}
}

func newDevServer(root, base string, logger *log.Logger) *devServer {
	return &devServer{
		root:    root,
		base:    strings.TrimRight(base, "/"),
		logger:  logger,
		clients: make(map[chan string]struct{}),
	}
}

func (s *devServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/_sse", s.events)
	mux.HandleFunc("/", s.files)
	return mux
}

// listen serves on addr until ctx is done.
func (s *devServer) listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "url", "http://"+addr+s.base+"/")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}

func (s *devServer) files(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if s.base != "" {
		if p == "/" || p == s.base {
			http.Redirect(w, r, s.base+"/", http.StatusFound)
			return
		}
		rest, ok := strings.CutPrefix(p, s.base+"/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		p = "/" + rest
	}
	dir := strings.HasSuffix(p, "/")
	p = path.Clean(p)
	if dir {
		p = strings.TrimSuffix(p, "/") + "/index.html"
	}
	file := filepath.Join(s.root, filepath.FromSlash(p))

	if !strings.HasSuffix(p, ".html") {
		http.ServeFile(w, r, file)
		return
	}
	data, err := os.ReadFile(file)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	// inject reload script before </head>
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(bytes.Replace(data, []byte("</head>"), []byte(reloadScript+"</head>"), 1))
}

func (s *devServer) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	ch := make(chan string, 1)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *devServer) broadcast(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *devServer) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
