// Package backendtest provides a scriptable fake of the analysis backend.
package backendtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hay-kot/chatlens/internal/backend"
)

// Request is a recorded call to the fake backend.
type Request struct {
	Path      string
	RequestID string
	Body      map[string]any
}

// Handler produces the JSON response for one request. Returning a nil
// value with a status >= 500 writes a non-JSON body.
type Handler func(call int, body map[string]any) (status int, resp any)

// Server is a fake backend whose endpoints are scripted per test.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	requests []Request
	calls    map[string]int
}

// New starts a fake backend and closes it when the test ends. Unscripted
// endpoints answer with an error envelope.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		handlers: make(map[string]Handler),
		calls:    make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.AllowContentType("application/json"))

	for _, path := range []string{
		backend.PathCheckStatus,
		backend.PathFetchMessages,
		backend.PathGetDisplayedMessages,
		backend.PathGetTopics,
		backend.PathGetSummary,
	} {
		r.Post(path, s.serve(path))
	}

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Handle scripts the response for path.
func (s *Server) Handle(path string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[path] = h
}

// Respond scripts a fixed JSON response for path.
func (s *Server) Respond(path string, resp any) {
	s.Handle(path, func(int, map[string]any) (int, any) { return http.StatusOK, resp })
}

// Requests returns the recorded requests for path, or all requests if path is empty.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Request
	for _, r := range s.requests {
		if path == "" || r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Calls returns how many times path was requested.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *Server) serve(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body := map[string]any{}
		_ = json.Unmarshal(data, &body)

		s.mu.Lock()
		call := s.calls[path]
		s.calls[path]++
		s.requests = append(s.requests, Request{
			Path:      path,
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		h := s.handlers[path]
		s.mu.Unlock()

		status, resp := http.StatusOK, any(backend.Envelope{Status: backend.StatusError, Message: "not scripted"})
		if h != nil {
			status, resp = h(call, body)
		}

		if resp == nil {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("<html>internal error</html>"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
