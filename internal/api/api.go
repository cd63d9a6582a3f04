// Package api serves the users table over HTTP.
//
//	GET  /users  list every user
//	POST /users  add a user from {username, password, bio}
//	GET  /       redirect to /docs
//	GET  /docs   endpoint overview
//
// Responses are JSON unless the request accepts application/msgpack.
package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fullyhacks/internal/model"
)

// UserStore is the persistence the handlers need.
type UserStore interface {
	ListUsers(ctx context.Context) (model.Users, error)
	CreateUser(ctx context.Context, username, password string, bio *string) (model.User, error)
}

// AddUserRequest is the body of POST /users. Username and password must be
// present; empty strings are accepted.
type AddUserRequest struct {
	Username *string `json:"username" msgpack:"username"`
	Password *string `json:"password" msgpack:"password"`
	Bio      *string `json:"bio,omitempty" msgpack:"bio,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail" msgpack:"detail"`
}

// Server holds the HTTP handlers.
type Server struct {
	users UserStore
	log   *zap.Logger
	sink  EventSink
	mux   *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEventSink receives one Event per served request.
func WithEventSink(sink EventSink) Option {
	return func(s *Server) { s.sink = sink }
}

// NewServer wires the routes.
func NewServer(users UserStore, opts ...Option) *Server {
	s := &Server{
		users: users,
		log:   zap.NewNop(),
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("GET /users", s.listUsers)
	s.mux.HandleFunc("POST /users", s.addUser)
	s.mux.HandleFunc("GET /docs", s.docs)
	s.mux.HandleFunc("GET /{$}", s.index)
	return s
}

// ServeHTTP implements http.Handler with access logging and request events.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	elapsed := time.Since(start)

	s.log.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("elapsed", elapsed),
	)
	if s.sink != nil {
		s.sink.OnEvent(Event{
			Time:    start,
			Method:  r.Method,
			Path:    r.URL.Path,
			Status:  rec.status,
			Elapsed: elapsed,
		})
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeBody(w, r, http.StatusOK, users)
}

func (s *Server) addUser(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if err := readBody(r, &req); err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	if req.Username == nil || req.Password == nil {
		s.fail(w, r, http.StatusUnprocessableEntity, errMissingField)
		return
	}
	user, err := s.users.CreateUser(r.Context(), *req.Username, *req.Password, req.Bio)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeBody(w, r, http.StatusOK, user)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
}

const docsText = `fullyhacks users API

GET  /users   list all users
POST /users   add a user: {"username": "...", "password": "...", "bio": "..."}

Send "Accept: application/msgpack" for MessagePack responses.
`

func (s *Server) docs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(docsText))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeBody(w, r, status, ErrorResponse{Detail: http.StatusText(status)})
		return
	}
	writeBody(w, r, status, ErrorResponse{Detail: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
