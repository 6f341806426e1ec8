package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greyline-systems/honeytrap/internal/controller"
)

type Server struct {
	router     *chi.Mux
	port       int
	apiToken   string
	controller *controller.Controller
}

func NewServer(port int, apiToken string, ctrl *controller.Controller) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:     router,
		port:       port,
		apiToken:   apiToken,
		controller: ctrl,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/honeypot/status", s.status)
	router.With(s.requireAPIKey).Post("/api/v1/honeypot", s.honeypot)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requireAPIKey checks the x-api-key header. An empty configured token
// disables the check for local development.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken != "" && r.Header.Get("x-api-key") != s.apiToken {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"agent":  "honeytrap",
		"status": "active",
	})
}

// honeypot handles one inbound scammer message. Validation failures are the
// only error responses; once a request reaches the controller the answer is
// always 200 with status "success".
func (s *Server) honeypot(w http.ResponseWriter, r *http.Request) {
	var req controller.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if req.Message.Text == "" {
		writeError(w, http.StatusBadRequest, "message.text is required")
		return
	}

	resp := s.controller.ProcessMessage(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": msg})
}
