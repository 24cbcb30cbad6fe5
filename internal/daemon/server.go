// Package daemon serves the advisor, mode preference and challenge catalogue
// over a local HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/advisor"
	"github.com/felixgeelhaar/devgenius/internal/app"
	"github.com/felixgeelhaar/devgenius/internal/challenge"
	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/felixgeelhaar/devgenius/internal/llm"
	"github.com/felixgeelhaar/devgenius/internal/tutor"
	"github.com/felixgeelhaar/fortify/ratelimit"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// Server represents the DevGenius daemon HTTP server
type Server struct {
	cfg     *config.LocalConfig
	server  *http.Server
	router  *http.ServeMux
	version string

	// Services
	app         *app.App
	tutor       *tutor.Service
	challenges  *challenge.Registry
	llmRegistry *llm.Registry
	limiter     ratelimit.RateLimiter

	stopWatch context.CancelFunc
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config  *config.LocalConfig
	DataDir string
	Version string

	// App is used as-is when set; otherwise one is opened from Config
	App *app.App
}

// NewServer creates a new daemon server
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	a := cfg.App
	if a == nil {
		var err error
		a, err = app.Open(ctx, app.Options{Config: cfg.Config, DataDir: cfg.DataDir})
		if err != nil {
			return nil, err
		}
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		cfg:         a.Config,
		router:      http.NewServeMux(),
		version:     version,
		app:         a,
		tutor:       a.Tutor,
		challenges:  a.Challenges,
		llmRegistry: a.LLM,
		limiter:     newAdviceLimiter(a.Config.Daemon.AdviceRateLimit),
	}

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.cfg.Daemon.Bind, s.cfg.Daemon.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // remote advisors can be slow
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return correlationIDMiddleware(recoveryMiddleware(loggingMiddleware(s.router)))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Config
	s.router.HandleFunc("GET /v1/config", s.handleGetConfig)
	s.router.HandleFunc("GET /v1/config/providers", s.handleListProviders)

	// Advisor
	s.router.HandleFunc("POST /v1/explain", s.limit(s.handleExplain))
	s.router.HandleFunc("POST /v1/chat", s.limit(s.handleChat))
	s.router.HandleFunc("GET /v1/chat/ws", s.limit(s.handleChatWebSocket))
	s.router.HandleFunc("POST /v1/review", s.limit(s.handleReview))
	s.router.HandleFunc("POST /v1/metrics", s.handleMetrics)

	// Mode preference
	s.router.HandleFunc("GET /v1/mode", s.handleGetMode)
	s.router.HandleFunc("PUT /v1/mode", s.handleSetMode)
	s.router.HandleFunc("POST /v1/mode/toggle", s.handleToggleMode)

	// Challenges
	s.router.HandleFunc("GET /v1/challenges", s.handleListChallenges)
	s.router.HandleFunc("GET /v1/challenges/{id...}", s.handleGetChallenge)
}

// Start starts the HTTP server and the challenge watcher
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopWatch = cancel
	s.app.WatchChallenges(ctx)

	slog.Info("starting devgenius daemon",
		"addr", s.server.Addr,
		"advisor", s.tutor.Backend(),
		"llm_providers", s.llmRegistry.List(),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and releases services
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")

	if s.stopWatch != nil {
		s.stopWatch()
	}

	err := s.server.Shutdown(ctx)
	if s.limiter != nil {
		_ = s.limiter.Close()
	}
	if cerr := s.app.Close(); cerr != nil {
		slog.Warn("failed to close services", "error", cerr)
	}
	return err
}

// Handler implementations

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	mode, err := s.tutor.Mode(r.Context())
	if err != nil {
		s.handleError(w, "failed to read mode", err)
		return
	}

	stats := s.challenges.Stats()
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":     "running",
		"version":    s.version,
		"backend":    s.tutor.Backend(),
		"mode":       mode,
		"providers":  s.llmRegistry.List(),
		"challenges": stats.ChallengeCount,
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	// API keys are never serialized
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"daemon":           s.cfg.Daemon,
		"advisor":          s.cfg.Advisor,
		"default_provider": s.cfg.LLM.DefaultProvider,
		"preferences":      s.cfg.Preferences.Backend,
		"events":           s.cfg.Events.Enabled,
		"challenges":       s.cfg.Challenges,
	})
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	registered := make(map[string]bool)
	for _, name := range s.llmRegistry.List() {
		registered[name] = true
	}

	providers := make([]map[string]interface{}, 0, len(s.cfg.LLM.Providers))
	for _, name := range sortedKeys(s.cfg.LLM.Providers) {
		cfg := s.cfg.LLM.Providers[name]
		providers = append(providers, map[string]interface{}{
			"name":       name,
			"enabled":    cfg.Enabled,
			"model":      cfg.Model,
			"configured": cfg.APIKey != "" || name == "ollama",
			"registered": registered[name],
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"default":   s.cfg.LLM.DefaultProvider,
		"providers": providers,
	})
}

type codeRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.tutor.Explain(r.Context(), req.Code)
	if err != nil {
		s.handleError(w, "failed to explain code", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Mode    string `json:"mode,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.tutor.Chat(r.Context(), req.Message, domain.Mode(req.Mode))
	if err != nil {
		s.handleError(w, "failed to answer message", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}

	report, err := s.tutor.Review(r.Context(), req.Code)
	if err != nil {
		s.handleError(w, "failed to review code", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.tutor.Metrics(req.Code))
}

// Mode handlers

func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	mode, err := s.tutor.Mode(r.Context())
	if err != nil {
		s.handleError(w, "failed to read mode", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"mode": mode})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	mode, err := s.tutor.SetMode(r.Context(), req.Mode)
	if err != nil {
		s.handleError(w, "failed to set mode", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"mode": mode})
}

func (s *Server) handleToggleMode(w http.ResponseWriter, r *http.Request) {
	mode, err := s.tutor.ToggleMode(r.Context())
	if err != nil {
		s.handleError(w, "failed to toggle mode", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"mode": mode})
}

// Challenge handlers

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	var filter challenge.Filter
	var err error

	if v := r.URL.Query().Get("difficulty"); v != "" {
		if filter.Difficulty, err = domain.ParseDifficulty(v); err != nil {
			s.handleError(w, "invalid difficulty", err)
			return
		}
	}
	if v := r.URL.Query().Get("language"); v != "" {
		if filter.Language, err = domain.ParseLanguage(v); err != nil {
			s.handleError(w, "invalid language", err)
			return
		}
	}

	challenges := s.challenges.List(filter)
	result := make([]challengeView, 0, len(challenges))
	for _, c := range challenges {
		result = append(result, newChallengeView(c))
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"challenges": result,
	})
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := s.challenges.Get(r.PathValue("id"))
	if err != nil {
		s.handleError(w, "challenge not found", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newChallengeView(c))
}

// challengeView adds the derived display fields to a challenge
type challengeView struct {
	*domain.Challenge
	StarRating    string `json:"star_rating"`
	EstimatedTime string `json:"estimated_time"`
}

func newChallengeView(c *domain.Challenge) challengeView {
	return challengeView{
		Challenge:     c,
		StarRating:    c.Difficulty.StarRating(),
		EstimatedTime: c.Difficulty.EstimatedTime(),
	}
}

// Helper methods

// decode reads a JSON body into v, writing a 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrChallengeNotFound),
		errors.Is(err, domain.ErrChallengePackNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, advisor.ErrRemote), errors.Is(err, advisor.ErrNoProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(message, "error", err)
	}
	s.jsonError(w, status, message, err)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
