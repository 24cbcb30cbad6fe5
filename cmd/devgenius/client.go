package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/advisor"
	"github.com/felixgeelhaar/devgenius/internal/app"
	"github.com/felixgeelhaar/devgenius/internal/challenge"
	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/felixgeelhaar/devgenius/internal/tutor"
)

// tutorClient is what the tutor commands need, served either by the
// daemon or by services opened in this process.
type tutorClient interface {
	Explain(ctx context.Context, code string) (*tutor.Explanation, error)
	Chat(ctx context.Context, message string, mode domain.Mode) (*tutor.ChatResult, error)
	Review(ctx context.Context, code string) (*domain.ReviewReport, error)
	Metrics(ctx context.Context, code string) (domain.CodeMetrics, error)
	Greeting(ctx context.Context) (string, domain.Mode, error)
	Mode(ctx context.Context) (domain.Mode, error)
	SetMode(ctx context.Context, raw string) (domain.Mode, error)
	ToggleMode(ctx context.Context) (domain.Mode, error)
	Challenges(ctx context.Context, difficulty, language string) ([]*domain.Challenge, error)
	Challenge(ctx context.Context, id string) (*domain.Challenge, error)
	Close() error
}

// openClient prefers a running daemon and falls back to in-process services
func openClient(ctx context.Context) (tutorClient, error) {
	if isRunning() {
		return newDaemonClient(daemonAddr), nil
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a, err := app.Open(ctx, app.Options{Config: cfg})
	if err != nil {
		return nil, err
	}
	return &localClient{app: a}, nil
}

// localClient calls the services directly
type localClient struct {
	app *app.App
}

func (c *localClient) Explain(ctx context.Context, code string) (*tutor.Explanation, error) {
	return c.app.Tutor.Explain(ctx, code)
}

func (c *localClient) Chat(ctx context.Context, message string, mode domain.Mode) (*tutor.ChatResult, error) {
	return c.app.Tutor.Chat(ctx, message, mode)
}

func (c *localClient) Review(ctx context.Context, code string) (*domain.ReviewReport, error) {
	return c.app.Tutor.Review(ctx, code)
}

func (c *localClient) Metrics(_ context.Context, code string) (domain.CodeMetrics, error) {
	return c.app.Tutor.Metrics(code), nil
}

func (c *localClient) Greeting(ctx context.Context) (string, domain.Mode, error) {
	return c.app.Tutor.Greeting(ctx)
}

func (c *localClient) Mode(ctx context.Context) (domain.Mode, error) {
	return c.app.Tutor.Mode(ctx)
}

func (c *localClient) SetMode(ctx context.Context, raw string) (domain.Mode, error) {
	return c.app.Tutor.SetMode(ctx, raw)
}

func (c *localClient) ToggleMode(ctx context.Context) (domain.Mode, error) {
	return c.app.Tutor.ToggleMode(ctx)
}

func (c *localClient) Challenges(_ context.Context, difficulty, language string) ([]*domain.Challenge, error) {
	var filter challenge.Filter
	var err error
	if difficulty != "" {
		if filter.Difficulty, err = domain.ParseDifficulty(difficulty); err != nil {
			return nil, err
		}
	}
	if language != "" {
		if filter.Language, err = domain.ParseLanguage(language); err != nil {
			return nil, err
		}
	}
	return c.app.Challenges.List(filter), nil
}

func (c *localClient) Challenge(_ context.Context, id string) (*domain.Challenge, error) {
	return c.app.Challenges.Get(id)
}

func (c *localClient) Close() error {
	return c.app.Close()
}

// daemonClient calls the daemon's HTTP API
type daemonClient struct {
	baseURL string
	http    *http.Client
}

func newDaemonClient(baseURL string) *daemonClient {
	return &daemonClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// apiError is the daemon's JSON error body
type apiError struct {
	Message string `json:"error"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (c *daemonClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

type codeBody struct {
	Code string `json:"code"`
}

type modeBody struct {
	Mode domain.Mode `json:"mode"`
}

func (c *daemonClient) Explain(ctx context.Context, code string) (*tutor.Explanation, error) {
	var out tutor.Explanation
	if err := c.do(ctx, http.MethodPost, "/v1/explain", codeBody{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *daemonClient) Chat(ctx context.Context, message string, mode domain.Mode) (*tutor.ChatResult, error) {
	body := map[string]string{"message": message}
	if mode != "" {
		body["mode"] = string(mode)
	}

	var out tutor.ChatResult
	if err := c.do(ctx, http.MethodPost, "/v1/chat", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *daemonClient) Review(ctx context.Context, code string) (*domain.ReviewReport, error) {
	var out domain.ReviewReport
	if err := c.do(ctx, http.MethodPost, "/v1/review", codeBody{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *daemonClient) Metrics(ctx context.Context, code string) (domain.CodeMetrics, error) {
	var out domain.CodeMetrics
	err := c.do(ctx, http.MethodPost, "/v1/metrics", codeBody{Code: code}, &out)
	return out, err
}

// Greeting renders the greeting for the daemon's stored mode
func (c *daemonClient) Greeting(ctx context.Context) (string, domain.Mode, error) {
	mode, err := c.Mode(ctx)
	if err != nil {
		return "", "", err
	}
	return advisor.Greeting(mode), mode, nil
}

func (c *daemonClient) Mode(ctx context.Context) (domain.Mode, error) {
	var out modeBody
	err := c.do(ctx, http.MethodGet, "/v1/mode", nil, &out)
	return out.Mode, err
}

func (c *daemonClient) SetMode(ctx context.Context, raw string) (domain.Mode, error) {
	var out modeBody
	err := c.do(ctx, http.MethodPut, "/v1/mode", map[string]string{"mode": raw}, &out)
	return out.Mode, err
}

func (c *daemonClient) ToggleMode(ctx context.Context) (domain.Mode, error) {
	var out modeBody
	err := c.do(ctx, http.MethodPost, "/v1/mode/toggle", nil, &out)
	return out.Mode, err
}

func (c *daemonClient) Challenges(ctx context.Context, difficulty, language string) ([]*domain.Challenge, error) {
	query := url.Values{}
	if difficulty != "" {
		query.Set("difficulty", difficulty)
	}
	if language != "" {
		query.Set("language", language)
	}

	path := "/v1/challenges"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out struct {
		Challenges []*domain.Challenge `json:"challenges"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Challenges, nil
}

func (c *daemonClient) Challenge(ctx context.Context, id string) (*domain.Challenge, error) {
	var out domain.Challenge
	if err := c.do(ctx, http.MethodGet, "/v1/challenges/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *daemonClient) Close() error { return nil }
