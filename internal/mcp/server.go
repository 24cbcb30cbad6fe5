// Package mcp exposes the advisor and the challenge catalogue as MCP tools.
package mcp

import (
	"context"
	"fmt"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"
	"github.com/felixgeelhaar/devgenius/internal/challenge"
	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/felixgeelhaar/devgenius/internal/tutor"
)

// Server wraps the MCP server with DevGenius functionality
type Server struct {
	mcpServer  *server.Server
	tutor      *tutor.Service
	challenges *challenge.Registry
}

// Config contains configuration for the MCP server
type Config struct {
	Tutor      *tutor.Service
	Challenges *challenge.Registry
	Version    string
}

// NewServer creates a new MCP server for DevGenius
func NewServer(cfg Config) *Server {
	s := &Server{
		tutor:      cfg.Tutor,
		challenges: cfg.Challenges,
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s.mcpServer = server.New(server.Info{
		Name:    "devgenius",
		Version: version,
	}, server.WithInstructions(`
DevGenius is a coding tutor for JavaScript learners.

Available tools:
- devgenius_explain: Explain what a code snippet does
- devgenius_chat: Ask the tutor a question (beginner or developer tone)
- devgenius_review: Score code from 3 to 10 with improvement suggestions
- devgenius_metrics: Count lines and characters and rate complexity
- devgenius_mode: Read or change the stored tutor mode
- devgenius_challenges: List practice challenges
- devgenius_challenge: Show one challenge with its starter code
`))

	s.registerTools()
	return s
}

// registerTools registers all DevGenius MCP tools
func (s *Server) registerTools() {
	s.mcpServer.Tool("devgenius_explain").
		Description("Explain what a piece of code does.").
		Handler(s.handleExplain)

	s.mcpServer.Tool("devgenius_chat").
		Description("Ask the DevGenius tutor a question.").
		Handler(s.handleChat)

	s.mcpServer.Tool("devgenius_review").
		Description("Review code: score, suggestions, performance and readability.").
		Handler(s.handleReview)

	s.mcpServer.Tool("devgenius_metrics").
		Description("Editor metrics for code: lines, characters, complexity, readability.").
		Handler(s.handleMetrics)

	s.mcpServer.Tool("devgenius_mode").
		Description("Get the tutor mode, or set it to normal or developer.").
		Handler(s.handleMode)

	s.mcpServer.Tool("devgenius_challenges").
		Description("List practice challenges, optionally filtered by difficulty.").
		Handler(s.handleChallenges)

	s.mcpServer.Tool("devgenius_challenge").
		Description("Show a challenge with its description and starter code.").
		Handler(s.handleChallenge)
}

// Input/Output types for tools

type CodeInput struct {
	Code string `json:"code" jsonschema:"description=Source code to analyse"`
}

type ExplainOutput struct {
	Explanation string `json:"explanation"`
	Topic       string `json:"topic"`
	Source      string `json:"source"`
}

type ChatInput struct {
	Message   string `json:"message" jsonschema:"description=Question or message for the tutor"`
	Developer *bool  `json:"developer,omitempty" jsonschema:"description=Answer in developer tone; omit to use the stored mode"`
}

type ChatOutput struct {
	Reply string `json:"reply"`
	Mode  string `json:"mode"`
	Topic string `json:"topic"`
}

type ModeInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"description=New mode; omit to read the current one,enum=normal,enum=developer"`
}

type ModeOutput struct {
	Mode string `json:"mode"`
}

type ChallengesInput struct {
	Difficulty string `json:"difficulty,omitempty" jsonschema:"description=Filter by difficulty,enum=Beginner,enum=Intermediate,enum=Advanced"`
}

type ChallengeSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Difficulty    string `json:"difficulty"`
	StarRating    string `json:"star_rating"`
	EstimatedTime string `json:"estimated_time"`
}

type ChallengesOutput struct {
	Challenges []ChallengeSummary `json:"challenges"`
}

type ChallengeInput struct {
	ID string `json:"id" jsonschema:"description=Challenge ID in format pack/slug"`
}

type ChallengeOutput struct {
	ChallengeSummary
	Description string `json:"description"`
	Language    string `json:"language"`
	StarterCode string `json:"starter_code"`
}

// Tool handlers

func (s *Server) handleExplain(ctx context.Context, input CodeInput) (ExplainOutput, error) {
	result, err := s.tutor.Explain(ctx, input.Code)
	if err != nil {
		return ExplainOutput{}, err
	}
	return ExplainOutput{
		Explanation: result.Explanation,
		Topic:       string(result.Topic),
		Source:      result.Source,
	}, nil
}

func (s *Server) handleChat(ctx context.Context, input ChatInput) (ChatOutput, error) {
	var mode domain.Mode
	if input.Developer != nil {
		mode = domain.ModeFromFlag(*input.Developer)
	}

	result, err := s.tutor.Chat(ctx, input.Message, mode)
	if err != nil {
		return ChatOutput{}, err
	}
	return ChatOutput{
		Reply: result.Reply,
		Mode:  string(result.Mode),
		Topic: string(result.Topic),
	}, nil
}

func (s *Server) handleReview(ctx context.Context, input CodeInput) (domain.ReviewReport, error) {
	report, err := s.tutor.Review(ctx, input.Code)
	if err != nil {
		return domain.ReviewReport{}, err
	}
	return *report, nil
}

func (s *Server) handleMetrics(ctx context.Context, input CodeInput) (domain.CodeMetrics, error) {
	return s.tutor.Metrics(input.Code), nil
}

func (s *Server) handleMode(ctx context.Context, input ModeInput) (ModeOutput, error) {
	var (
		mode domain.Mode
		err  error
	)
	if input.Mode == "" {
		mode, err = s.tutor.Mode(ctx)
	} else {
		mode, err = s.tutor.SetMode(ctx, input.Mode)
	}
	if err != nil {
		return ModeOutput{}, err
	}
	return ModeOutput{Mode: string(mode)}, nil
}

func (s *Server) handleChallenges(ctx context.Context, input ChallengesInput) (ChallengesOutput, error) {
	var filter challenge.Filter
	if input.Difficulty != "" {
		d, err := domain.ParseDifficulty(input.Difficulty)
		if err != nil {
			return ChallengesOutput{}, err
		}
		filter.Difficulty = d
	}

	challenges := s.challenges.List(filter)
	out := ChallengesOutput{Challenges: make([]ChallengeSummary, 0, len(challenges))}
	for _, c := range challenges {
		out.Challenges = append(out.Challenges, summarize(c))
	}
	return out, nil
}

func (s *Server) handleChallenge(ctx context.Context, input ChallengeInput) (ChallengeOutput, error) {
	c, err := s.challenges.Get(input.ID)
	if err != nil {
		return ChallengeOutput{}, fmt.Errorf("%w (use devgenius_challenges to list IDs)", err)
	}
	return ChallengeOutput{
		ChallengeSummary: summarize(c),
		Description:      c.Description,
		Language:         string(c.Language),
		StarterCode:      c.StarterCode,
	}, nil
}

func summarize(c *domain.Challenge) ChallengeSummary {
	return ChallengeSummary{
		ID:            c.ID,
		Title:         c.Title,
		Difficulty:    string(c.Difficulty),
		StarRating:    c.Difficulty.StarRating(),
		EstimatedTime: c.Difficulty.EstimatedTime(),
	}
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server on HTTP (alternative transport)
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
