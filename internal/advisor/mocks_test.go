package advisor

import (
	"context"

	"github.com/felixgeelhaar/devgenius/internal/llm"
)

// mockProvider records the last request and returns a canned response
type mockProvider struct {
	name    string
	content string
	err     error
	lastReq *llm.Request
	calls   int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(_ context.Context, req *llm.Request) (*llm.Response, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Response{Content: m.content, FinishReason: "stop"}, nil
}

func registryWith(p *mockProvider) *llm.Registry {
	r := llm.NewRegistry()
	r.Register(p.name, p)
	_ = r.SetDefault(p.name)
	return r
}
