package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/circusagent/internal/mail"
)

// FakeGateway returns scripted text for Chat and Search and records prompts.
type FakeGateway struct {
	mu          sync.Mutex
	ChatText    string
	SearchText  string
	ChatFunc    func(prompt string) string
	ChatCalls   []string
	SearchCalls []string
}

func (g *FakeGateway) Chat(_ context.Context, prompt string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ChatCalls = append(g.ChatCalls, prompt)
	if g.ChatFunc != nil {
		return g.ChatFunc(prompt)
	}
	return g.ChatText
}

func (g *FakeGateway) Search(_ context.Context, query string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.SearchCalls = append(g.SearchCalls, query)
	return g.SearchText
}

// ChatCount returns the number of Chat calls so far.
func (g *FakeGateway) ChatCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ChatCalls)
}

// FakeMailer records sent messages and fails with Err when set.
type FakeMailer struct {
	mu   sync.Mutex
	Err  error
	Sent []mail.Message
}

func (m *FakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
