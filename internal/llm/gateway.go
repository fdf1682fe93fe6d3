package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

// FailurePrefix marks gateway output that is a diagnostic instead of model
// text. Callers test for it with IsFailure.
const FailurePrefix = "[error] "

// Gateway is the lenient capability boundary used by the enrichment and
// outreach pipelines. Failures never cross it as errors: they come back as a
// FailurePrefix-marked diagnostic so the pipeline degrades to "no fields
// extracted". Each Chat call is exactly one attempt; retry policy belongs to
// the caller. Callers needing strict failures should use ChatClient and
// Searcher directly.
type Gateway interface {
	Chat(ctx context.Context, prompt string) string
	Search(ctx context.Context, query string) string
}

// IsFailure reports whether text is a gateway failure marker.
func IsFailure(text string) bool {
	return strings.HasPrefix(text, FailurePrefix)
}

// FailureCode extracts the code from a failure marker, or "" for model text.
func FailureCode(text string) string {
	if !IsFailure(text) {
		return ""
	}
	rest := strings.TrimPrefix(text, FailurePrefix)
	code, _, _ := strings.Cut(rest, ":")
	return strings.TrimSpace(code)
}

// FailureText renders err as a failure marker.
func FailureText(err error) string {
	return fmt.Sprintf("%s%s: %v", FailurePrefix, ErrorCode(err), err)
}

// GatewayOption configures NewGateway.
type GatewayOption func(*gateway)

// NewLimiter returns a limiter allowing perSec calls per second with the
// given burst, or nil (unlimited) when perSec <= 0.
func NewLimiter(perSec float64, burst int) *rate.Limiter {
	if perSec <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSec), burst)
}

// WithRateLimit spaces calls to at most perSec per second with the given
// burst. perSec <= 0 leaves calls unlimited.
func WithRateLimit(perSec float64, burst int) GatewayOption {
	return WithLimiter(NewLimiter(perSec, burst))
}

// WithLimiter makes the gateway wait on l, which may be shared with other
// gateways over the same backend. A nil l leaves calls unlimited.
func WithLimiter(l *rate.Limiter) GatewayOption {
	return func(g *gateway) { g.limiter = l }
}

// WithSystemPrompt sets the system message sent with every chat call.
func WithSystemPrompt(p string) GatewayOption {
	return func(g *gateway) { g.systemPrompt = p }
}

type gateway struct {
	chat         ChatClient
	search       Searcher
	limiter      *rate.Limiter
	systemPrompt string
}

// NewGateway wraps the strict clients. search may be nil when no search
// backend is configured; chat may be nil when the LLM is disabled.
func NewGateway(chat ChatClient, search Searcher, opts ...GatewayOption) Gateway {
	g := &gateway{chat: chat, search: search}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gateway) Chat(ctx context.Context, prompt string) string {
	if g.chat == nil {
		return FailureText(fmt.Errorf("%w: chat backend not configured", ErrDisabled))
	}
	if err := g.wait(ctx); err != nil {
		return FailureText(err)
	}
	resp, err := g.chat.Generate(ctx, GenerateRequest{
		Task:         TaskChat,
		SystemPrompt: g.systemPrompt,
		UserPrompt:   prompt,
		NoRetry:      true,
	})
	if err != nil {
		return FailureText(err)
	}
	return resp.Text
}

func (g *gateway) Search(ctx context.Context, query string) string {
	if g.search == nil {
		return FailureText(fmt.Errorf("%w: search backend not configured", ErrDisabled))
	}
	if err := g.wait(ctx); err != nil {
		return FailureText(err)
	}
	resp, err := g.search.Search(ctx, query)
	if err != nil {
		return FailureText(err)
	}
	if len(resp.Sources) == 0 {
		return resp.Text
	}
	return resp.Text + "\n\nSources:\n- " + strings.Join(resp.Sources, "\n- ")
}

func (g *gateway) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}
