package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// SearchResponse holds the aggregated text of a web-search-grounded answer.
type SearchResponse struct {
	Text      string
	Sources   []string // grounding URIs, when the backend reports them
	Model     string
	LatencyMs int64
}

// Searcher answers a query using a web-search-augmented backend.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// GeminiSearcher implements Searcher with Gemini and the Google Search
// grounding tool.
type GeminiSearcher struct {
	client   *genai.Client
	cfg      LLMConfig
	observer Observer
}

// NewGeminiSearcher creates a Searcher from cfg.Search.
func NewGeminiSearcher(ctx context.Context, cfg LLMConfig, observer Observer) (*GeminiSearcher, error) {
	if cfg.Search.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required for search")
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.Search.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Search.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Search.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiSearcher{client: client, cfg: cfg, observer: observer}, nil
}

func (s *GeminiSearcher) Search(ctx context.Context, query string) (*SearchResponse, error) {
	start := time.Now()
	timeoutMs := s.cfg.TaskTimeout(TaskSearch)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	taskCfg := s.cfg.Tasks[TaskSearch]
	temp := float32(taskCfg.Temperature)
	genCfg := &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: &temp,
	}
	if taskCfg.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(taskCfg.MaxTokens)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.cfg.Search.Model, genai.Text(query), genCfg)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() != nil {
			err = ErrTimeout
		} else {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		s.observer.OnCallComplete(LLMCallEvent{
			Task: TaskSearch, Model: s.cfg.Search.Model, LatencyMs: latency,
			Success: false, ErrorCode: ErrorCode(err),
		})
		return nil, err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err := fmt.Errorf("%w: empty search response", ErrInvalidOutput)
		s.observer.OnCallComplete(LLMCallEvent{
			Task: TaskSearch, Model: s.cfg.Search.Model, LatencyMs: latency,
			Success: false, ErrorCode: ErrorCode(err),
		})
		return nil, err
	}

	s.observer.OnCallComplete(LLMCallEvent{
		Task: TaskSearch, Model: s.cfg.Search.Model, LatencyMs: latency, Success: true,
	})
	return &SearchResponse{
		Text:      text,
		Sources:   groundingSources(resp),
		Model:     s.cfg.Search.Model,
		LatencyMs: latency,
	}, nil
}

// groundingSources collects the distinct web URIs the answer was grounded on.
func groundingSources(resp *genai.GenerateContentResponse) []string {
	seen := make(map[string]bool)
	var out []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			if !seen[chunk.Web.URI] {
				seen[chunk.Web.URI] = true
				out = append(out, chunk.Web.URI)
			}
		}
	}
	return out
}
