package enrichment

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/llm"
)

// Outcome is the reason code of one enrichment run.
type Outcome string

const (
	OutcomeEnriched         Outcome = "enriched"
	OutcomeUnchanged        Outcome = "unchanged"
	OutcomeTransportFailure Outcome = "transport_failure"
	OutcomeMalformed        Outcome = "malformed_response"
)

// Result is the structured outcome of Pipeline.Run. Festival is always a
// valid record: on failure it is the input with sentinels cleared.
type Result struct {
	Festival   *domain.Festival
	Outcome    Outcome
	Detail     string
	Applied    []string
	Rejected   []Rejection
	Coerced    []Rejection
	Derived    []string // fields filled by the pipeline rather than the model
	SearchUsed bool
	// Changed reports whether Festival differs from the input record, including
	// sentinel cleanup and normalization.
	Changed bool
}

// PipelineOption configures NewPipeline.
type PipelineOption func(*Pipeline)

// WithSearch enables the search pass before the chat call.
func WithSearch(enabled bool) PipelineOption {
	return func(p *Pipeline) { p.search = enabled }
}

// WithTimeout bounds the gateway calls of one run. Expiry counts as a
// transport failure.
func WithTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.timeout = d }
}

func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.builder.Now = now }
}

// Pipeline runs search, chat, parse, reconcile and normalize for one record.
// It holds no per-record state; callers serialize runs on the same record.
type Pipeline struct {
	gateway    llm.Gateway
	builder    *PromptBuilder
	reconciler Reconciler
	normalizer Normalizer
	search     bool
	timeout    time.Duration
	logger     *slog.Logger
}

func NewPipeline(gateway llm.Gateway, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		gateway: gateway,
		builder: NewPromptBuilder(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Builder exposes the prompt builder so outreach drafts share the clock.
func (p *Pipeline) Builder() *PromptBuilder {
	return p.builder
}

// Run enriches a copy of f. It performs at most one search and one chat call.
func (p *Pipeline) Run(ctx context.Context, f *domain.Festival) (res Result) {
	rec := *f
	CleanSentinels(&rec)
	res.Festival = &rec
	defer func() { res.Changed = rec != *f }()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	prompt := p.builder.Enrichment(&rec, "")
	if p.search {
		text := p.gateway.Search(ctx, prompt)
		if llm.IsFailure(text) {
			p.logger.Warn("enrichment search failed, continuing without context",
				"festival_id", rec.ID, "code", llm.FailureCode(text))
		} else {
			res.SearchUsed = true
			prompt = p.builder.Enrichment(&rec, text)
		}
	}

	fields, failure := ParseResponse(p.gateway.Chat(ctx, prompt))
	if failure != nil {
		res.Outcome = failure.Outcome
		res.Detail = failure.Detail
		p.logger.Warn("enrichment yielded no fields",
			"festival_id", rec.ID, "outcome", string(failure.Outcome), "detail", failure.Detail)
		return res
	}

	recon := p.reconciler.Apply(&rec, fields)
	res.Applied = recon.Applied
	res.Rejected = recon.Rejected
	res.Coerced = recon.Coerced
	if len(recon.Ignored) > 0 {
		p.logger.Debug("ignored unknown response keys", "festival_id", rec.ID, "keys", recon.Ignored)
	}

	if rej, ok := fixDateOrder(&rec); ok {
		res.Rejected = append(res.Rejected, rej)
	}
	res.Derived = deriveDates(&rec, fields, datesApplied(recon.Applied))

	p.normalizer.Normalize(&rec)

	if len(res.Applied) > 0 || len(res.Derived) > 0 {
		res.Outcome = OutcomeEnriched
	} else {
		res.Outcome = OutcomeUnchanged
	}
	return res
}

func datesApplied(applied []string) bool {
	for _, k := range applied {
		if k == KeyStartDate || k == KeyEndDate {
			return true
		}
	}
	return false
}

// deriveDates fills start/end from a free-text range in approximate_date, and
// approximate_date from start/end when the response did not provide one and
// the old value is empty or stale.
func deriveDates(f *domain.Festival, fields map[string]any, datesChanged bool) []string {
	var derived []string

	if f.StartDate == "" && f.EndDate == "" && f.ApproximateDate != "" {
		if start, end, ok := ParseDateRange(f.ApproximateDate); ok {
			f.StartDate = start.Format(domain.DateLayout)
			f.EndDate = end.Format(domain.DateLayout)
			f.ApproximateDate = ApproximateDate(start, end)
			derived = append(derived, KeyStartDate, KeyEndDate, KeyApproximateDate)
			return derived
		}
	}

	if domain.IsBlankValue(fields[KeyApproximateDate]) && (f.ApproximateDate == "" || datesChanged) {
		start, ok := f.Start()
		if !ok {
			return derived
		}
		end, _ := f.End()
		approx := ApproximateDate(start, end)
		if f.ApproximateDate != approx {
			f.ApproximateDate = approx
			derived = append(derived, KeyApproximateDate)
		}
	}
	return derived
}

// fixDateOrder swaps reversed start/end dates so the record stays valid.
func fixDateOrder(f *domain.Festival) (Rejection, bool) {
	if err := f.ValidateDates(); err == nil {
		return Rejection{}, false
	}
	orig := f.StartDate + " > " + f.EndDate
	f.StartDate, f.EndDate = f.EndDate, f.StartDate
	return Rejection{Field: "date_order", Value: orig, Reason: "start after end, swapped"}, true
}
