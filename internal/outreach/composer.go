package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/llm"
)

// Draft is a proposed outreach email.
type Draft struct {
	Subject string
	Body    string
	// Fallback is set when the body came from the built-in template instead
	// of the model.
	Fallback bool
}

// Composer drafts outreach emails with the chat gateway and falls back to a
// fixed template when the model is unavailable or returns nothing usable.
type Composer struct {
	gateway llm.Gateway
	builder *enrichment.PromptBuilder
	persona enrichment.Persona
	logger  *slog.Logger
}

func NewComposer(gateway llm.Gateway, builder *enrichment.PromptBuilder, persona enrichment.Persona, logger *slog.Logger) *Composer {
	if builder == nil {
		builder = enrichment.NewPromptBuilder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{gateway: gateway, builder: builder, persona: persona, logger: logger}
}

// Compose drafts an email for f. It never fails.
func (c *Composer) Compose(ctx context.Context, f *domain.Festival) Draft {
	d := Draft{Subject: c.Subject(f)}

	raw := c.gateway.Chat(ctx, c.builder.OutreachEmail(f, c.persona))
	if llm.IsFailure(raw) {
		c.logger.Warn("email draft failed, using template", "festival_id", f.ID, "code", llm.FailureCode(raw))
	} else if body := Sanitize(raw); body != "" {
		d.Body = body
		return d
	}

	d.Body = Sanitize(c.template(f))
	d.Fallback = true
	return d
}

// Subject names the show and the festival.
func (c *Composer) Subject(f *domain.Festival) string {
	offer := domain.CoalesceStr(c.persona.Show, c.persona.Company, "Show proposal")
	if name := domain.CleanText(f.Name); name != "" {
		return fmt.Sprintf("%s for %s %d", offer, name, c.builder.Year())
	}
	return offer
}

func (c *Composer) template(f *domain.Festival) string {
	var sb strings.Builder
	sb.WriteString(enrichment.Salutation(f))
	sb.WriteString("\n\n")

	company := domain.CoalesceStr(c.persona.Company, "our company")
	name := domain.CoalesceStr(domain.CleanText(f.Name), "your festival")
	fmt.Fprintf(&sb, "We are %s and would love to perform at %s this year.", company, name)
	if c.persona.Show != "" {
		fmt.Fprintf(&sb, " We would like to offer our show %s.", c.persona.Show)
	}
	sb.WriteString(" Please find our dossier and video attached.")
	if c.persona.Website != "" {
		fmt.Fprintf(&sb, " More at %s.", c.persona.Website)
	}
	sb.WriteString("\n\nKind regards,\n")
	sb.WriteString(domain.CoalesceStr(c.persona.Signature, strings.TrimSpace(c.persona.Name+"\n"+c.persona.Company)))
	return sb.String()
}

var (
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
	mdEmphasis   = regexp.MustCompile(`(\*\*|__|\*|` + "`" + `)`)
	mdHeading    = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s*`)
	mdBullet     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	extraNewline = regexp.MustCompile(`\n{3,}`)
	subjectLine  = regexp.MustCompile(`(?i)^subject:[^\n]*\n+`)
)

// Sanitize reduces model output to plain text of at most
// enrichment.MaxEmailBodyChars characters.
func Sanitize(s string) string {
	s = llm.StripCodeFences(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = htmlTag.ReplaceAllString(s, "")
	s = mdHeading.ReplaceAllString(s, "")
	s = mdBullet.ReplaceAllString(s, "")
	s = mdEmphasis.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = subjectLine.ReplaceAllString(s, "")
	s = extraNewline.ReplaceAllString(s, "\n\n")
	return truncate(strings.TrimSpace(s), enrichment.MaxEmailBodyChars)
}

// truncate cuts s to max runes, backing up to the last word boundary.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)[:max]
	// Only back up when the boundary keeps at least half of the budget.
	for i := len(runes) - 1; i > max/2; i-- {
		if runes[i] == ' ' || runes[i] == '\n' {
			runes = runes[:i]
			break
		}
	}
	return strings.TrimSpace(string(runes))
}
