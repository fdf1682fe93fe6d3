package enrichment

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// MaxEmailBodyChars caps outreach email bodies.
const MaxEmailBodyChars = 500

// EmailSystemPrompt is sent as the system message of outreach email drafts.
const EmailSystemPrompt = `You write outreach emails for a touring street-performance company.
You write warm, concise plain-text emails to festival programmers.
You answer with the email body only: no subject line, no markdown, no placeholders.`

// Persona is the fixed sender identity used in outreach emails.
type Persona struct {
	Name      string // signing person
	Company   string
	Show      string // show or act being offered
	Website   string
	Signature string // optional closing line block
}

// Salutation greets the named contact when there is one, otherwise the
// festival team.
func Salutation(f *domain.Festival) string {
	if person := domain.CleanText(f.ContactPerson); person != "" {
		return fmt.Sprintf("Dear %s,", person)
	}
	if name := domain.CleanText(f.Name); name != "" {
		return fmt.Sprintf("Dear %s team,", name)
	}
	return "Dear organizers,"
}

// OutreachEmail renders the prompt asking for a plain-text outreach email.
func (b *PromptBuilder) OutreachEmail(f *domain.Festival, p Persona) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write a short application email from %s", p.Company)
	if p.Name != "" {
		fmt.Fprintf(&sb, " (signed by %s)", p.Name)
	}
	fmt.Fprintf(&sb, " to the festival %q", domain.CleanText(f.Name))
	if town := domain.CleanText(f.Town); town != "" {
		fmt.Fprintf(&sb, " in %s", town)
	}
	sb.WriteString(".\n\n")

	if p.Show != "" {
		fmt.Fprintf(&sb, "We offer the show: %s.\n", p.Show)
	}
	if p.Website != "" {
		fmt.Fprintf(&sb, "Our website: %s\n", p.Website)
	}
	if d := domain.CleanText(f.Description); d != "" {
		fmt.Fprintf(&sb, "About the festival: %s\n", d)
	}
	if when := domain.CoalesceStr(f.ApproximateDate, f.StartDate); when != "" {
		fmt.Fprintf(&sb, "Festival dates: %s (%d edition)\n", when, b.Year())
	}

	sb.WriteString("\nRules:\n")
	fmt.Fprintf(&sb, "- Start with exactly this salutation: %s\n", Salutation(f))
	fmt.Fprintf(&sb, "- The whole email body must be at most %d characters.\n", MaxEmailBodyChars)
	sb.WriteString("- Plain text only. No markdown, no HTML, no subject line, no placeholders in brackets.\n")
	sb.WriteString("- Friendly and professional. Mention that a dossier and video are attached.\n")
	if p.Signature != "" {
		fmt.Fprintf(&sb, "- End with this signature:\n%s\n", p.Signature)
	} else if p.Name != "" {
		fmt.Fprintf(&sb, "- Sign as %s, %s.\n", p.Name, p.Company)
	}
	return sb.String()
}
