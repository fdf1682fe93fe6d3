package enrichment

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// SystemPrompt is sent as the system message of every enrichment chat call.
const SystemPrompt = `You are a research assistant for a touring street-performance company.
You complete records about festivals from official and public sources.
You answer with data only, never with conversation.`

// normalizationRules tells the model how to format values it returns.
const normalizationRules = `Normalization rules:
- Write every date as an ISO-8601 string (YYYY-MM-DD).
- Only use dates for %[1]d or later. If you only find older editions, leave the date empty.
- If the festival runs over a date range, start_date is the first day and end_date is the last day.
- Derive approximate_date from the day-of-month of start_date: days 1-10 give "early <Month>", days 11-20 give "mid <Month>", days 21-31 give "late <Month>".
- If the range spans two months, combine the buckets as "late <Month1>–early <Month2>".
- festival_type must be one of: %[2]s.
- application_type must be one of: %[3]s.`

// applicationTypeProcedure is applied top to bottom; the first match wins.
const applicationTypeProcedure = `Classify application_type with this procedure. Apply the steps in order and stop at the first step that matches. Do not skip steps.
1. FORM if an application portal or form exists, in any language.
2. INVITATION_ONLY if the programme is curated or by invitation only.
3. EMAIL if submissions are solicited by email.
4. EMAIL if none of the above matched but a contact email is known.
5. OTHER if an application method is explicitly described but fits none of the above. Put the details in comments.
6. UNKNOWN only if there is no form, no invitation statement and no email at all.`

const sourceRules = `When sources disagree, prefer the festival's official website and official social accounts over agendas, blogs and aggregators.
Keep existing values unless a source clearly shows they are wrong.`

// PromptBuilder renders enrichment and outreach prompts. Now supplies the
// year that dates must not predate.
type PromptBuilder struct {
	Now func() time.Time
}

// NewPromptBuilder returns a builder on the wall clock.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{Now: time.Now}
}

// Year is the current year on the builder's clock.
func (b *PromptBuilder) Year() int {
	if b.Now == nil {
		return time.Now().Year()
	}
	return b.Now().Year()
}

// Enrichment renders the record-completion prompt. searchContext is the
// aggregated web search text from a previous pass, or "" on the first pass.
func (b *PromptBuilder) Enrichment(f *domain.Festival, searchContext string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Find complete, current information about the festival %q.\n\n", domain.CleanText(f.Name))

	sb.WriteString("Current record (empty means unknown):\n")
	for _, fs := range recordFields {
		fmt.Fprintf(&sb, "- %s: %s\n", fs.key, placeholder(fs.get(f)))
	}
	if missing := MissingFields(f); len(missing) > 0 {
		fmt.Fprintf(&sb, "\nFields to fill in first: %s\n", strings.Join(missing, ", "))
	}

	if strings.TrimSpace(searchContext) != "" {
		sb.WriteString("\nWeb search results:\n<<<\n")
		sb.WriteString(strings.TrimSpace(searchContext))
		sb.WriteString("\n>>>\n")
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, normalizationRules, b.Year(),
		joinEnum(domain.FestivalTypes), joinEnum(domain.ApplicationTypes))
	sb.WriteString("\n\n")
	sb.WriteString(applicationTypeProcedure)
	sb.WriteString("\n\n")
	sb.WriteString(sourceRules)
	sb.WriteString("\n\n")

	sb.WriteString("Output ONLY one well-formed JSON object with exactly these keys:\n")
	sb.WriteString(strings.Join(ResponseKeys, ", "))
	sb.WriteString("\nUse an empty string for anything you cannot find. No prose, no markdown, no code fences.")

	return sb.String()
}

// placeholder renders blank and sentinel values as an empty slot.
func placeholder(v string) string {
	return domain.CleanText(v)
}

func joinEnum[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
