package enrichment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// Rejection records a single dropped or coerced value.
type Rejection struct {
	Field  string
	Value  any
	Reason string
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s=%v: %s", r.Field, r.Value, r.Reason)
}

// Reconciliation summarises one Apply call.
type Reconciliation struct {
	Applied  []string    // keys whose value changed
	Rejected []Rejection // values dropped by validation
	Coerced  []Rejection // out-of-set enum values mapped to OTHER/UNKNOWN
	Ignored  []string    // keys outside the protocol
}

// Reconciler applies extracted fields to a record one key at a time.
type Reconciler struct{}

// Apply writes the usable values of fields onto f. Keys that are absent or
// blank leave the field untouched; invalid values drop that key only.
func (Reconciler) Apply(f *domain.Festival, fields map[string]any) Reconciliation {
	var rec Reconciliation
	CleanSentinels(f)

	for _, key := range ResponseKeys {
		raw, present := fields[key]
		if !present || domain.IsBlankValue(raw) {
			continue
		}
		fs, _ := lookupField(key)

		s, ok := raw.(string)
		if !ok {
			rec.Rejected = append(rec.Rejected, Rejection{key, raw, fmt.Sprintf("expected string, got %T", raw)})
			continue
		}
		s = strings.TrimSpace(s)

		var value string
		switch fs.kind {
		case kindDate:
			iso, ok := ParseDate(s)
			if !ok {
				rec.Rejected = append(rec.Rejected, Rejection{key, raw, "unparseable date"})
				continue
			}
			value = iso
		case kindFestivalType:
			t, known := domain.ParseFestivalType(s)
			if !known {
				rec.Coerced = append(rec.Coerced, Rejection{key, raw, "not a festival type, mapped to " + string(t)})
			}
			value = string(t)
		case kindApplicationType:
			t, known := domain.ParseApplicationType(s)
			if !known {
				rec.Coerced = append(rec.Coerced, Rejection{key, raw, "not an application type, mapped to " + string(t)})
			}
			value = string(t)
		default:
			value = s
		}

		if fs.get(f) != value {
			fs.set(f, value)
			rec.Applied = append(rec.Applied, key)
		}
	}

	for key := range fields {
		if _, known := lookupField(key); !known {
			rec.Ignored = append(rec.Ignored, key)
		}
	}
	sort.Strings(rec.Ignored)
	return rec
}
