package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/spf13/pflag"
)

// festivalTypeFlag is a pflag.Value restricted to the festival type set.
type festivalTypeFlag struct{ value domain.FestivalType }

var _ pflag.Value = (*festivalTypeFlag)(nil)

func (f *festivalTypeFlag) String() string { return string(f.value) }
func (f *festivalTypeFlag) Type() string   { return "festival-type" }

func (f *festivalTypeFlag) Set(s string) error {
	t, ok := domain.ParseFestivalType(s)
	if !ok {
		return fmt.Errorf("must be one of %s", joinEnum(domain.FestivalTypes))
	}
	f.value = t
	return nil
}

type applicationTypeFlag struct{ value domain.ApplicationType }

var _ pflag.Value = (*applicationTypeFlag)(nil)

func (f *applicationTypeFlag) String() string { return string(f.value) }
func (f *applicationTypeFlag) Type() string   { return "application-type" }

func (f *applicationTypeFlag) Set(s string) error {
	t, ok := domain.ParseApplicationType(s)
	if !ok {
		return fmt.Errorf("must be one of %s", joinEnum(domain.ApplicationTypes))
	}
	f.value = t
	return nil
}

type methodFlag struct{ value domain.Method }

var _ pflag.Value = (*methodFlag)(nil)

func (f *methodFlag) String() string { return string(f.value) }
func (f *methodFlag) Type() string   { return "method" }

func (f *methodFlag) Set(s string) error {
	m, ok := domain.ParseMethod(s)
	if !ok {
		return fmt.Errorf("must be one of %s", joinEnum(domain.Methods))
	}
	f.value = m
	return nil
}

type statusFlag struct{ value domain.ApplicationStatus }

var _ pflag.Value = (*statusFlag)(nil)

func (f *statusFlag) String() string { return string(f.value) }
func (f *statusFlag) Type() string   { return "status" }

func (f *statusFlag) Set(s string) error {
	st, err := domain.ParseApplicationStatus(s)
	if err != nil {
		return err
	}
	f.value = st
	return nil
}

// dateFlag holds an optional YYYY-MM-DD date.
type dateFlag struct{ value *time.Time }

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string {
	if f.value == nil {
		return ""
	}
	return f.value.Format(domain.DateLayout)
}

func (f *dateFlag) Type() string { return "date" }

func (f *dateFlag) Set(s string) error {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD")
	}
	f.value = &t
	return nil
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
