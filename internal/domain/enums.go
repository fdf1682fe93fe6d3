package domain

import "strings"

type FestivalType string

const (
	FestivalStreet             FestivalType = "STREET"
	FestivalPuppet             FestivalType = "PUPPET"
	FestivalJugglingConvention FestivalType = "JUGGLING_CONVENTION"
	FestivalCircus             FestivalType = "CIRCUS"
	FestivalMusic              FestivalType = "MUSIC"
	FestivalTheatre            FestivalType = "THEATRE"
	FestivalDance              FestivalType = "DANCE"
	FestivalOther              FestivalType = "OTHER"
)

// FestivalTypes is the closed set of festival types, in display order.
var FestivalTypes = []FestivalType{
	FestivalStreet, FestivalPuppet, FestivalJugglingConvention, FestivalCircus,
	FestivalMusic, FestivalTheatre, FestivalDance, FestivalOther,
}

type ApplicationType string

const (
	ApplicationEmail          ApplicationType = "EMAIL"
	ApplicationForm           ApplicationType = "FORM"
	ApplicationInvitationOnly ApplicationType = "INVITATION_ONLY"
	ApplicationOther          ApplicationType = "OTHER"
	ApplicationUnknown        ApplicationType = "UNKNOWN"
)

// ApplicationTypes is the closed set of application types, in display order.
var ApplicationTypes = []ApplicationType{
	ApplicationEmail, ApplicationForm, ApplicationInvitationOnly, ApplicationOther, ApplicationUnknown,
}

// Method is how an outreach attempt was made.
type Method string

const (
	MethodEmail   Method = "EMAIL"
	MethodForm    Method = "FORM"
	MethodOther   Method = "OTHER"
	MethodUnknown Method = "UNKNOWN"
)

var Methods = []Method{MethodEmail, MethodForm, MethodOther, MethodUnknown}

// ParseFestivalType maps free text onto the closed set. The second return
// reports whether s was a recognised member; unrecognised input maps to OTHER.
func ParseFestivalType(s string) (FestivalType, bool) {
	norm := normalizeEnumText(s)
	for _, t := range FestivalTypes {
		if string(t) == norm {
			return t, true
		}
	}
	return FestivalOther, false
}

// ParseApplicationType maps free text onto the closed set. Unrecognised input
// maps to UNKNOWN.
func ParseApplicationType(s string) (ApplicationType, bool) {
	norm := normalizeEnumText(s)
	for _, t := range ApplicationTypes {
		if string(t) == norm {
			return t, true
		}
	}
	return ApplicationUnknown, false
}

// ParseMethod maps free text onto the closed set. Unrecognised input maps to
// UNKNOWN.
func ParseMethod(s string) (Method, bool) {
	norm := normalizeEnumText(s)
	for _, m := range Methods {
		if string(m) == norm {
			return m, true
		}
	}
	return MethodUnknown, false
}

// MethodFor picks the outreach method implied by a festival's application type.
func MethodFor(t ApplicationType) Method {
	switch t {
	case ApplicationEmail:
		return MethodEmail
	case ApplicationForm:
		return MethodForm
	case ApplicationOther, ApplicationInvitationOnly:
		return MethodOther
	default:
		return MethodUnknown
	}
}

// normalizeEnumText upper-cases s and folds spaces and dashes to underscores so
// "juggling convention" and "Invitation-only" match their constants.
func normalizeEnumText(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
