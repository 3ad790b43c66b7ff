// Package schedule extracts a canonical weekday token from the free-text
// schedule line of an activity ("Quartas-feiras, 19:00 - 20:30").
package schedule

import "strings"

// Canonical weekday tokens.
const (
	Segunda = "segunda"
	Terca   = "terca"
	Quarta  = "quarta"
	Quinta  = "quinta"
	Sexta   = "sexta"
	Sabado  = "sabado"
	Domingo = "domingo"
)

type dayPattern struct {
	substr string
	token  string
}

// Table order matters. Each full form is tried before its truncated stem so
// both resolve to the same token, and the accented spellings come before the
// bare stems that would otherwise shadow them.
var dayPatterns = []dayPattern{
	{"segunda", Segunda},
	{"segund", Segunda},
	{"terça", Terca},
	{"terç", Terca},
	{"quarta", Quarta},
	{"quart", Quarta},
	{"quinta", Quinta},
	{"quint", Quinta},
	{"sexta", Sexta},
	{"sext", Sexta},
	{"sábado", Sabado},
	{"sabad", Sabado},
	{"domingo", Domingo},
	{"doming", Domingo},
}

// Resolve returns the weekday token named in text, matching plural and
// truncated Portuguese forms. The second return is false when no known
// weekday occurs in the input.
func Resolve(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range dayPatterns {
		if strings.Contains(lower, p.substr) {
			return p.token, true
		}
	}
	return "", false
}
