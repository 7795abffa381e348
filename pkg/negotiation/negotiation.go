// Package negotiation implements a best-effort parser for Accept-* style
// headers of the form "token[;q=value], ...".
//
// Missing or unparseable quality values never produce an error: they are
// read as 1.0. Parsed values are kept as sent, so q=-1 is never selected and
// q=3 still outranks q=2.
package negotiation

import (
	"math"
	"strconv"
	"strings"
)

const defaultQuality = 1.0

type Preference struct {
	Token   string
	Quality float64
}

type Negotiation struct {
	preferences []Preference
}

// Parse splits header into preferences, keeping header order.
func Parse(header string) Negotiation {
	n := Negotiation{}
	for _, item := range strings.Split(header, ",") {
		params := strings.Split(item, ";")
		token := strings.TrimSpace(params[0])
		if token == "" {
			continue
		}

		n.preferences = append(n.preferences, Preference{
			Token:   token,
			Quality: quality(params[1:]),
		})
	}
	return n
}

func quality(params []string) float64 {
	for _, param := range params {
		name, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "q") {
			continue
		}

		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(q) {
			return defaultQuality
		}
		return q
	}
	return defaultQuality
}

func (n Negotiation) Preferences() []Preference {
	out := make([]Preference, len(n.preferences))
	copy(out, n.preferences)
	return out
}

// Best returns the entry of available with the highest quality. A
// preference only wins by being strictly better than everything seen before
// it, so q=0 is never selected and ties go to the earliest preference.
func (n Negotiation) Best(available ...string) (string, bool) {
	best, bestQuality := "", 0.0
	for _, pref := range n.preferences {
		if pref.Quality <= bestQuality {
			continue
		}
		if match, ok := lookup(available, pref.Token); ok {
			best, bestQuality = match, pref.Quality
		}
	}
	return best, best != ""
}

func lookup(available []string, token string) (string, bool) {
	for _, candidate := range available {
		if strings.EqualFold(candidate, token) {
			return candidate, true
		}
	}
	return "", false
}
