package proctree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
)

// Filter is a parsed filter expression. The zero value matches everything.
//
// Terms are separated by whitespace and must all match:
//
//	firefox      substring of name, command, user or pid
//	user:root    owner name starts with root
//	pid:42       exact pid
//	state:z      state letter or name prefix
//	cpu>5 mem<1  percentage thresholds
type Filter struct {
	text  string
	terms []term
}

type term func(p models.ProcessInfo) bool

// ParseFilter parses text. Matching is case-insensitive.
func ParseFilter(text string) (Filter, error) {
	f := Filter{text: strings.TrimSpace(text)}
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		t, err := parseTerm(raw)
		if err != nil {
			return Filter{}, err
		}
		f.terms = append(f.terms, t)
	}
	return f, nil
}

// Active reports whether the filter restricts anything.
func (f Filter) Active() bool { return len(f.terms) > 0 }

func (f Filter) String() string { return f.text }

// Match reports whether p satisfies every term.
func (f Filter) Match(p models.ProcessInfo) bool {
	for _, t := range f.terms {
		if !t(p) {
			return false
		}
	}
	return true
}

func parseTerm(raw string) (term, error) {
	if key, val, ok := strings.Cut(raw, ":"); ok && val != "" {
		switch key {
		case "user":
			return func(p models.ProcessInfo) bool {
				return strings.HasPrefix(strings.ToLower(p.User), val)
			}, nil
		case "pid":
			pid, err := strconv.ParseInt(val, 10, 32)
			if err != nil {
				return nil, badTerm(raw, "pid must be a number")
			}
			return func(p models.ProcessInfo) bool { return int64(p.PID) == pid }, nil
		case "state":
			return func(p models.ProcessInfo) bool {
				return strings.EqualFold(p.State.Short(), val) || strings.HasPrefix(string(p.State), val)
			}, nil
		}
	}

	for _, field := range []string{"cpu", "mem"} {
		rest, ok := strings.CutPrefix(raw, field)
		if !ok || rest == "" || (rest[0] != '>' && rest[0] != '<') {
			continue
		}
		n, err := strconv.ParseFloat(rest[1:], 64)
		if err != nil {
			return nil, badTerm(raw, "threshold must be a number")
		}
		value := func(p models.ProcessInfo) float64 { return p.CPUPercent }
		if field == "mem" {
			value = func(p models.ProcessInfo) float64 { return p.MemPercent }
		}
		if rest[0] == '>' {
			return func(p models.ProcessInfo) bool { return value(p) > n }, nil
		}
		return func(p models.ProcessInfo) bool { return value(p) < n }, nil
	}

	return func(p models.ProcessInfo) bool {
		return strings.Contains(strings.ToLower(p.Name), raw) ||
			strings.Contains(strings.ToLower(p.Command), raw) ||
			strings.Contains(strings.ToLower(p.User), raw) ||
			strings.Contains(strconv.Itoa(int(p.PID)), raw)
	}, nil
}

func badTerm(raw, why string) error {
	return errors.New(errors.ErrConfig, fmt.Sprintf("Invalid filter term '%s': %s", raw, why), "")
}
