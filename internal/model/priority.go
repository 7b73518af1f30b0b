package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority matches names case-insensitively. An empty value means unset.
func ParsePriority(s string) (*Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, p := range Priorities {
		if strings.EqualFold(string(p), s) {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
}

// ValidatePriority accepts nil (unset) and the three known levels.
func ValidatePriority(p *Priority) error {
	if p != nil && !p.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, string(*p))
	}
	return nil
}

func (p Priority) DisplayName() string {
	return cases.Title(language.English).String(strings.ToLower(string(p)))
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
