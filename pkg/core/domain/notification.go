package domain

import (
	"slices"
	"strings"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var severities = []Severity{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError}

func ParseSeverity(s string) (Severity, error) {
	v := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(severities, v) {
		return "", &ParseError{Field: "severity", Value: s}
	}
	return v, nil
}

// Notification is only ever mutated through the read/unread toggle.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
	Severity    Severity  `json:"severity"`
}

// RewardTier is reached once an author's leaderboard score is at least MinPoints.
type RewardTier struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MinPoints int64    `json:"min_points"`
	Perks     []string `json:"perks"`
}
