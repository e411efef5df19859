package task

import (
	"math"

	"github.com/amirbrooks/taskcli/internal/dates"
)

// DefaultCoefficients weight the urgency factors that feed RankScore.
// Users can override any of these in config.yaml.
func DefaultCoefficients() map[string]float64 {
	return map[string]float64{
		"next_tag":    15.0,
		"due":         12.0,
		"blocking":    8.0,
		"priority_h":  6.0,
		"priority_m":  3.9,
		"priority_l":  1.8,
		"scheduled":   5.0,
		"active":      4.0,
		"age":         2.0,
		"annotations": 1.0,
		"tags":        1.0,
		"project":     1.0,
		"waiting":     -3.0,
		"blocked":     -5.0,
	}
}

// Rank computes the urgency score for a task relative to today. Each
// factor contributes its coefficient, scaled where the factor has a
// magnitude (due proximity, age). Done and deleted tasks always score
// zero.
func Rank(t Task, coeff map[string]float64, today dates.Date) float64 {
	if t.Status == StatusDone || t.Status == StatusDeleted {
		return 0
	}
	score := 0.0
	if t.HasTag("next") {
		score += coeff["next_tag"]
	}
	if !t.Due.IsZero() {
		score += coeff["due"] * dueUrgency(t.Due, today)
	}
	if !t.Scheduled.IsZero() && !t.Scheduled.After(today) {
		score += coeff["scheduled"]
	}
	switch t.Priority {
	case PriorityHigh:
		score += coeff["priority_h"]
	case PriorityMedium:
		score += coeff["priority_m"]
	case PriorityLow:
		score += coeff["priority_l"]
	}
	if t.Status == StatusActive {
		score += coeff["active"]
	}
	if len(t.Blocks) > 0 {
		score += coeff["blocking"]
	}
	if len(t.Depends) > 0 {
		score += coeff["blocked"]
	}
	if len(t.Tags) > 0 {
		score += coeff["tags"]
	}
	if t.Project != "" {
		score += coeff["project"]
	}
	if !t.CreatedAt.IsZero() {
		age := today.Time().Sub(t.CreatedAt).Hours() / 24
		score += coeff["age"] * math.Min(math.Max(age, 0), 365) / 365
	}
	return score
}

// dueUrgency ramps from 0.2 far out to 1.0 at the due date and beyond,
// so overdue and imminent tasks sort first.
func dueUrgency(due, today dates.Date) float64 {
	days := due.Time().Sub(today.Time()).Hours() / 24
	if days <= 0 {
		return 1.0
	}
	if days >= 14 {
		return 0.2
	}
	return 1.0 - 0.8*(days/14)
}
