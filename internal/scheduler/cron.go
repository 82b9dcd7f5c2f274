package scheduler

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// CronExpr is a parsed 5-field cron expression: minute, hour, day of month,
// month, day of week.
type CronExpr struct {
	Minutes     []int
	Hours       []int
	DaysOfMonth []int
	Months      []int
	DaysOfWeek  []int
}

type fieldSpec struct {
	name     string
	min, max int
}

var fields = [5]fieldSpec{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 6},
}

func ParseCron(expr string) (*CronExpr, error) {
	parts := strings.Fields(expr)
	if len(parts) != len(fields) {
		return nil, fmt.Errorf("cron expression must have 5 fields, got %d", len(parts))
	}

	var parsed [5][]int
	for i, f := range fields {
		vals, err := parseField(parts[i], f.min, f.max)
		if err != nil {
			return nil, fmt.Errorf("%s field: %w", f.name, err)
		}
		parsed[i] = vals
	}

	return &CronExpr{
		Minutes:     parsed[0],
		Hours:       parsed[1],
		DaysOfMonth: parsed[2],
		Months:      parsed[3],
		DaysOfWeek:  parsed[4],
	}, nil
}

func (c *CronExpr) Matches(t time.Time) bool {
	return slices.Contains(c.Minutes, t.Minute()) &&
		slices.Contains(c.Hours, t.Hour()) &&
		slices.Contains(c.DaysOfMonth, t.Day()) &&
		slices.Contains(c.Months, int(t.Month())) &&
		slices.Contains(c.DaysOfWeek, int(t.Weekday()))
}

// parseField accepts *, */n, n, n-m, n-m/s and comma-separated lists.
func parseField(field string, min, max int) ([]int, error) {
	var result []int
	for _, part := range strings.Split(field, ",") {
		vals, err := parsePart(part, min, max)
		if err != nil {
			return nil, err
		}
		result = append(result, vals...)
	}
	return result, nil
}

func parsePart(part string, min, max int) ([]int, error) {
	rng, stepStr, hasStep := strings.Cut(part, "/")
	step := 1
	if hasStep {
		n, err := strconv.Atoi(stepStr)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid step: %s", part)
		}
		step = n
	}

	lo, hi := min, max
	switch {
	case rng == "*":
	case strings.Contains(rng, "-"):
		a, b, _ := strings.Cut(rng, "-")
		var err error
		if lo, err = bound(a, min, max); err != nil {
			return nil, err
		}
		if hi, err = bound(b, min, max); err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("invalid range: %s", part)
		}
	default:
		if hasStep {
			return nil, fmt.Errorf("step needs a range: %s", part)
		}
		v, err := bound(rng, min, max)
		if err != nil {
			return nil, err
		}
		return []int{v}, nil
	}

	var vals []int
	for i := lo; i <= hi; i += step {
		vals = append(vals, i)
	}
	return vals, nil
}

func bound(s string, min, max int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value: %s", s)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("value %d out of range %d-%d", v, min, max)
	}
	return v, nil
}
