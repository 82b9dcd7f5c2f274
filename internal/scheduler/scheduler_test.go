package scheduler

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func TestParseCron(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"* * * * *", false},
		{"0 4 * * *", false},
		{"*/15 1-5 1,15 * 0-6/2", false},
		{"0 4 * *", true},
		{"60 * * * *", true},
		{"*/0 * * * *", true},
		{"5-1 * * * *", true},
		{"5/2 * * * *", true},
		{"a * * * *", true},
	}
	for _, tt := range tests {
		_, err := ParseCron(tt.expr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCron(%q) err = %v, wantErr %v", tt.expr, err, tt.wantErr)
		}
	}

	c, _ := ParseCron("*/20 1-5/2 * * *")
	if !slices.Equal(c.Minutes, []int{0, 20, 40}) || !slices.Equal(c.Hours, []int{1, 3, 5}) {
		t.Errorf("parsed = %+v", c)
	}
}

func TestMatches(t *testing.T) {
	c, err := ParseCron("30 4 * * 1")
	if err != nil {
		t.Fatal(err)
	}
	monday := time.Date(2026, 10, 19, 4, 30, 0, 0, time.Local)
	if !c.Matches(monday) {
		t.Error("should match Monday 04:30")
	}
	if c.Matches(monday.Add(time.Minute)) {
		t.Error("should not match 04:31")
	}
	if c.Matches(monday.AddDate(0, 0, 1)) {
		t.Error("should not match Tuesday")
	}
}

func TestTickRunsMatchingJobs(t *testing.T) {
	s := New()
	var ran []string
	s.Add("every", "* * * * *", func(context.Context) error {
		ran = append(ran, "every")
		return nil
	})
	s.Add("never", "0 0 1 1 *", func(context.Context) error {
		ran = append(ran, "never")
		return nil
	})
	s.Add("failing", "* * * * *", func(context.Context) error {
		ran = append(ran, "failing")
		return errors.New("boom")
	})
	if err := s.Add("bad", "nope", nil); err == nil {
		t.Error("expected parse error")
	}

	s.Tick(context.Background(), time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local))
	if !slices.Equal(ran, []string{"every", "failing"}) {
		t.Errorf("ran = %v", ran)
	}
}

func TestStopWithoutStart(t *testing.T) {
	New().Stop()
}
