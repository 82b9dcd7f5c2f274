package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Job is a maintenance task run whenever its cron expression matches.
type Job struct {
	Name string
	Cron *CronExpr
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	mu     sync.Mutex
	jobs   []Job
	cancel context.CancelFunc
	done   chan struct{}
}

func New() *Scheduler {
	return &Scheduler{}
}

// Add registers run under a 5-field cron expression.
func (s *Scheduler) Add(name, expr string, run func(ctx context.Context) error) error {
	cron, err := ParseCron(expr)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, Job{Name: name, Cron: cron, Run: run})
	return nil
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		// Check every 60 seconds, aligned to the minute
		for {
			now := time.Now()
			nextMinute := now.Truncate(time.Minute).Add(time.Minute)

			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(nextMinute)):
				s.Tick(ctx, nextMinute)
			}
		}
	}()

	log.Println("Scheduler started")
}

// Stop cancels the loop and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Tick runs every job whose expression matches now, in registration order.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, j := range jobs {
		if !j.Cron.Matches(now) {
			continue
		}
		start := time.Now()
		if err := j.Run(ctx); err != nil {
			log.Printf("scheduler: %s failed: %v", j.Name, err)
			continue
		}
		log.Printf("scheduler: %s done in %s", j.Name, time.Since(start).Round(time.Millisecond))
	}
}
