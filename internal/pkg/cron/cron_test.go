package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTriggerRunsJob(t *testing.T) {
	s := New(zap.NewNop())
	ran := make(chan struct{}, 1)
	s.Register(Job{
		Name:  "touch",
		Every: time.Hour,
		Run: func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})

	if err := s.Trigger(context.Background(), "touch"); err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run after Trigger")
	}
}

func TestTriggerUnknownJob(t *testing.T) {
	s := New(nil)
	if err := s.Trigger(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestJobsSnapshot(t *testing.T) {
	s := New(nil)
	s.Register(Job{Name: "a", Description: "first", Every: time.Minute, Run: func(context.Context) error { return nil }})
	s.Register(Job{Name: "b", Every: time.Hour, Run: func(context.Context) error { return errors.New("boom") }})

	jobs := s.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("Jobs() returned %d entries, want 2", len(jobs))
	}
	for _, j := range jobs {
		if j.Status != StatusIdle {
			t.Errorf("job %s status = %s, want idle before any run", j.Name, j.Status)
		}
		if j.NextRunAt.IsZero() {
			t.Errorf("job %s has zero NextRunAt", j.Name)
		}
	}
}

func TestFailedJobRecordsStatus(t *testing.T) {
	s := New(zap.NewNop())
	done := make(chan struct{}, 1)
	s.Register(Job{
		Name:  "fails",
		Every: time.Hour,
		Run: func(ctx context.Context) error {
			defer func() { done <- struct{}{} }()
			return errors.New("boom")
		},
	})

	if err := s.Trigger(context.Background(), "fails"); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	<-done

	// Give the scheduler a moment to record the outcome.
	deadline := time.After(2 * time.Second)
	for {
		jobs := s.Jobs()
		if len(jobs) == 1 && jobs[0].Status == StatusFailed {
			if jobs[0].Message == "" {
				t.Error("failed job should expose its error message")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("job status = %s, want failed", jobs[0].Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
