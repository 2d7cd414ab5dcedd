package scheduler

import (
	"context"
	"log"
	"time"
)

// Pipeline is anything that can execute one full scrape/predict/persist
// pass.
type Pipeline interface {
	Run(ctx context.Context) error
}

// Scheduler runs the pipeline once at startup and then daily at a fixed
// local hour.
type Scheduler struct {
	pipeline Pipeline
	hour     int // 0-23
}

// New creates a scheduler running the pipeline daily at the given hour.
func New(pipeline Pipeline, hour int) *Scheduler {
	if hour < 0 || hour > 23 {
		hour = 9
	}
	return &Scheduler{pipeline: pipeline, hour: hour}
}

// Start blocks until the context is cancelled, running the pipeline on its
// daily schedule. A failed run is logged and retried at the next slot.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("[scheduler] daily pipeline run scheduled at %02d:00", s.hour)

	s.runOnce(ctx)

	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
		if !now.Before(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		wait := time.Until(nextRun)
		log.Printf("[scheduler] next run: %s (in %v)", nextRun.Format("2006-01-02 15:04:05"), wait.Round(time.Second))

		select {
		case <-ctx.Done():
			log.Println("[scheduler] stopped")
			return
		case <-time.After(wait):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	if err := s.pipeline.Run(ctx); err != nil {
		log.Printf("[scheduler] ❌ pipeline run failed: %v", err)
		return
	}
	log.Printf("[scheduler] ✓ pipeline run complete in %v", time.Since(start).Round(time.Second))
}
