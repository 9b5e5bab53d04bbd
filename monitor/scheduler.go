// api/monitor/scheduler.go
package monitor

import (
	"context"
	"log"
	"time"
)

// Scheduler triggers a monitoring cycle on a fixed interval. It shares
// the Service (and its cycle mutex) with the HTTP trigger, so scheduled
// and manual cycles queue up rather than overlap.
type Scheduler struct {
	service  *Service
	interval time.Duration
}

func NewScheduler(service *Service, interval time.Duration) *Scheduler {
	return &Scheduler{service: service, interval: interval}
}

// Run blocks until ctx is cancelled. A failed cycle is logged and the
// next tick retries from scratch; there is no backoff.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("Scheduler started, running a monitoring cycle every %s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped.")
			return
		case <-ticker.C:
			res, err := s.service.RunCycle(ctx, "scheduler")
			if err != nil {
				log.Printf("Scheduled cycle failed: %v", err)
				continue
			}
			log.Printf("Scheduled cycle completed: found=%d stored=%d", res.RecordsFound, res.RecordsStored)
		}
	}
}
