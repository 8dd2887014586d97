package geocache

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Janitor periodically sweeps expired entries out of a Cache.
type Janitor struct {
	scheduler *gocron.Scheduler
	cache     *Cache
	interval  time.Duration
}

// NewJanitor creates a Janitor sweeping cache every interval.
func NewJanitor(cache *Cache, interval time.Duration) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (j *Janitor) Start() error {
	if j.interval <= 0 {
		log.Println("geocache janitor: no sweep interval configured; nothing to schedule")
		return nil
	}

	_, err := j.scheduler.Every(j.interval).Do(func() {
		if removed := j.cache.Sweep(); removed > 0 {
			log.Printf("geocache janitor: swept %d expired entries", removed)
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
