package poller

import (
	"time"

	"github.com/cenkalti/backoff"
)

// Step applies Delay while the elapsed time is below Until.
type Step struct {
	Until time.Duration
	Delay time.Duration
}

// Schedule maps time elapsed since the session started to the delay before
// the next poll. Steps must be ordered by Until.
type Schedule struct {
	Steps []Step
	Final time.Duration
}

// DefaultSchedule polls quickly while a scan is young and slows down as it
// runs longer.
func DefaultSchedule() Schedule {
	return Schedule{
		Steps: []Step{
			{Until: 10 * time.Second, Delay: 2 * time.Second},
			{Until: 30 * time.Second, Delay: 4 * time.Second},
			{Until: 60 * time.Second, Delay: 6 * time.Second},
		},
		Final: 10 * time.Second,
	}
}

// Delay returns the poll delay for the given elapsed time.
func (s Schedule) Delay(elapsed time.Duration) time.Duration {
	for _, step := range s.Steps {
		if elapsed < step.Until {
			return step.Delay
		}
	}
	return s.Final
}

// ScheduleBackOff exposes a Schedule through the backoff.BackOff interface.
// Elapsed time is measured from the last Reset.
type ScheduleBackOff struct {
	schedule Schedule
	start    time.Time
	now      func() time.Time
}

var _ backoff.BackOff = (*ScheduleBackOff)(nil)

func NewScheduleBackOff(schedule Schedule) *ScheduleBackOff {
	b := &ScheduleBackOff{schedule: schedule, now: time.Now}
	b.Reset()
	return b
}

func (b *ScheduleBackOff) NextBackOff() time.Duration {
	return b.schedule.Delay(b.now().Sub(b.start))
}

func (b *ScheduleBackOff) Reset() {
	b.start = b.now()
}
