package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultScheduleDelay(t *testing.T) {
	schedule := DefaultSchedule()

	tests := []struct {
		elapsed time.Duration
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{9999 * time.Millisecond, 2 * time.Second},
		{10 * time.Second, 4 * time.Second},
		{29999 * time.Millisecond, 4 * time.Second},
		{30 * time.Second, 6 * time.Second},
		{59999 * time.Millisecond, 6 * time.Second},
		{60 * time.Second, 10 * time.Second},
		{119 * time.Second, 10 * time.Second},
		{10 * time.Minute, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.elapsed.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.Delay(tt.elapsed))
		})
	}
}

func TestScheduleBackOffTracksElapsedSinceReset(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := &ScheduleBackOff{schedule: DefaultSchedule(), now: func() time.Time { return now }}
	b.Reset()

	assert.Equal(t, 2*time.Second, b.NextBackOff())

	now = now.Add(15 * time.Second)
	assert.Equal(t, 4*time.Second, b.NextBackOff())

	now = now.Add(50 * time.Second)
	assert.Equal(t, 10*time.Second, b.NextBackOff())

	b.Reset()
	assert.Equal(t, 2*time.Second, b.NextBackOff())
}
