package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventWindowStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	running := Event{
		StartDate:  now.Add(-time.Hour),
		FinishDate: now.Add(time.Hour),
	}
	assert.Equal(t, EventRunning, running.WindowStatus(now))

	finished := Event{
		StartDate:  now.Add(-48 * time.Hour),
		FinishDate: now.Add(-time.Hour),
	}
	assert.Equal(t, EventFinished, finished.WindowStatus(now))

	noWindow := Event{}
	assert.Equal(t, EventRunning, noWindow.WindowStatus(now))
}
