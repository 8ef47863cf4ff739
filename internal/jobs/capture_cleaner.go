package jobs

import (
	"context"
	"time"

	"github.com/emrgen/webmention/internal/store"
	"github.com/sirupsen/logrus"
)

// CaptureCleaner erases debug captures older than the retention.
type CaptureCleaner struct {
	store     store.DebugStore
	retention time.Duration
	cron      string
	now       func() time.Time
}

// NewCaptureCleaner creates a new CaptureCleaner instance.
func NewCaptureCleaner(schedule string, retention time.Duration, store store.DebugStore) *CaptureCleaner {
	return &CaptureCleaner{
		store:     store,
		retention: retention,
		cron:      schedule,
		now:       time.Now,
	}
}

func (c *CaptureCleaner) Schedule() string {
	return c.cron
}

func (c *CaptureCleaner) Run() {
	before := c.now().Add(-c.retention)
	logrus.Infof("cleaning up debug captures before %s", before.Format(time.RFC3339))

	removed, err := c.store.DeleteDebugCapturesBefore(context.Background(), before)
	if err != nil {
		logrus.Error("Error deleting the captures: ", err)
		return
	}

	logrus.Infof("removed %d captures", removed)
}
