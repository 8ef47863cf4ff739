package jobs

import (
	"context"
	"time"

	"github.com/emrgen/webmention/internal/cache"
	"github.com/sirupsen/logrus"
)

// StatsTrimmer drops statistic entries older than the retention.
type StatsTrimmer struct {
	cache     cache.StatusCache
	retention time.Duration
	cron      string
	now       func() time.Time
}

func NewStatsTrimmer(schedule string, retention time.Duration, cache cache.StatusCache) *StatsTrimmer {
	return &StatsTrimmer{
		cache:     cache,
		retention: retention,
		cron:      schedule,
		now:       time.Now,
	}
}

func (s *StatsTrimmer) Schedule() string {
	return s.cron
}

func (s *StatsTrimmer) Run() {
	removed, err := s.cache.TrimStats(context.Background(), s.now().Add(-s.retention))
	if err != nil {
		logrus.Errorf("failed to trim stats: %v", err)
		return
	}

	logrus.Infof("trimmed %d stats entries", removed)
}
