package services

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/345668/CarbonTrackRegistry-sub001/pkg/logger"
)

// Scheduler drives the periodic maintenance jobs: statistics recomputation
// and system log retention cleanup.
type Scheduler struct {
	cronScheduler *cron.Cron
	stats         *StatisticsService
	systemLogs    *SystemLogService
}

func NewScheduler(stats *StatisticsService, systemLogs *SystemLogService) *Scheduler {
	return &Scheduler{
		cronScheduler: cron.New(),
		stats:         stats,
		systemLogs:    systemLogs,
	}
}

// Start registers the jobs and starts the cron loop. statsRefreshMinutes <= 0
// disables the statistics job.
func (s *Scheduler) Start(statsRefreshMinutes int) error {
	if statsRefreshMinutes > 0 {
		spec := fmt.Sprintf("@every %dm", statsRefreshMinutes)
		if _, err := s.cronScheduler.AddFunc(spec, s.refreshStatistics); err != nil {
			return err
		}
		logger.Infof("[Scheduler] statistics refresh every %d minutes", statsRefreshMinutes)
	}

	// Log cleanup runs nightly at 03:00
	if _, err := s.cronScheduler.AddFunc("0 3 * * *", s.cleanupLogs); err != nil {
		return err
	}

	s.cronScheduler.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *Scheduler) refreshStatistics() {
	if _, err := s.stats.Recompute(); err != nil {
		logger.Warnf("[Scheduler] statistics refresh failed: %v", err)
	}
}

func (s *Scheduler) cleanupLogs() {
	days := s.systemLogs.GetRetentionDays()
	deleted, err := s.systemLogs.CleanupOldLogs(days)
	if err != nil {
		logger.Warnf("[Scheduler] log cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("[Scheduler] log cleanup removed %d entries older than %d days", deleted, days)
	}
}
