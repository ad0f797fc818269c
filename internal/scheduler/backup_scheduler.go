package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const backupTimeout = 5 * time.Minute

// BackupScheduler runs automatic backups following the saved settings
type BackupScheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	backups service.BackupService
	entry   cron.EntryID
	active  bool
}

func NewBackupScheduler(backups service.BackupService) *BackupScheduler {
	return &BackupScheduler{
		cron:    cron.New(),
		backups: backups,
	}
}

// CronSpec turns backup settings into a five-field cron expression
func CronSpec(settings model.BackupSettings) (string, error) {
	if !model.ValidClock(settings.Time) {
		return "", fmt.Errorf("invalid backup time %q", settings.Time)
	}
	parts := strings.SplitN(settings.Time, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])

	switch settings.Frequency {
	case model.BackupDaily:
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case model.BackupWeekly:
		return fmt.Sprintf("%d %d * * 0", minute, hour), nil
	case model.BackupMonthly:
		return fmt.Sprintf("%d %d 1 * *", minute, hour), nil
	}
	return "", fmt.Errorf("invalid backup frequency %q", settings.Frequency)
}

// Start loads the current settings and starts the cron loop
func (s *BackupScheduler) Start() error {
	settings, err := s.backups.GetSettings()
	if err != nil {
		logger.Error("Failed to load backup settings for scheduler", err)
		return err
	}
	if err := s.Reschedule(*settings); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Backup scheduler started", map[string]interface{}{
		"auto_backup": settings.AutoBackup,
		"frequency":   settings.Frequency,
		"time":        settings.Time,
	})
	return nil
}

// Reschedule replaces the backup job. Auto backup off removes it.
func (s *BackupScheduler) Reschedule(settings model.BackupSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.cron.Remove(s.entry)
		s.active = false
	}
	if !settings.AutoBackup {
		logger.Info("Automatic backup disabled", nil)
		return nil
	}

	spec, err := CronSpec(settings)
	if err != nil {
		logger.Error("Failed to build backup schedule", err, map[string]interface{}{
			"frequency": settings.Frequency,
			"time":      settings.Time,
		})
		return err
	}

	entry, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for backup", err, map[string]interface{}{
			"spec": spec,
		})
		return err
	}
	s.entry = entry
	s.active = true

	logger.Info("Automatic backup scheduled", map[string]interface{}{
		"spec": spec,
	})
	return nil
}

// Next reports when the scheduled backup runs next
func (s *BackupScheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return time.Time{}, false
	}
	return s.cron.Entry(s.entry).Next, true
}

func (s *BackupScheduler) run() {
	logger.Info("Starting scheduled backup", nil)

	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	record, err := s.backups.Create(ctx, model.BackupTriggerScheduled, nil)
	if err != nil {
		logger.Error("Scheduled backup failed", err)
		return
	}

	logger.Info("Scheduled backup finished", map[string]interface{}{
		"backup_id": record.ID,
		"key":       record.Key,
	})
}

func (s *BackupScheduler) Stop() {
	logger.Info("Stopping backup scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Backup scheduler stopped", nil)
}
