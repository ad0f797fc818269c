package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/internal/storage"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidBackup  = errors.New("invalid backup file")
	ErrBackupNotFound = errors.New("backup not found")
)

// SettingsListener is called after backup settings change
type SettingsListener func(settings model.BackupSettings)

type BackupService interface {
	Create(ctx context.Context, trigger string, actorID *uint) (*model.BackupRecord, error)
	Export() (*model.BackupSnapshot, error)
	ParseSnapshot(data []byte) (*model.BackupSnapshot, error)
	Restore(actorID uint, snapshot *model.BackupSnapshot) error
	RestoreRecord(ctx context.Context, actorID, id uint) error
	List(limit int) ([]model.BackupRecord, error)
	GetSettings() (*model.BackupSettings, error)
	UpdateSettings(actorID uint, settings model.BackupSettings) (*model.BackupSettings, error)
	OnSettingsChange(listener SettingsListener)
}

type backupService struct {
	backupRepo repository.BackupRepository
	blobs      storage.BlobStorage
	activity   ActivityService
	prefix     string
	now        func() time.Time

	mu        sync.Mutex
	listeners []SettingsListener
}

func NewBackupService(
	backupRepo repository.BackupRepository,
	blobs storage.BlobStorage,
	activity ActivityService,
	prefix string,
) BackupService {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "backups"
	}
	return &backupService{
		backupRepo: backupRepo,
		blobs:      blobs,
		activity:   activity,
		prefix:     prefix,
		now:        time.Now,
	}
}

func (s *backupService) Export() (*model.BackupSnapshot, error) {
	snapshot, err := s.backupRepo.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	snapshot.CreatedAt = s.now()
	return snapshot, nil
}

func (s *backupService) Create(ctx context.Context, trigger string, actorID *uint) (*model.BackupRecord, error) {
	snapshot, err := s.Export()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	key := fmt.Sprintf("%s/backup-%s-%s.json", s.prefix, snapshot.CreatedAt.Format("20060102-150405"), uuid.NewString())
	if err := s.blobs.Put(ctx, key, data, "application/json"); err != nil {
		logger.Error("Failed to store backup", err, map[string]interface{}{
			"key":     key,
			"backend": s.blobs.Backend(),
		})
		return nil, err
	}

	record := &model.BackupRecord{
		Key:       key,
		Size:      int64(len(data)),
		Trigger:   trigger,
		CreatedBy: actorID,
	}
	if err := s.backupRepo.CreateRecord(record); err != nil {
		return nil, err
	}

	var userID uint
	if actorID != nil {
		userID = *actorID
	}
	s.activity.Record(userID, nil, model.ActivityCreateBackup, fmt.Sprintf("%s backup %s", trigger, key))

	logger.Info("Backup created", map[string]interface{}{
		"backup_id": record.ID,
		"key":       key,
		"size":      record.Size,
		"trigger":   trigger,
		"backend":   s.blobs.Backend(),
	})
	return record, nil
}

// ParseSnapshot decodes a backup file and checks every section is present
func (s *backupService) ParseSnapshot(data []byte) (*model.BackupSnapshot, error) {
	var snapshot model.BackupSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := validateSnapshot(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func validateSnapshot(snapshot *model.BackupSnapshot) error {
	if missing := snapshot.MissingSections(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidBackup, strings.Join(missing, ", "))
	}
	if snapshot.Version > model.BackupVersion {
		return fmt.Errorf("%w: version %d is newer than supported %d", ErrInvalidBackup, snapshot.Version, model.BackupVersion)
	}
	return nil
}

func (s *backupService) Restore(actorID uint, snapshot *model.BackupSnapshot) error {
	if snapshot == nil {
		return ErrInvalidBackup
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}
	if err := s.backupRepo.ReplaceAll(snapshot); err != nil {
		return err
	}

	s.activity.Record(actorID, nil, model.ActivityRestoreBackup,
		fmt.Sprintf("restored backup from %s", snapshot.CreatedAt.Format(time.RFC3339)))
	logger.Warn("Database restored from backup", map[string]interface{}{
		"actor_id":   actorID,
		"created_at": snapshot.CreatedAt,
		"users":      len(snapshot.Users),
		"orders":     len(snapshot.Orders),
	})
	return nil
}

func (s *backupService) RestoreRecord(ctx context.Context, actorID, id uint) error {
	record, err := s.backupRepo.FindRecordByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBackupNotFound
		}
		return err
	}
	data, err := s.blobs.Get(ctx, record.Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrBackupNotFound
		}
		return err
	}
	snapshot, err := s.ParseSnapshot(data)
	if err != nil {
		return err
	}
	return s.Restore(actorID, snapshot)
}

func (s *backupService) List(limit int) ([]model.BackupRecord, error) {
	return s.backupRepo.ListRecords(limit)
}

func (s *backupService) GetSettings() (*model.BackupSettings, error) {
	return s.backupRepo.GetSettings()
}

func (s *backupService) UpdateSettings(actorID uint, settings model.BackupSettings) (*model.BackupSettings, error) {
	if !settings.Frequency.Valid() {
		return nil, invalidf("frequency must be daily, weekly or monthly")
	}
	if !model.ValidClock(settings.Time) {
		return nil, invalidf("time must be HH:MM")
	}
	if err := s.backupRepo.SaveSettings(&settings); err != nil {
		return nil, err
	}

	s.activity.Record(actorID, nil, model.ActivityBackupSettings,
		fmt.Sprintf("backup settings: auto=%t %s %s", settings.AutoBackup, settings.Frequency, settings.Time))

	s.mu.Lock()
	listeners := append([]SettingsListener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range listeners {
		l(settings)
	}
	return &settings, nil
}

func (s *backupService) OnSettingsChange(listener SettingsListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}
