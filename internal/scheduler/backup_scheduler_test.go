package scheduler

import (
	"testing"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSpec(t *testing.T) {
	tests := []struct {
		name     string
		settings model.BackupSettings
		want     string
		wantErr  bool
	}{
		{name: "Daily at midnight", settings: model.BackupSettings{Frequency: model.BackupDaily, Time: "00:00"}, want: "0 0 * * *"},
		{name: "Daily", settings: model.BackupSettings{Frequency: model.BackupDaily, Time: "03:30"}, want: "30 3 * * *"},
		{name: "Weekly on sunday", settings: model.BackupSettings{Frequency: model.BackupWeekly, Time: "22:05"}, want: "5 22 * * 0"},
		{name: "Monthly on the first", settings: model.BackupSettings{Frequency: model.BackupMonthly, Time: "01:00"}, want: "0 1 1 * *"},
		{name: "Bad time", settings: model.BackupSettings{Frequency: model.BackupDaily, Time: "3h"}, wantErr: true},
		{name: "Bad frequency", settings: model.BackupSettings{Frequency: "hourly", Time: "03:00"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := CronSpec(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec)
		})
	}
}

func TestBackupScheduler_Reschedule(t *testing.T) {
	s := NewBackupScheduler(nil)

	_, scheduled := s.Next()
	assert.False(t, scheduled)

	require.NoError(t, s.Reschedule(model.BackupSettings{AutoBackup: true, Frequency: model.BackupDaily, Time: "02:00"}))
	assert.Len(t, s.cron.Entries(), 1)

	require.NoError(t, s.Reschedule(model.BackupSettings{AutoBackup: true, Frequency: model.BackupWeekly, Time: "02:00"}))
	assert.Len(t, s.cron.Entries(), 1, "previous job is replaced")

	require.NoError(t, s.Reschedule(model.BackupSettings{AutoBackup: false, Frequency: model.BackupWeekly, Time: "02:00"}))
	assert.Empty(t, s.cron.Entries())

	assert.Error(t, s.Reschedule(model.BackupSettings{AutoBackup: true, Frequency: "yearly", Time: "02:00"}))
	assert.Empty(t, s.cron.Entries())
}
