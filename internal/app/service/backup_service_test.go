package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackupService(env *testEnv) (BackupService, *memoryBlobs) {
	blobs := newMemoryBlobs()
	return NewBackupService(env.backups, blobs, env.activity, "backups"), blobs
}

func TestBackupService_CreateAndRestore(t *testing.T) {
	env := setupTestEnv(t)
	svc, blobs := newTestBackupService(env)
	ctx := context.Background()

	cake := env.createProduct(t, "Bolo de Cenoura", 45, nil)
	_, err := env.orderSvc.Create(env.store.ID, env.employee.ID, OrderInput{
		CustomerName: "Joana",
		Items:        []OrderItemInput{{ProductID: cake.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	record, err := svc.Create(ctx, model.BackupTriggerManual, &env.adminUser.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record.Key, "backups/backup-"))
	assert.True(t, strings.HasSuffix(record.Key, ".json"))
	assert.Equal(t, model.BackupTriggerManual, record.Trigger)
	require.Contains(t, blobs.objects, record.Key)
	assert.Equal(t, int64(len(blobs.objects[record.Key])), record.Size)

	var stored model.BackupSnapshot
	require.NoError(t, json.Unmarshal(blobs.objects[record.Key], &stored))
	assert.Equal(t, model.BackupVersion, stored.Version)
	assert.Len(t, stored.Users, 3)
	assert.NotEmpty(t, stored.Users[0].PasswordHash)
	require.Len(t, stored.Orders, 1)
	assert.Len(t, stored.Orders[0].Items, 1)

	// changes made after the backup are rolled back by the restore
	env.createProduct(t, "Torta", 60, nil)
	require.NoError(t, env.db.Where("1 = 1").Delete(&model.OrderItem{}).Error)

	require.NoError(t, svc.RestoreRecord(ctx, env.adminUser.ID, record.ID))

	var products []model.Product
	require.NoError(t, env.db.Find(&products).Error)
	require.Len(t, products, 1)
	assert.Equal(t, "Bolo de Cenoura", products[0].Name)

	var items int64
	require.NoError(t, env.db.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), items)

	// restored users can still log in
	result, err := env.auth.Login(ctx, "caixa01", "caixa123")
	require.NoError(t, err)
	assert.Equal(t, env.employee.ID, result.User.ID)

	records, err := svc.List(10)
	require.NoError(t, err)
	assert.Len(t, records, 1, "backup history survives a restore")
}

func TestBackupService_RestoreRecordNotFound(t *testing.T) {
	env := setupTestEnv(t)
	svc, blobs := newTestBackupService(env)
	ctx := context.Background()

	err := svc.RestoreRecord(ctx, env.adminUser.ID, 999)
	assert.ErrorIs(t, err, ErrBackupNotFound)

	record, err := svc.Create(ctx, model.BackupTriggerScheduled, nil)
	require.NoError(t, err)
	assert.Nil(t, record.CreatedBy)
	delete(blobs.objects, record.Key)

	err = svc.RestoreRecord(ctx, env.adminUser.ID, record.ID)
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestBackupService_ParseSnapshot(t *testing.T) {
	env := setupTestEnv(t)
	svc, _ := newTestBackupService(env)

	full := `{"version":1,"users":[],"stores":[],"categories":[],"products":[],"clients":[],"orders":[]}`

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "All sections", data: full},
		{name: "Missing orders", data: `{"version":1,"users":[],"stores":[],"categories":[],"products":[],"clients":[]}`, wantErr: true},
		{name: "Null section", data: `{"version":1,"users":null,"stores":[],"categories":[],"products":[],"clients":[],"orders":[]}`, wantErr: true},
		{name: "Newer version", data: strings.Replace(full, `"version":1`, `"version":2`, 1), wantErr: true},
		{name: "Not JSON", data: "backup", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := svc.ParseSnapshot([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBackup)
				assert.Nil(t, snapshot)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, snapshot.MissingSections())
		})
	}

	assert.ErrorIs(t, svc.Restore(env.adminUser.ID, nil), ErrInvalidBackup)
}

func TestBackupService_Settings(t *testing.T) {
	env := setupTestEnv(t)
	svc, _ := newTestBackupService(env)

	settings, err := svc.GetSettings()
	require.NoError(t, err)
	assert.False(t, settings.AutoBackup)
	assert.Equal(t, model.BackupDaily, settings.Frequency)
	assert.Equal(t, "00:00", settings.Time)

	var notified []model.BackupSettings
	svc.OnSettingsChange(func(s model.BackupSettings) { notified = append(notified, s) })

	tests := []struct {
		name     string
		settings model.BackupSettings
		wantErr  bool
	}{
		{name: "Weekly", settings: model.BackupSettings{AutoBackup: true, Frequency: model.BackupWeekly, Time: "03:30"}},
		{name: "Unknown frequency", settings: model.BackupSettings{AutoBackup: true, Frequency: "hourly", Time: "03:30"}, wantErr: true},
		{name: "Bad time", settings: model.BackupSettings{AutoBackup: true, Frequency: model.BackupDaily, Time: "24:00"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSettings(env.adminUser.ID, tt.settings)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}

	require.Len(t, notified, 1)
	assert.Equal(t, model.BackupWeekly, notified[0].Frequency)

	saved, err := svc.GetSettings()
	require.NoError(t, err)
	assert.True(t, saved.AutoBackup)
	assert.Equal(t, "03:30", saved.Time)
}
