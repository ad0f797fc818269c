package controller

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const maxBackupSize = 64 << 20

type BackupController struct {
	backupService service.BackupService
}

func NewBackupController(backupService service.BackupService) *BackupController {
	return &BackupController{backupService: backupService}
}

type BackupSettingsRequest struct {
	AutoBackup bool                  `json:"auto_backup"`
	Frequency  model.BackupFrequency `json:"frequency" binding:"required"`
	Time       string                `json:"time" binding:"required"`
}

// Export downloads a fresh snapshot without storing it
// GET /api/v1/admin/backups/export
func (ctrl *BackupController) Export(c *gin.Context) {
	snapshot, err := ctrl.backupService.Export()
	if err != nil {
		respondServiceError(c, err, "backup")
		return
	}

	filename := "backup-" + snapshot.CreatedAt.Format("20060102-150405") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, snapshot)
}

// Create stores a snapshot in the configured backend
// POST /api/v1/admin/backups
func (ctrl *BackupController) Create(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)
	record, err := ctrl.backupService.Create(c.Request.Context(), model.BackupTriggerManual, &actorID)
	if err != nil {
		respondServiceError(c, err, "backup")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Backup criado",
		"backup":  record,
	})
}

// GET /api/v1/admin/backups?limit=
func (ctrl *BackupController) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Parâmetro limit inválido")
		return
	}

	records, err := ctrl.backupService.List(limit)
	if err != nil {
		respondServiceError(c, err, "backup")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"backups": records,
		"count":   len(records),
	})
}

// readBackup takes the snapshot from an uploaded "file" field or the raw body
func readBackup(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupSize)

	if c.ContentType() == "multipart/form-data" {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

// Restore replaces all business data with an uploaded snapshot
// POST /api/v1/admin/backups/restore
func (ctrl *BackupController) Restore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := readBackup(c)
	if err != nil {
		log.Warn("Backup upload unreadable", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.BackupInvalidFormat, "Envie o arquivo de backup")
		return
	}

	snapshot, err := ctrl.backupService.ParseSnapshot(data)
	if err != nil {
		respondServiceError(c, err, "backup")
		return
	}

	actorID, _ := middleware.GetUserID(c)
	if err := ctrl.backupService.Restore(actorID, snapshot); err != nil {
		respondServiceError(c, err, "backup")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Backup restaurado",
		"created_at":  snapshot.CreatedAt,
		"restored_at": time.Now(),
	})
}

// RestoreRecord restores a backup kept in storage
// POST /api/v1/admin/backups/:id/restore
func (ctrl *BackupController) RestoreRecord(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserID(c)
	if err := ctrl.backupService.RestoreRecord(c.Request.Context(), actorID, id); err != nil {
		respondServiceError(c, err, "backup")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Backup restaurado"})
}

// GET /api/v1/admin/backups/settings
func (ctrl *BackupController) GetSettings(c *gin.Context) {
	settings, err := ctrl.backupService.GetSettings()
	if err != nil {
		respondServiceError(c, err, "backup settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// PUT /api/v1/admin/backups/settings
func (ctrl *BackupController) UpdateSettings(c *gin.Context) {
	var req BackupSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	settings, err := ctrl.backupService.UpdateSettings(actorID, model.BackupSettings{
		AutoBackup: req.AutoBackup,
		Frequency:  req.Frequency,
		Time:       req.Time,
	})
	if err != nil {
		respondServiceError(c, err, "backup settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
