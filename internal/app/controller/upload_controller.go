package controller

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/storage"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

var imageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
}

// ImagePresigner issues direct upload URLs for product images
type ImagePresigner interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string) (*storage.PresignedUpload, error)
}

type UploadController struct {
	presigner ImagePresigner
}

// NewUploadController accepts a nil presigner when S3 is disabled
func NewUploadController(presigner ImagePresigner) *UploadController {
	return &UploadController{
		presigner: presigner,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// ProductImage generates a presigned URL for uploading a product photo to S3
// POST /api/v1/uploads/product-image
func (ctrl *UploadController) ProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.presigner == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadUnavailable, "Envio de imagens não configurado")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	if !allowedImageType(req.ContentType) {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Apenas imagens JPEG, PNG ou WEBP")
		return
	}

	_, storeID := currentUser(c)
	folder := fmt.Sprintf("products/%d", storeID)

	upload, err := ctrl.presigner.PresignUpload(c.Request.Context(), folder, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.InternalError(c, "Falha ao gerar URL de envio")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"key":      upload.Key,
	})

	c.JSON(http.StatusOK, upload)
}

func allowedImageType(contentType string) bool {
	for _, allowed := range imageTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
