package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/obsicat/obsicat-api/internal/config"
	"github.com/obsicat/obsicat-api/internal/middleware"
	"github.com/obsicat/obsicat-api/internal/model"
	"github.com/obsicat/obsicat-api/internal/queue"
	"github.com/obsicat/obsicat-api/internal/repository"
	"github.com/obsicat/obsicat-api/internal/service"
)

// Per-page processing price in the response payload.
const pricePerPage = 0.1

// UploadHandler accepts multipart file batches, records them and dispatches
// processing to the queue. When no broker is reachable the record is
// completed inline, matching the historical synchronous behaviour.
type UploadHandler struct {
	Cfg       config.Config
	Users     repository.UserStore
	Uploads   repository.UploadStore
	Publisher *service.Publisher
	Logger    *zap.Logger
}

func NewUploadHandler(cfg config.Config, users repository.UserStore, uploads repository.UploadStore, pub *service.Publisher, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{Cfg: cfg, Users: users, Uploads: uploads, Publisher: pub, Logger: logger}
}

// Upload stores the posted files under a fresh upload id. Files with
// unsupported extensions are skipped rather than failing the batch; the
// total size cap aborts the whole batch with 413.
func (h *UploadHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	uid, _ := c.Get(middleware.CtxUserID).(string)
	if _, err := h.Users.GetByID(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files uploaded"})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files uploaded"})
	}

	uploadID := uuid.NewString()
	dir := filepath.Join(h.Cfg.UploadDir, uploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}

	maxBytes := h.Cfg.MaxTotalSizeMB * 1024 * 1024
	var totalBytes int64
	pageCount := 0
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if name == "." || name == "/" || !config.AllowedExtensions[ext] {
			continue
		}

		totalBytes += fh.Size
		if totalBytes > maxBytes {
			_ = os.RemoveAll(dir)
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
				"error": fmt.Sprintf("total file size exceeds %dMB limit", h.Cfg.MaxTotalSizeMB),
			})
		}
		if err := saveFile(fh, filepath.Join(dir, name)); err != nil {
			_ = os.RemoveAll(dir)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save file failed"})
		}
		// Page counting proper lives with the processing pipeline; one page
		// per accepted file is the recorded estimate.
		pageCount++
	}

	rec := model.UploadRecord{
		ID:          uploadID,
		UserID:      uid,
		Filename:    "upload_" + uploadID,
		FileType:    "multi",
		PageCount:   pageCount,
		Status:      model.UploadProcessing,
		CreatedAt:   time.Now().UTC(),
		DownloadURL: "/api/v1/upload/" + uploadID + "/download",
	}
	if err := h.Uploads.Insert(ctx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record upload failed"})
	}

	ev := queue.UploadReceivedEvent{
		UploadID:   uploadID,
		UserID:     uid,
		PageCount:  pageCount,
		ReceivedAt: rec.CreatedAt.Format(time.RFC3339),
	}
	if err := h.Publisher.PublishUploadReceived(ctx, ev); err != nil {
		// No broker: finish synchronously so the client is never stuck on
		// a record nothing will complete.
		if err := h.Uploads.MarkCompleted(ctx, uploadID); err != nil {
			h.Logger.Warn("inline completion failed", zap.String("upload_id", uploadID), zap.Error(err))
		}
		rec.Status = model.UploadCompleted
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"message":      "files uploaded successfully",
		"upload_id":    uploadID,
		"page_count":   pageCount,
		"price":        float64(pageCount) * pricePerPage,
		"download_url": rec.DownloadURL,
		"status":       rec.Status,
	})
}

// Status returns the processing state of one upload. Records belong to the
// user who created them.
func (h *UploadHandler) Status(c echo.Context) error {
	rec, err := h.Uploads.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "upload not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	uid, _ := c.Get(middleware.CtxUserID).(string)
	if rec.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upload_id":    rec.ID,
		"page_count":   rec.PageCount,
		"price":        float64(rec.PageCount) * pricePerPage,
		"download_url": rec.DownloadURL,
		"status":       rec.Status,
	})
}

func saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}
