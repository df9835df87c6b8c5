package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/retail-inventory/internal/importer"
	"github.com/rogerio-castellano/retail-inventory/internal/logging"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"go.uber.org/zap"
)

const (
	uploadField = "excelFile"
	// multipartSlack covers boundaries and part headers on top of the file itself.
	multipartSlack = 512 << 10
)

// ImportProductsHandler godoc
// @Summary Import products from a spreadsheet
// @Description Accepts .xlsx, .xls or .csv. Rows whose item code is already known are skipped; invalid rows are reported.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param excelFile formData file true "Spreadsheet file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ImportValidationError
// @Failure 500 {object} ImportFailure
// @Router /api/products/import-excel [post]
func (h *Handler) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxBytes+multipartSlack)
	if err := r.ParseMultipartForm(h.upload.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			h.fail(w, r, http.StatusBadRequest, "Multer upload error: File too large")
		case errors.Is(err, http.ErrNotMultipart):
			h.fail(w, r, http.StatusBadRequest, "Please upload an Excel file")
		default:
			h.fail(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid upload: %v", err))
		}
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart temp files", zap.Error(err))
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "Please upload an Excel file")
		return
	}
	defer file.Close()

	if header.Size > h.upload.MaxBytes {
		h.fail(w, r, http.StatusBadRequest, "Multer upload error: File too large")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	format, err := importer.DetectFormat(header.Filename, mimeType)
	if err != nil {
		log.Info("rejected upload", zap.String("filename", header.Filename), zap.String("mimetype", mimeType))
		h.fail(w, r, http.StatusBadRequest, fmt.Sprintf("Only Excel files are allowed! Received mimetype: %s", mimeType))
		return
	}

	path, err := h.saveUpload(file, header.Filename)
	if err != nil {
		log.Error("failed to store upload", zap.Error(err))
		h.respond(w, r, http.StatusInternalServerError, ImportFailure{Success: false, Error: "Error processing Excel file", Details: err.Error()})
		return
	}
	defer h.removeUpload(log, path)

	log.Info("file received",
		zap.String("filename", header.Filename),
		zap.String("mimetype", mimeType),
		zap.Int64("size", header.Size),
	)

	res, err := h.importer.ImportFile(r.Context(), path, format)
	if err != nil {
		var vErr *importer.ValidationError
		switch {
		case errors.Is(err, importer.ErrEmptyFile):
			h.fail(w, r, http.StatusBadRequest, "Excel file is empty")
		case errors.As(err, &vErr):
			h.respond(w, r, http.StatusBadRequest, ImportValidationError{
				Success: false,
				Error:   "Validation errors in Excel file",
				Details: vErr.Details,
			})
		default:
			log.Error("error processing excel file", zap.Error(err))
			h.respond(w, r, http.StatusInternalServerError, ImportFailure{
				Success: false,
				Error:   "Error processing Excel file",
				Details: err.Error(),
			})
		}
		return
	}

	if len(res.FailedKeys) > 0 {
		log.Warn("some products were not inserted", zap.Strings("itemCodes", res.FailedKeys))
	}

	inserted := res.Inserted
	if inserted == nil {
		inserted = []models.Product{}
	}
	skipped := res.Skipped
	if skipped == nil {
		skipped = []importer.Skipped{}
	}
	h.respond(w, r, http.StatusOK, ImportProductsResult{
		Success:         true,
		Count:           len(inserted),
		Data:            inserted,
		Skipped:         len(skipped),
		SkippedDetails:  skipped,
		Errors:          res.Errors,
		FailedItemCodes: res.FailedKeys,
	})
}

// saveUpload copies the uploaded file into the upload directory under a
// collision-free name and returns its path.
func (h *Handler) saveUpload(file multipart.File, filename string) (string, error) {
	dir := h.upload.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(dir, fmt.Sprintf("%d-%s%s", h.now().UnixMilli(), uuid.NewString(), ext))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

func (h *Handler) removeUpload(log *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to remove uploaded file", zap.String("path", path), zap.Error(err))
	}
}
