package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/storage"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/internal/workflow"
	"github.com/petermazzocco/renovation-portal/models"
)

const (
	maxMultipartMemory = 32 << 20
	maxUploadSize      = 10 << 20
)

// SubmitEstimate accepts a multipart estimate request. Only the first five
// images are kept; the first one doubles as the sketch.
func (h *Handler) SubmitEstimate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	actor := auth.ActorFrom(r.Context())

	sqft, err := parseSqft(r.FormValue("total_sqft"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	files := formFiles(r, "images")
	if len(files) > workflow.MaxEstimateImages {
		files = files[:workflow.MaxEstimateImages]
	}

	var names []string
	for _, fh := range files {
		name := storage.UniqueName(fh.Filename)
		if err := h.storeUpload(r.Context(), storage.FolderImages, name, fh); err != nil {
			h.discard(r.Context(), storage.FolderImages, names...)
			h.fail(w, r, err)
			return
		}
		names = append(names, name)
	}

	est, err := h.Estimates.Submit(r.Context(), actor, workflow.SubmitEstimateInput{
		ProjectType:    models.ProjectType(strings.TrimSpace(r.FormValue("project_type"))),
		Services:       r.Form["services"],
		TotalSqft:      sqft,
		Details:        r.FormValue("details"),
		ImageFilenames: names,
	})
	if err != nil {
		h.discard(r.Context(), storage.FolderImages, names...)
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, h.estimateView(est))
}

// ServeFile streams a stored file to a signed-in user.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	name := chi.URLParam(r, "name")

	rc, err := h.Files.Open(r.Context(), folder, name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) ||
			errors.Is(err, storage.ErrInvalidFolder) ||
			errors.Is(err, storage.ErrInvalidName) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "File not found", nil, err)
			return
		}
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Error reading file", nil, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		utils.Logger.WithError(err).WithField("file", name).Warn("Failed to stream file")
	}
}

// storeUpload saves one multipart file under name. Photos bound for the
// images folder go through the image processor first.
func (h *Handler) storeUpload(ctx context.Context, folder, name string, fh *multipart.FileHeader) error {
	if fh.Size > maxUploadSize {
		return fmt.Errorf("%w: %s is larger than %d MB", utils.ErrValidation, fh.Filename, maxUploadSize>>20)
	}
	file, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: unreadable upload %s", utils.ErrValidation, fh.Filename)
	}
	defer file.Close()

	contentType := fh.Header.Get("Content-Type")
	var body io.Reader = file
	if folder == storage.FolderImages && h.Images != nil && storage.IsImage(fh.Filename) {
		data, err := io.ReadAll(file)
		if err != nil {
			return err
		}
		processed, err := h.Images.Process(data)
		if err != nil {
			utils.Logger.WithError(err).WithField("file", fh.Filename).Warn("Image processing failed, storing original")
			processed = data
		}
		body = bytes.NewReader(processed)
	}

	if err := h.Files.Save(ctx, folder, name, contentType, body); err != nil {
		return fmt.Errorf("save %s/%s: %w", folder, name, err)
	}
	return nil
}

// discard removes files written for a request that then failed.
func (h *Handler) discard(ctx context.Context, folder string, names ...string) {
	for _, name := range names {
		if err := h.Files.Delete(ctx, folder, name); err != nil {
			utils.Logger.WithError(err).WithField("file", name).Warn("Failed to remove orphaned upload")
		}
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid form payload", nil, err)
		return false
	}
	return true
}

func formFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	files := formFiles(r, field)
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

func parseSqft(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: total_sqft must be a whole number", utils.ErrValidation)
	}
	return &n, nil
}
