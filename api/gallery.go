package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/outreach/internal/gallery"
	"github.com/garnizeh/outreach/internal/storage"
	"github.com/garnizeh/outreach/pkg/models"
	"github.com/gorilla/mux"
)

// multipart parts beyond this size spill to temporary files
const multipartMemory = 8 << 20

type GalleryHandler struct {
	svc           *gallery.Service
	maxUploadSize int64
}

// NewGalleryHandler creates a new GalleryHandler. Uploads with a request body
// larger than maxUploadSize are rejected with 413.
func NewGalleryHandler(svc *gallery.Service, maxUploadSize int64) *GalleryHandler {
	return &GalleryHandler{svc: svc, maxUploadSize: maxUploadSize}
}

type galleryListResponse struct {
	Status string             `json:"status"`
	Data   []models.MediaItem `json:"data"`
	Count  int                `json:"count"`
}

type uploadResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Data    models.MediaItem `json:"data"`
}

// List returns all media items, newest first.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeInternal(w, r, "list gallery", err)
		return
	}

	writeJSON(w, galleryListResponse{Status: "success", Data: items, Count: len(items)}, http.StatusOK)
}

// Upload accepts a multipart form with a "file" part and optional "title" and
// "desc" fields.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		// a file input submitted without a selection arrives as a plain value
		if _, present := r.MultipartForm.Value["file"]; present {
			writeError(w, http.StatusBadRequest, "No selected file")
			return
		}
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	item, err := h.svc.Upload(r.Context(), gallery.UploadInput{
		Filename:    header.Filename,
		Body:        file,
		Title:       r.FormValue("title"),
		Description: r.FormValue("desc"),
	})
	switch {
	case err == nil:
	case errors.Is(err, gallery.ErrMissingFile):
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	case errors.Is(err, gallery.ErrInvalidFileType):
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	default:
		writeInternal(w, r, "upload media", err)
		return
	}

	writeJSON(w, uploadResponse{
		Status:  "success",
		Message: uploadMessage(item.Kind),
		Data:    item,
	}, http.StatusOK)
}

func uploadMessage(kind models.MediaKind) string {
	k := kind.String()
	return strings.ToUpper(k[:1]) + k[1:] + " uploaded successfully"
}

// Delete removes a media item by id.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Media item not found")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Media item not found")
			return
		}
		writeInternal(w, r, "delete media", err)
		return
	}

	logger.Info("media deleted", slog.Int64("id", id), slog.String("request_id", RequestID(r.Context())))
	writeJSON(w, statusResponse{Status: "success", Message: "Photo deleted"}, http.StatusOK)
}

// ServeUpload streams a stored blob. Range and conditional requests are
// handled by http.ServeContent.
func (h *GalleryHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	f, err := h.svc.Open(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			writeError(w, http.StatusNotFound, "Resource not found")
			return
		}
		writeInternal(w, r, "open upload", err)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		writeInternal(w, r, "stat upload", err)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, name, st.ModTime(), f)
}
