package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type uploadService interface {
	Upload(ctx context.Context, uploadedBy string, filename string, reader io.Reader) (model.Upload, error)
	Delete(ctx context.Context, id string) error
}

type UploadHandler struct {
	service       uploadService
	cookies       *session.CookieWriter
	maxUploadSize int64
}

func NewUploadHandler(service uploadService, cookies *session.CookieWriter, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{service: service, cookies: cookies, maxUploadSize: maxUploadSize}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := requireAdmin(r, h.cookies)
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		if isPayloadTooLarge(err) {
			writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "file exceeds the upload size limit", "", http.StatusRequestEntityTooLarge))
			return
		}
		writeError(w, apierror.BadRequest("invalid multipart body: expected a 'file' field", ""))
		return
	}
	defer file.Close()

	upload, err := h.service.Upload(r.Context(), actor.ID, header.Filename, file)
	if err != nil {
		if isPayloadTooLarge(err) {
			writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "file exceeds the upload size limit", "", http.StatusRequestEntityTooLarge))
			return
		}
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, upload, nil)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := requireAdmin(r, h.cookies); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
