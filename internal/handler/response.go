package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, pagination *model.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// writeError converts any backend failure into the uniform envelope; no
// error reaches the client as anything but {success:false, message}.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Unexpected server error"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
	case errors.Is(err, model.ErrReviewExists):
		status = http.StatusConflict
		message = "You have already reviewed this product"
	case errors.Is(err, model.ErrInsufficientStock):
		status = http.StatusBadRequest
		message = "Insufficient stock"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: message,
	})
}
