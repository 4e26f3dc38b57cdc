package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/photoalbum/internal/common"
)

// Envelope is the body of every error response.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []any  `json:"errors,omitempty"`
}

const (
	msgBadRequest        = "Bad request"
	msgValidationFailed  = "Validation failed"
	msgNotFound          = "Not Found"
	msgUnauthorized      = "Unauthorized"
	msgForbidden         = "Forbidden"
	msgInternal          = "Internal Server error"
	msgPartialWrite      = "Album photo list not updated"
	msgUserNameTaken     = "Nom d'utilisateur déjà utilisé"
	msgUserNotFound      = "Utilisateur non trouvé"
	msgWrongPassword     = "Mot de passe incorrect"
	msgUnsupportedObject = "Photo url is not a stored object"
)

// partialWriteDetail names both sides of a half-applied mutation.
type partialWriteDetail struct {
	Op      string `json:"op"`
	AlbumID string `json:"album"`
	PhotoID string `json:"photo"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, details ...any) {
	writeJSON(w, status, Envelope{Code: status, Message: message, Errors: details})
}

// writeServiceError maps a service error onto the envelope. Anything that is
// not a known sentinel is reported as an internal error; the cause is logged
// by the caller and never leaves the process.
func (h *handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var pw *common.PartialWriteError
	switch {
	case errors.As(err, &pw):
		writeError(w, http.StatusInternalServerError, msgPartialWrite,
			partialWriteDetail{Op: pw.Op, AlbumID: pw.AlbumID, PhotoID: pw.PhotoID})
		return
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusBadRequest, msgUserNameTaken)
		return
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	h.log.Error(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "request_id", requestID(r), "error", err)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
