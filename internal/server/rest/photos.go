package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type photoRequest struct {
	Title       string `json:"title" validate:"required"`
	URL         string `json:"url" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type photoUpdateRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
}

type downloadResponse struct {
	URL string `json:"url"`
}

func (h *handlers) listPhotos(w http.ResponseWriter, r *http.Request) {
	list, err := h.Photos.ListByAlbum(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Photo{}
	}
	writeJSON(w, http.StatusOK, list)
}

// attachPhoto answers 201 with the album as updated.
func (h *handlers) attachPhoto(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if verrs := validationErrors(&req); verrs != nil {
		writeError(w, http.StatusBadRequest, msgValidationFailed, verrs...)
		return
	}

	_, album, err := h.Photos.AttachPhoto(r.Context(), chi.URLParam(r, "id"), models.Photo{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (h *handlers) getPhoto(w http.ResponseWriter, r *http.Request) {
	p, err := h.Photos.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "photoId"))
	h.writeRead(w, r, p, err)
}

func (h *handlers) updatePhoto(w http.ResponseWriter, r *http.Request) {
	var req photoUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	p, err := h.Photos.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "photoId"),
		models.PhotoUpdate{Title: req.Title, URL: req.URL, Description: req.Description})
	h.writeRead(w, r, p, err)
}

// detachPhoto answers 204 even when the photo or the album is already gone.
func (h *handlers) detachPhoto(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Photos.DetachPhoto(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "photoId")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) uploadURL(w http.ResponseWriter, r *http.Request) {
	up, err := h.Media.PresignUpload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (h *handlers) downloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.Media.PresignDownload(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "photoId"))
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, msgUnsupportedObject)
	case err != nil:
		h.writeServiceError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, downloadResponse{URL: url})
	}
}
