package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type albumRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *handlers) listAlbums(w http.ResponseWriter, r *http.Request) {
	list, err := h.Albums.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Album{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) createAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	var title, description string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}

	a, err := h.Albums.Create(r.Context(), title, description)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *handlers) getAlbum(w http.ResponseWriter, r *http.Request) {
	a, err := h.Albums.Get(r.Context(), chi.URLParam(r, "id"))
	h.writeRead(w, r, a, err)
}

func (h *handlers) updateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	a, err := h.Albums.Update(r.Context(), chi.URLParam(r, "id"),
		models.AlbumUpdate{Title: req.Title, Description: req.Description})
	h.writeRead(w, r, a, err)
}

// deleteAlbum answers 204 whether or not the album existed.
func (h *handlers) deleteAlbum(w http.ResponseWriter, r *http.Request) {
	err := h.Albums.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
