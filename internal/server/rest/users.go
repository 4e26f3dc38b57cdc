package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// empty is the body returned by reads that found nothing.
var empty = struct{}{}

type signupRequest struct {
	FirstName string     `json:"firstname" validate:"required"`
	LastName  string     `json:"lastname" validate:"required"`
	UserName  string     `json:"username" validate:"required"`
	Password  string     `json:"password" validate:"required"`
	Avatar    string     `json:"avatar" validate:"required"`
	Age       numberText `json:"age" validate:"required,numeric,int32"`
	City      string     `json:"city" validate:"required"`
}

type loginRequest struct {
	UserName string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if verrs := validationErrors(&req); verrs != nil {
		writeError(w, http.StatusBadRequest, msgValidationFailed, verrs...)
		return
	}

	u, err := h.Users.Register(r.Context(), services.NewUser{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserName:  req.UserName,
		Password:  []byte(req.Password),
		Avatar:    req.Avatar,
		Age:       req.Age.Int(),
		City:      req.City,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if verrs := validationErrors(&req); verrs != nil {
		writeError(w, http.StatusBadRequest, msgValidationFailed, verrs...)
		return
	}

	password := []byte(req.Password)
	defer common.WipeByteArray(password)

	token, err := h.Users.Login(r.Context(), req.UserName, password)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusBadRequest, msgUserNotFound)
	case errors.Is(err, common.ErrorWrongPassword):
		writeError(w, http.StatusForbidden, msgWrongPassword)
	case err != nil:
		h.writeServiceError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}

// logout has nothing to revoke; tokens simply expire.
func (h *handlers) logout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	h.writeRead(w, r, u, err)
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Delete(r.Context(), chi.URLParam(r, "id"))
	h.writeRead(w, r, u, err)
}

// writeRead answers 200 with v, or with an empty object when the entity
// does not exist.
func (h *handlers) writeRead(w http.ResponseWriter, r *http.Request, v any, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusOK, empty)
	case err != nil:
		h.writeServiceError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, v)
	}
}
