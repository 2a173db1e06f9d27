package handlers

import (
	"net/http"

	"github.com/baharkarakas/classifieds-backend/internal/api/httpx"
	"github.com/baharkarakas/classifieds-backend/internal/services"
)

type LocationHandler struct {
	Svc *services.LocationService
}

func NewLocationHandler(svc *services.LocationService) *LocationHandler {
	return &LocationHandler{Svc: svc}
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, locs)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	l, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.LocationInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	l, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, l)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	var in services.LocationInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	l, err := h.Svc.Update(r.Context(), id, in, r.Method == http.MethodPatch)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
