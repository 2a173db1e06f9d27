package handlers

import (
	"net/http"

	"github.com/baharkarakas/classifieds-backend/internal/api/httpx"
	"github.com/baharkarakas/classifieds-backend/internal/middleware"
	"github.com/baharkarakas/classifieds-backend/internal/services"
)

type SelectionHandler struct {
	Svc *services.SelectionService
}

func NewSelectionHandler(svc *services.SelectionService) *SelectionHandler {
	return &SelectionHandler{Svc: svc}
}

func (h *SelectionHandler) List(w http.ResponseWriter, r *http.Request) {
	sels, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sels)
}

func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	sel, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sel)
}

func (h *SelectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.SelectionInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	sel, err := h.Svc.Create(r.Context(), middleware.UserFrom(r.Context()), in)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sel)
}

func (h *SelectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	var in services.SelectionInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	actor := middleware.UserFrom(r.Context())
	sel, err := h.Svc.Update(r.Context(), actor, id, in, r.Method == http.MethodPatch)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sel)
}

func (h *SelectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
