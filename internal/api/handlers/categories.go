package handlers

import (
	"net/http"

	"github.com/baharkarakas/classifieds-backend/internal/api/httpx"
	"github.com/baharkarakas/classifieds-backend/internal/services"
)

type CategoryHandler struct {
	Svc *services.CategoryService
}

func NewCategoryHandler(svc *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{Svc: svc}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	c, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	var in services.CategoryInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	c, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
