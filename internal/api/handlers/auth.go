package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/baharkarakas/classifieds-backend/internal/api/httpx"
	"github.com/baharkarakas/classifieds-backend/internal/auth"
	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/services"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

type AuthHandler struct {
	Svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int64  `json:"expires_in"` // access lifetime, seconds
}

func writePair(w http.ResponseWriter, p auth.Pair) {
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		Access:    p.Access,
		Refresh:   p.Refresh,
		ExpiresIn: int64(time.Until(p.AccessExp).Round(time.Second).Seconds()),
	})
}

// writeAuthError keeps credential failures distinct from the generic
// "authentication required" response.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, models.ErrUnauthenticated) {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", msg, nil)
		return
	}
	httpx.WriteServiceError(w, r, err)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if err := validate.Collect(
		validate.Required("username", req.Username),
		validate.Required("password", req.Password),
	); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	pair, err := h.Svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAuthError(w, r, err, "invalid credentials")
		return
	}
	writePair(w, pair)
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if err := validate.Collect(validate.Required("refresh", req.Refresh)); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	pair, err := h.Svc.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeAuthError(w, r, err, "invalid refresh token")
		return
	}
	writePair(w, pair)
}
