package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/baharkarakas/classifieds-backend/internal/api/httpx"
	"github.com/baharkarakas/classifieds-backend/internal/middleware"
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/services"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

// sniffLen is how much of an upload http.DetectContentType looks at.
const sniffLen = 512

type AdHandler struct {
	Svc            *services.AdService
	MaxUploadBytes int64
}

func NewAdHandler(svc *services.AdService, maxUploadBytes int64) *AdHandler {
	return &AdHandler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// parseAdFilter reads the listing query: repeated cat, text, location,
// price_from, price_to, limit and offset.
func parseAdFilter(q url.Values) (repo.AdFilter, error) {
	var f repo.AdFilter
	var errs []*validate.ErrField

	for _, v := range q["cat"] {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, &validate.ErrField{Field: "cat", Msg: "must be an integer"})
			break
		}
		f.CategoryIDs = append(f.CategoryIDs, id)
	}
	f.Text = q.Get("text")
	f.Location = q.Get("location")

	intParam := func(name string) *int64 {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, &validate.ErrField{Field: name, Msg: "must be an integer"})
			return nil
		}
		return &n
	}
	f.PriceFrom = intParam("price_from")
	f.PriceTo = intParam("price_to")
	if n := intParam("limit"); n != nil {
		errs = append(errs, validate.MinInt("limit", *n, 0))
		f.Limit = int(*n)
	}
	if n := intParam("offset"); n != nil {
		errs = append(errs, validate.MinInt("offset", *n, 0))
		f.Offset = int(*n)
	}
	return f, validate.Collect(errs...)
}

func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseAdFilter(r.URL.Query())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	ads, err := h.Svc.List(r.Context(), f)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ads)
}

func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	a, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.AdInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	a, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

// Update serves PUT (full) and PATCH (partial).
func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	var in services.AdInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	actor := middleware.UserFrom(r.Context())
	a, err := h.Svc.Update(r.Context(), actor, id, in, r.Method == http.MethodPatch)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// UploadImage accepts a multipart form with the file in the "image" field.
// The content type is sniffed from the payload; the client's filename and
// declared type are ignored.
func (h *AdHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteServiceError(w, r, err)
			return
		}
		httpx.WriteServiceError(w, r, validate.Field("image", "multipart form required"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("image")
	if err != nil {
		httpx.WriteServiceError(w, r, validate.Field("image", "required"))
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		httpx.WriteServiceError(w, r, err)
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	img, err := h.Svc.UploadImage(r.Context(), id, contentType,
		io.MultiReader(bytes.NewReader(head), file), hdr.Size)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, img)
}
