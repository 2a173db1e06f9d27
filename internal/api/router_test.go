package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/baharkarakas/classifieds-backend/internal/api"
	"github.com/baharkarakas/classifieds-backend/internal/auth"
	"github.com/baharkarakas/classifieds-backend/internal/config"
	"github.com/baharkarakas/classifieds-backend/internal/middleware"
	"github.com/baharkarakas/classifieds-backend/internal/repository/memory"
	"github.com/baharkarakas/classifieds-backend/internal/services"
	"github.com/baharkarakas/classifieds-backend/internal/storage"
)

type server struct {
	c *qt.C
	h http.Handler
}

func newServer(c *qt.C) *server {
	cfg := config.Config{
		Env:         "dev",
		ImageStore:  "disk",
		MediaRoot:   c.TempDir(),
		MediaURL:    "/media",
		MaxUploadMB: 1,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := memory.NewRepositories()
	tm := auth.NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	h := api.NewRouter(api.RouterDeps{
		Cfg:  cfg,
		Log:  log,
		Auth: middleware.NewAuthenticator(tm, repos.Users, cfg.Env),
		Svc: api.Services{
			Ads:        services.NewAdService(repos.Ads, storage.NewDisk(cfg.MediaRoot, cfg.MediaURL), false, log),
			Categories: services.NewCategoryService(repos.Categories, log),
			Selections: services.NewSelectionService(repos.Selections, log),
			Users:      services.NewUserService(repos.Users, log),
			Locations:  services.NewLocationService(repos.Locations),
			Auth:       services.NewAuthService(repos.Users, tm, log),
		},
	})
	return &server{c: c, h: h}
}

// do sends a JSON request. token is a dev token user id, or a raw
// Authorization header value when it contains a space.
func (s *server) do(method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	switch {
	case strings.Contains(token, " "):
		req.Header.Set("Authorization", token)
	case token != "":
		req.Header.Set("Authorization", "Bearer dev-"+token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func (s *server) mustDo(status int, method, path, body, token string) map[string]any {
	rec := s.do(method, path, body, token)
	s.c.Assert(rec.Code, qt.Equals, status, qt.Commentf("%s %s: %s", method, path, rec.Body))
	if rec.Body.Len() == 0 {
		return nil
	}
	var out map[string]any
	s.c.Assert(json.Unmarshal(rec.Body.Bytes(), &out), qt.IsNil)
	return out
}

func (s *server) list(path, token string) []map[string]any {
	rec := s.do(http.MethodGet, path, "", token)
	s.c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf("GET %s: %s", path, rec.Body))
	var out []map[string]any
	s.c.Assert(json.Unmarshal(rec.Body.Bytes(), &out), qt.IsNil)
	return out
}

func (s *server) user(name, role string, locations ...string) string {
	locs, _ := json.Marshal(locations)
	u := s.mustDo(http.StatusCreated, http.MethodPost, "/users/create/",
		fmt.Sprintf(`{"username":%q,"password":"pw","role":%q,"location":%s}`, name, role, locs), "")
	return fmt.Sprint(u["id"])
}

func (s *server) category(name string) string {
	c := s.mustDo(http.StatusOK, http.MethodPost, "/categories/create/", fmt.Sprintf(`{"name":%q}`, name), "")
	return fmt.Sprint(c["id"])
}

func (s *server) ad(name string, price int, desc, author, cat string) string {
	a := s.mustDo(http.StatusOK, http.MethodPost, "/ads/create/", fmt.Sprintf(
		`{"name":%q,"price":%d,"description":%q,"is_published":false,"author":%s,"category":%s}`,
		name, price, desc, author, cat), "")
	return fmt.Sprint(a["id"])
}

func TestCreateAdReturnsFullObject(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	author := s.user("ann", "member")
	cat := s.category("Sport")

	rec := s.do(http.MethodPost, "/ads/create/", fmt.Sprintf(
		`{"name":"Bike","price":100,"description":"red","is_published":false,"author":%s,"category":%s}`, author, cat), "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `"image":null`)

	var got map[string]any
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &got), qt.IsNil)
	c.Assert(got["name"], qt.Equals, "Bike")
	c.Assert(got["price"], qt.Equals, float64(100))
	c.Assert(got["description"], qt.Equals, "red")
	c.Assert(got["is_published"], qt.Equals, false)
	c.Assert(fmt.Sprint(got["author"]), qt.Equals, author)
	c.Assert(fmt.Sprint(got["category"]), qt.Equals, cat)
	c.Assert(got["id"], qt.Not(qt.IsNil))

	// missing fields and unknown references
	s.mustDo(http.StatusBadRequest, http.MethodPost, "/ads/create/", `{"name":"Bike"}`, "")
	s.mustDo(http.StatusBadRequest, http.MethodPost, "/ads/create/", `{`, "")
	s.mustDo(http.StatusRequestEntityTooLarge, http.MethodPost, "/ads/create/",
		`{"name":"`+strings.Repeat("x", 2<<20)+`"}`, "")
	s.mustDo(http.StatusNotFound, http.MethodPost, "/ads/create/", fmt.Sprintf(
		`{"name":"Bike","price":1,"description":"","is_published":true,"author":999,"category":%s}`, cat), "")
}

func TestAdAuthorPermission(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	author := s.user("ann", "member")
	other := s.user("bob", "member")
	mod := s.user("max", "moderator")
	admin := s.user("ada", "admin")
	id := s.ad("Bike", 100, "red", author, s.category("Sport"))
	path := "/ads/update/" + id + "/"

	s.mustDo(http.StatusUnauthorized, http.MethodPatch, path, `{"price":1}`, "")

	body := s.mustDo(http.StatusForbidden, http.MethodPatch, path, `{"price":1}`, other)
	c.Assert(body["error"], qt.Equals, "You are not the author")
	got := s.mustDo(http.StatusOK, http.MethodGet, "/ads/"+id+"/", "", author)
	c.Assert(got["price"], qt.Equals, float64(100))

	got = s.mustDo(http.StatusOK, http.MethodPatch, path, `{"price":150}`, author)
	c.Assert(got["price"], qt.Equals, float64(150))
	got = s.mustDo(http.StatusOK, http.MethodPatch, path, `{"price":160}`, mod)
	c.Assert(got["price"], qt.Equals, float64(160))
	got = s.mustDo(http.StatusOK, http.MethodPatch, path, `{"is_published":true}`, admin)
	c.Assert(got["is_published"], qt.Equals, true)
	c.Assert(got["name"], qt.Equals, "Bike")

	s.mustDo(http.StatusBadRequest, http.MethodPut, path, `{"price":1}`, author)
	s.mustDo(http.StatusNotFound, http.MethodPatch, "/ads/update/999/", `{"price":1}`, author)

	s.mustDo(http.StatusForbidden, http.MethodDelete, "/ads/delete/"+id+"/", "", other)
	s.mustDo(http.StatusNoContent, http.MethodDelete, "/ads/delete/"+id+"/", "", author)
	s.mustDo(http.StatusNotFound, http.MethodGet, "/ads/"+id+"/", "", author)
}

func TestAdRetrieveRequiresAuthentication(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	author := s.user("ann", "member")
	id := s.ad("Bike", 100, "red", author, s.category("Sport"))

	body := s.mustDo(http.StatusUnauthorized, http.MethodGet, "/ads/"+id+"/", "", "")
	c.Assert(body["error"], qt.Equals, "authentication required")
	s.mustDo(http.StatusOK, http.MethodGet, "/ads/"+id+"/", "", author)
	s.mustDo(http.StatusNotFound, http.MethodGet, "/ads/abc/", "", author)

	// a credential that does not resolve is rejected even on open endpoints
	s.mustDo(http.StatusUnauthorized, http.MethodGet, "/ads/", "", "Bearer not-a-jwt")
	s.mustDo(http.StatusUnauthorized, http.MethodGet, "/ads/", "", "999")
}

func TestAdListFilters(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	paris := s.user("ann", "member", "Paris")
	berlin := s.user("bob", "member", "Berlin")
	sport := s.category("Sport")
	home := s.category("Home")
	bike := s.ad("Bike", 100, "Red bike", paris, sport)
	sofa := s.ad("Sofa", 500, "Blue sofa", berlin, home)
	ball := s.ad("Ball", 200, "red ball", berlin, sport)

	ids := func(path string) []string {
		var out []string
		for _, a := range s.list(path, "") {
			out = append(out, fmt.Sprint(a["id"]))
		}
		return out
	}

	c.Assert(ids("/ads/"), qt.DeepEquals, []string{bike, sofa, ball})
	c.Assert(ids("/ads/?cat="+sport), qt.DeepEquals, []string{bike, ball})
	c.Assert(ids("/ads/?cat="+sport+"&cat="+home), qt.DeepEquals, []string{bike, sofa, ball})
	c.Assert(ids("/ads/?text=RED"), qt.DeepEquals, []string{bike, ball})
	c.Assert(ids("/ads/?location=ber"), qt.DeepEquals, []string{sofa, ball})
	c.Assert(ids("/ads/?price_from=100&price_to=200"), qt.DeepEquals, []string{bike})
	c.Assert(ids("/ads/?price_from=100"), qt.DeepEquals, []string{bike, sofa, ball})
	c.Assert(ids("/ads/?cat="+sport+"&text=red&location=paris"), qt.DeepEquals, []string{bike})
	c.Assert(ids("/ads/?limit=1&offset=1"), qt.DeepEquals, []string{sofa})
	c.Assert(ids("/ads/?cat=999"), qt.HasLen, 0)

	for _, q := range []string{"cat=x", "price_from=abc&price_to=10", "limit=-1"} {
		s.mustDo(http.StatusBadRequest, http.MethodGet, "/ads/?"+q, "", "")
	}
}

func TestCategories(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	sport := s.category("Sport")
	s.category("Auto")

	got := s.list("/categories/", "")
	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0]["name"], qt.Equals, "Auto")
	c.Assert(got[1]["name"], qt.Equals, "Sport")

	one := s.mustDo(http.StatusOK, http.MethodGet, "/categories/"+sport, "", "")
	c.Assert(one["name"], qt.Equals, "Sport")
	one = s.mustDo(http.StatusOK, http.MethodPatch, "/categories/update/"+sport+"/", `{"name":"Sports"}`, "")
	c.Assert(one["name"], qt.Equals, "Sports")

	s.ad("Bike", 100, "", s.user("ann", "member"), sport)
	s.mustDo(http.StatusConflict, http.MethodDelete, "/categories/delete/"+sport+"/", "", "")
	s.mustDo(http.StatusOK, http.MethodGet, "/categories/"+sport, "", "")

	empty := s.category("Empty")
	status := s.mustDo(http.StatusOK, http.MethodDelete, "/categories/delete/"+empty+"/", "", "")
	c.Assert(status["status"], qt.Equals, "ok")
	s.mustDo(http.StatusNotFound, http.MethodGet, "/categories/"+empty, "", "")
}

func TestSelections(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	owner := s.user("ann", "member")
	other := s.user("bob", "member")
	admin := s.user("ada", "admin")
	bike := s.ad("Bike", 100, "", owner, s.category("Sport"))
	body := fmt.Sprintf(`{"name":"Wishlist","owner":%s,"items":[%s]}`, owner, bike)

	s.mustDo(http.StatusUnauthorized, http.MethodPost, "/selections/create/", body, "")
	sel := s.mustDo(http.StatusCreated, http.MethodPost, "/selections/create/", body, owner)
	id := fmt.Sprint(sel["id"])
	c.Assert(fmt.Sprint(sel["items"]), qt.Equals, "["+bike+"]")

	list := s.list("/selections/", "")
	c.Assert(list, qt.DeepEquals, []map[string]any{{"id": sel["id"], "name": "Wishlist"}})

	s.mustDo(http.StatusUnauthorized, http.MethodGet, "/selections/"+id+"/", "", "")
	s.mustDo(http.StatusOK, http.MethodGet, "/selections/"+id+"/", "", other)

	denied := s.mustDo(http.StatusForbidden, http.MethodPatch, "/selections/"+id+"/update/", `{"name":"Mine"}`, admin)
	c.Assert(denied["error"], qt.Equals, "You are not the author")
	s.mustDo(http.StatusForbidden, http.MethodPatch, "/selections/"+id+"/update/", `{"name":"Mine"}`, other)
	got := s.mustDo(http.StatusOK, http.MethodPatch, "/selections/"+id+"/update/", `{"items":[]}`, owner)
	c.Assert(got["items"], qt.DeepEquals, []any{})
	c.Assert(got["name"], qt.Equals, "Wishlist")

	s.mustDo(http.StatusNoContent, http.MethodDelete, "/selections/"+id+"/delete/", "", other)
	s.mustDo(http.StatusNotFound, http.MethodGet, "/selections/"+id+"/", "", owner)
}

func TestUsersAndLocations(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)

	u := s.mustDo(http.StatusCreated, http.MethodPost, "/users/create/",
		`{"username":"ann","password":"pw","first_name":"Ann","location":["Paris","Berlin"]}`, "")
	id := fmt.Sprint(u["id"])
	c.Assert(u["location"], qt.DeepEquals, []any{"Berlin", "Paris"})
	c.Assert(u["role"], qt.Equals, "member")
	_, leaked := u["password"]
	c.Assert(leaked, qt.IsFalse)

	s.mustDo(http.StatusConflict, http.MethodPost, "/users/create/", `{"username":"ann","password":"x"}`, "")
	s.mustDo(http.StatusBadRequest, http.MethodPost, "/users/create/", `{"username":"bob","password":"x","role":"root"}`, "")

	u = s.mustDo(http.StatusOK, http.MethodPatch, "/users/"+id+"/update/", `{"location":["Rome"]}`, "")
	c.Assert(u["location"], qt.DeepEquals, []any{"Berlin", "Paris", "Rome"})
	c.Assert(u["first_name"], qt.Equals, "Ann")

	locs := s.list("/locations/", "")
	c.Assert(locs, qt.HasLen, 3)
	loc := s.mustDo(http.StatusCreated, http.MethodPost, "/locations/", `{"name":"Oslo","lat":59.9,"lng":10.7}`, "")
	lid := fmt.Sprint(loc["id"])
	c.Assert(loc["lat"], qt.Equals, 59.9)
	loc = s.mustDo(http.StatusOK, http.MethodPatch, "/locations/"+lid+"/", `{"name":"Oslo S"}`, "")
	c.Assert(loc["lng"], qt.Equals, 10.7)
	s.mustDo(http.StatusConflict, http.MethodPost, "/locations/", `{"name":"Rome"}`, "")
	s.mustDo(http.StatusNoContent, http.MethodDelete, "/locations/"+lid+"/", "", "")
	s.mustDo(http.StatusNotFound, http.MethodGet, "/locations/"+lid+"/", "", "")

	s.mustDo(http.StatusNoContent, http.MethodDelete, "/users/"+id+"/delete/", "", "")
	s.mustDo(http.StatusNotFound, http.MethodGet, "/users/"+id+"/", "", "")
}

func TestTokenFlow(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	author := s.user("ann", "member")
	id := s.ad("Bike", 100, "", author, s.category("Sport"))

	s.mustDo(http.StatusUnauthorized, http.MethodPost, "/users/token/", `{"username":"ann","password":"nope"}`, "")
	s.mustDo(http.StatusBadRequest, http.MethodPost, "/users/token/", `{"username":"ann"}`, "")

	pair := s.mustDo(http.StatusOK, http.MethodPost, "/users/token/", `{"username":"ann","password":"pw"}`, "")
	access := pair["access"].(string)
	refresh := pair["refresh"].(string)

	got := s.mustDo(http.StatusOK, http.MethodPatch, "/ads/update/"+id+"/", `{"price":5}`, "Bearer "+access)
	c.Assert(got["price"], qt.Equals, float64(5))
	s.mustDo(http.StatusUnauthorized, http.MethodGet, "/ads/", "", "Bearer "+refresh)

	next := s.mustDo(http.StatusOK, http.MethodPost, "/users/token/refresh/", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
	c.Assert(next["access"], qt.Not(qt.Equals), "")
	s.mustDo(http.StatusUnauthorized, http.MethodPost, "/users/token/refresh/", fmt.Sprintf(`{"refresh":%q}`, access), "")
}

func upload(s *server, id, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	s.c.Assert(err, qt.IsNil)
	_, err = fw.Write(content)
	s.c.Assert(err, qt.IsNil)
	s.c.Assert(mw.Close(), qt.IsNil)

	req := httptest.NewRequest(http.MethodPost, "/ads/"+id+"/upload_image/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)
	id := s.ad("Bike", 100, "", s.user("ann", "member"), s.category("Sport"))

	rec := upload(s, id, "notes.txt", []byte("just text"))
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	rec = upload(s, id, "bike.png", png)
	c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf("%s", rec.Body))
	var img map[string]any
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &img), qt.IsNil)
	c.Assert(img["name"], qt.Equals, "Bike")
	url := img["image"].(string)
	c.Assert(url, qt.Matches, `/media/ad_images/.+\.png`)

	served := s.do(http.MethodGet, url, "", "")
	c.Assert(served.Code, qt.Equals, http.StatusOK)
	c.Assert(served.Body.Bytes(), qt.DeepEquals, png)

	// the stored extension follows the sniffed type, not the client filename
	disguised := append([]byte("\x89PNG\r\n\x1a\n"), []byte("<html><script>alert(1)</script></html>")...)
	rec = upload(s, id, "evil.html", disguised)
	c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf("%s", rec.Body))
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &img), qt.IsNil)
	c.Assert(img["image"], qt.Matches, `/media/ad_images/.+\.png`)
	served = s.do(http.MethodGet, img["image"].(string), "", "")
	c.Assert(served.Code, qt.Equals, http.StatusOK)
	c.Assert(served.Header().Get("Content-Type"), qt.Equals, "image/png")

	rec = upload(s, "999", "bike.png", png)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)

	rec = upload(s, id, "big.png", append(png, bytes.Repeat([]byte{0}, 2<<20)...))
	c.Assert(rec.Code, qt.Not(qt.Equals), http.StatusOK)
}

func TestHealth(t *testing.T) {
	c := qt.New(t)
	s := newServer(c)

	rec := s.do(http.MethodGet, "/health", "", "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Equals, "ok")
	c.Assert(rec.Header().Get("X-Request-Id"), qt.Not(qt.Equals), "")

	rec = s.do(http.MethodGet, "/metrics", "", "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}
