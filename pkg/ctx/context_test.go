package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/stockpile-io/stockpile/pkg/ctx"
)

func serve(h ctx.HandlerFunc, method, path, pattern, body string) *httptest.ResponseRecorder {
	mux := chi.NewRouter()
	mux.MethodFunc(method, pattern, ctx.Wrap(h))

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestParamUint(t *testing.T) {
	rec := serve(func(c *ctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			c.NotFound()
			return
		}
		c.Success(map[string]uint{"id": id})
	}, http.MethodGet, "/products/42", "/products/{id}", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(func(c *ctx.Context) {
		if _, ok := c.ParamUint("id"); !ok {
			c.NotFound()
			return
		}
		c.Success(nil)
	}, http.MethodGet, "/products/abc", "/products/{id}", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-numeric id, got %d", rec.Code)
	}
}

func TestQueryHelpers(t *testing.T) {
	serve(func(c *ctx.Context) {
		if got := c.Query("name"); got != "widget" {
			t.Errorf("Query(name) = %q", got)
		}
		if got := c.DefaultQuery("missing", "fallback"); got != "fallback" {
			t.Errorf("DefaultQuery = %q", got)
		}
		if got := c.QueryInt("limit", 10); got != 25 {
			t.Errorf("QueryInt(limit) = %d", got)
		}
		if got := c.QueryInt("offset", 7); got != 7 {
			t.Errorf("QueryInt default = %d", got)
		}
		c.Success(nil)
	}, http.MethodGet, "/items?name=widget&limit=25", "/items", "")
}

func TestBindJSONValidation(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required,min=3"`
	}

	rec := serve(func(c *ctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		c.Created(in)
	}, http.MethodPost, "/items", "/items", `{"name":"ab"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var env struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if _, ok := env.Errors["name"]; !ok {
		t.Errorf("expected a name error, got: %v", env.Errors)
	}

	rec = serve(func(c *ctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		c.Created(in)
	}, http.MethodPost, "/items", "/items", `{broken`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}

	rec = serve(func(c *ctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		c.Created(in)
	}, http.MethodPost, "/items", "/items", `{"name":"widget"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestResponseHelpers(t *testing.T) {
	rec := serve(func(c *ctx.Context) { c.NoContent() }, http.MethodDelete, "/x", "/x", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("NoContent wrote %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("NoContent wrote a body: %q", rec.Body.String())
	}

	rec = serve(func(c *ctx.Context) { c.Conflict("name already in use") }, http.MethodPost, "/x", "/x", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("Conflict wrote %d", rec.Code)
	}

	rec = serve(func(c *ctx.Context) { c.Error(400, "insufficient stock") }, http.MethodPost, "/x", "/x", "")
	var env struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Status != 400 || env.Message != "insufficient stock" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}
