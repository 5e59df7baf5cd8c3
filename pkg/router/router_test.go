package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockpile-io/stockpile/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNamedRoutes(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.show", ok)

	path, found := r.Path("products.show")
	if !found {
		t.Fatal("expected products.show to be registered")
	}
	if path != "/products/{id}" {
		t.Errorf("Path = %q", path)
	}

	url, err := r.URL("products.show", map[string]string{"id": "7"})
	if err != nil {
		t.Fatal(err)
	}
	if url != "/products/7" {
		t.Errorf("URL = %q", url)
	}

	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}

func TestGroupPrefixes(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/products", "products.index", ok)

	nested := api.Group("/products/{id}")
	nested.Post("/transactions", "transactions.store", ok)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/products = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/products/3/transactions", nil)
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("POST nested group route = %d", rec.Code)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a.show", ok)
	r.Post("/b", "b.store", ok)
	r.Delete("/b/{id}", "b.destroy", ok)

	infos := r.Routes()
	if len(infos) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(infos))
	}

	methods := map[string]bool{}
	for _, info := range infos {
		methods[info.Method] = true
	}
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		if !methods[m] {
			t.Errorf("missing %s in route listing", m)
		}
	}
}

func TestMiddlewareOrder(t *testing.T) {
	r := router.New()

	var order []string
	mw := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r.Use(mw("outer"))
	r.Get("/x", "x.show", ok, mw("inner"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Handler().ServeHTTP(httptest.NewRecorder(), req)

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v", order)
	}
}
