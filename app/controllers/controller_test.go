package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/app/routes"
	"github.com/stockpile-io/stockpile/pkg/database"
	"github.com/stockpile-io/stockpile/pkg/router"
)

// newTestHandler wires the API routes over a fresh SQLite database.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?_busy_timeout=5000&_txlock=immediate&_fk=1",
		filepath.Join(t.TempDir(), "stockpile_test.db"))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Transaction{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = prev
	})

	r := router.New()
	routes.RegisterAPI(r)
	return r.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// apiEnvelope mirrors the JSON response shape.
type apiEnvelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func createProduct(t *testing.T, h http.Handler, body string) models.Product {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p models.Product
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &p))
	return p
}

func TestProductLifecycle(t *testing.T) {
	h := newTestHandler(t)

	p := createProduct(t, h, `{"name":"Widget","description":"a widget","price":9.99,"amount":10}`)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 10, p.Amount)

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", p.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID), `{"name":"Widget Pro","price":19.99}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Product
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &updated))
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, 10, updated.Amount, "omitted amount keeps current stock")

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", p.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", p.ID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductValidation(t *testing.T) {
	h := newTestHandler(t)

	cases := map[string]string{
		"name too short":   `{"name":"ab","price":1}`,
		"missing price":    `{"name":"Widget"}`,
		"negative price":   `{"name":"Widget","price":-1}`,
		"negative amount":  `{"name":"Widget","price":1,"amount":-5}`,
		"overlong name":    `{"name":"` + strings.Repeat("x", 51) + `","price":1}`,
	}
	for label, body := range cases {
		rec := doJSON(t, h, http.MethodPost, "/api/products", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, label)
		env := decodeEnvelope(t, rec)
		assert.NotEmpty(t, env.Errors, label)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/products", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductConflict(t *testing.T) {
	h := newTestHandler(t)

	createProduct(t, h, `{"name":"Widget","price":9.99}`)

	rec := doJSON(t, h, http.MethodPost, "/api/products", `{"name":"Widget","price":1.00}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListProductsFilterQuery(t *testing.T) {
	h := newTestHandler(t)

	createProduct(t, h, `{"name":"Home Shirt","description":"green shirt","price":1.0,"amount":5}`)
	createProduct(t, h, `{"name":"Away Shorts","description":"white shorts","price":2.0,"amount":10}`)
	createProduct(t, h, `{"name":"Team Socks","description":"green socks","price":3.0,"amount":25}`)

	rec := doJSON(t, h, http.MethodGet, "/api/products?min_amount=10&max_price=2.5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Products   []models.Product `json:"products"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Away Shorts", list.Products[0].Name)
	assert.EqualValues(t, 1, list.Pagination.Total)

	rec = doJSON(t, h, http.MethodGet, "/api/products?contains=green", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	assert.Len(t, list.Products, 2)
}

func TestTransactionEndpoints(t *testing.T) {
	h := newTestHandler(t)

	p := createProduct(t, h, `{"name":"Widget","price":9.99,"amount":10}`)
	base := fmt.Sprintf("/api/products/%d/transactions", p.ID)

	rec := doJSON(t, h, http.MethodPost, base, `{"type":"add","amount":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx models.Transaction
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &tx))
	assert.Equal(t, "add", tx.Type)

	// Over-drawing stock is a 400, not a validation error.
	rec = doJSON(t, h, http.MethodPost, base, `{"type":"remove","amount":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown type is rejected before the engine runs.
	rec = doJSON(t, h, http.MethodPost, base, `{"type":"transfer","amount":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.Transaction
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &history))
	assert.Len(t, history, 1)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("%s/%d", base, tx.ID), `{"type":"remove","amount":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("%s/%d", base, tx.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("%s/%d", base, tx.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/products/999/transactions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
