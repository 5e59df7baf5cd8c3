// Package kernel assembles the HTTP surface: the global middleware
// stack, the operational endpoints (/health, /metrics, /ws/stock) and
// the application route table.
package kernel

import (
	"net/http"
	"time"

	"github.com/stockpile-io/stockpile/app/routes"
	"github.com/stockpile-io/stockpile/app/services"
	"github.com/stockpile-io/stockpile/pkg/cache"
	"github.com/stockpile-io/stockpile/pkg/database"
	"github.com/stockpile-io/stockpile/pkg/event"
	"github.com/stockpile-io/stockpile/pkg/metrics"
	"github.com/stockpile-io/stockpile/pkg/middleware"
	"github.com/stockpile-io/stockpile/pkg/reqid"
	"github.com/stockpile-io/stockpile/pkg/response"
	"github.com/stockpile-io/stockpile/pkg/router"
	"github.com/stockpile-io/stockpile/pkg/ws"
)

// HTTPKernel owns the router and the websocket hub for the lifetime of
// the process.
type HTTPKernel struct {
	router *router.Router
	hub    *ws.Hub
}

// NewHTTPKernel builds the full handler stack and starts the stock
// feed hub.
func NewHTTPKernel() *HTTPKernel {
	k := &HTTPKernel{
		router: router.New(),
		hub:    ws.NewHub(),
	}

	go k.hub.Run()

	// Stock mutations reach websocket clients through the event bus,
	// keeping the service layer free of transport concerns.
	event.Listen(services.EventStockChanged, func(payload interface{}) {
		k.hub.Broadcast(payload)
	})

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery           — catches panics before they kill the goroutine
	//  3. Request ID         — inject unique ID before anything logs
	//  4. Logger             — logs request_id from context
	//  5. CORS               — set CORS headers
	//  6. Rate limiter       — reject abusers early
	k.router.Use(metrics.Middleware())
	k.router.Use(middleware.Recovery)
	k.router.Use(reqid.Middleware())
	k.router.Use(middleware.Logger)
	k.router.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	k.router.Use(middleware.RateLimit(200, time.Minute))

	k.router.HandleFunc("/metrics", metrics.Handler())
	k.router.HandleFunc("/health", k.health)
	k.router.HandleFunc("/ws/stock", k.hub.Upgrade)

	routes.RegisterAPI(k.router)

	return k
}

// Handler returns the assembled http.Handler.
func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the route table, used by the route:list command.
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}

// Shutdown disconnects websocket clients and drains async listeners.
func (k *HTTPKernel) Shutdown() {
	k.hub.Close()
	event.Flush()
}

func (k *HTTPKernel) health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	status := http.StatusOK

	if sqlDB, err := database.DB.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	}
	if cache.RDB == nil {
		checks["redis"] = "disabled"
	} else if cache.RDB.Ping(r.Context()).Err() != nil {
		checks["redis"] = "down"
	}

	if status == http.StatusOK {
		response.Success(w, checks)
		return
	}
	response.Error(w, status, "degraded")
}
