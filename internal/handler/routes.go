package handler

import (
	"net/http"
	"time"

	"github.com/Dan9191/xrp-tax-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires all routes. health serves /healthz.
func NewRouter(h *Handler, health http.Handler, cacheTTL time.Duration, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	r.HandleFunc("/", h.Index).Methods("GET")
	r.Handle("/healthz", health).Methods("GET")
	r.HandleFunc("/api/estimate", h.Estimate).Methods("POST")

	// Date-keyed prices do not change once the day is over.
	prices := r.PathPrefix("/").Subrouter()
	prices.Use(middleware.CacheFor(cacheTTL))
	prices.HandleFunc("/xrp-price", h.XRPPrice).Methods("GET")
	prices.HandleFunc("/route", h.SnapshotPrice).Methods("GET")

	return r
}
