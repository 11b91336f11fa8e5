package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Dan9191/xrp-tax-service/internal/apperr"
	"github.com/Dan9191/xrp-tax-service/internal/models"
	"github.com/Dan9191/xrp-tax-service/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	switch kind {
	case apperr.KindInvalidArgument:
		writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
	case apperr.KindNotFound:
		writeJSON(w, status, models.ErrorResponse{Error: "price not found"})
	case apperr.KindUpstream:
		upstream, _ := apperr.UpstreamStatus(err)
		writeJSON(w, status, models.ErrorResponse{Error: "failed to fetch", Status: upstream})
	default:
		writeJSON(w, status, models.ErrorResponse{Error: "server error"})
	}
}

// XRPPrice handles GET /xrp-price?date=YYYY-MM-DD using the intraday series
func (h *Handler) XRPPrice(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "date is required"})
		return
	}

	q, err := h.svc.PriceForDate(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PriceResponse{Price: q.Price})
}

// SnapshotPrice handles GET /route?date=<date> using the daily snapshot
func (h *Handler) SnapshotPrice(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "date required"})
		return
	}

	q, err := h.svc.SnapshotForDate(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PriceResponse{Price: q.Price})
}

// Estimate handles POST /api/estimate
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	var in models.EstimateInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	res, err := h.svc.Estimate(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
