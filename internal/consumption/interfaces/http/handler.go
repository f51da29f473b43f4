package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wisewatt-cloud/internal/auth"
	consumptionapp "wisewatt-cloud/internal/consumption/application"
	consumption "wisewatt-cloud/internal/consumption/domain"
	"wisewatt-cloud/internal/consumption/interfaces"
	deviceapp "wisewatt-cloud/internal/devices/application"
	pricing "wisewatt-cloud/internal/pricing/domain"
)

// Handler provides consumption HTTP endpoints.
type Handler struct {
	devices *deviceapp.Service
	service *consumptionapp.Service
}

// NewHandler constructs a handler.
func NewHandler(devices *deviceapp.Service, service *consumptionapp.Service) (*Handler, error) {
	if devices == nil {
		return nil, errors.New("consumption handler: nil device service")
	}
	if service == nil {
		return nil, errors.New("consumption handler: nil service")
	}
	return &Handler{devices: devices, service: service}, nil
}

// ServeHTTP handles /api/v1/consumption subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userGUID := auth.UserGUIDFromContext(r.Context())
	if userGUID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case "/api/v1/consumption/summary":
		h.handleSummary(w, r, userGUID)
	case "/api/v1/consumption/percentages":
		h.handlePercentages(w, r, userGUID)
	case "/api/v1/consumption/hourly":
		h.handleHourly(w, r, userGUID)
	case "/api/v1/consumption/report":
		h.handleReport(w, r, userGUID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request, userGUID string) {
	rows, ok := h.summaryRows(w, r, userGUID)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func (h *Handler) handlePercentages(w http.ResponseWriter, r *http.Request, userGUID string) {
	list, err := h.devices.ListForUser(r.Context(), userGUID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	percentages, err := h.service.DailyPercentageByDevice(list)
	if err != nil {
		respondConsumptionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(percentages)
}

func (h *Handler) handleHourly(w http.ResponseWriter, r *http.Request, userGUID string) {
	list, err := h.devices.ListForUser(r.Context(), userGUID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.service.HourlyByDevice(list))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request, userGUID string) {
	rows, ok := h.summaryRows(w, r, userGUID)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	generatedAt := time.Now().UTC()

	var (
		data        []byte
		contentType string
		filename    string
		err         error
	)
	switch format {
	case "xlsx":
		data, err = interfaces.BuildSummaryXLSX(rows, generatedAt)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "consumption.xlsx"
	case "pdf":
		data, err = interfaces.BuildSummaryPDF(rows, generatedAt)
		contentType = "application/pdf"
		filename = "consumption.pdf"
	default:
		http.Error(w, "format must be xlsx or pdf", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

func (h *Handler) summaryRows(w http.ResponseWriter, r *http.Request, userGUID string) ([]consumptionapp.SummaryRow, bool) {
	list, err := h.devices.ListForUser(r.Context(), userGUID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	rows, err := h.service.Summary(r.Context(), list)
	if err != nil {
		respondConsumptionError(w, err)
		return nil, false
	}
	return rows, true
}

func respondConsumptionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, consumption.ErrNotComputable), errors.Is(err, pricing.ErrPriceNotFound):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, pricing.ErrFeedUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
