package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"wisewatt-cloud/internal/auth"
	deviceapp "wisewatt-cloud/internal/devices/application"
	devices "wisewatt-cloud/internal/devices/domain"
)

// Handler provides device HTTP endpoints.
type Handler struct {
	service *deviceapp.Service
}

// NewHandler constructs a handler.
func NewHandler(service *deviceapp.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("devices handler: nil service")
	}
	return &Handler{service: service}, nil
}

type deviceDTO struct {
	Serial            string  `json:"serial"`
	Kind              string  `json:"kind"`
	Name              string  `json:"name"`
	ConsumptionRate   float64 `json:"consumption_rate"`
	OnTime            string  `json:"on_time"`
	OffTime           string  `json:"off_time"`
	ManuallyOperated  bool    `json:"manually_operated"`
	IsOn              bool    `json:"is_on"`
	TargetTemperature *int    `json:"target_temperature,omitempty"`
}

func toDTO(device devices.Device) deviceDTO {
	dto := deviceDTO{
		Serial:           device.Serial,
		Kind:             string(device.Kind),
		Name:             device.Name,
		ConsumptionRate:  device.ConsumptionRate,
		OnTime:           device.Schedule.On.String(),
		OffTime:          device.Schedule.Off.String(),
		ManuallyOperated: device.Schedule.ManuallyOperated,
		IsOn:             device.IsOn,
	}
	if device.HeatPump != nil {
		temperature := device.HeatPump.TargetTemperature
		dto.TargetTemperature = &temperature
	}
	return dto
}

type updateRequest struct {
	Name              string  `json:"name"`
	ConsumptionRate   float64 `json:"consumption_rate"`
	OnTime            string  `json:"on_time"`
	OffTime           string  `json:"off_time"`
	ManuallyOperated  bool    `json:"manually_operated"`
	TargetTemperature *int    `json:"target_temperature,omitempty"`
}

// ServeHTTP handles /api/v1/devices and subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userGUID := auth.UserGUIDFromContext(r.Context())
	if userGUID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if r.URL.Path == "/api/v1/devices" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleList(w, r, userGUID)
		return
	}

	serial := strings.TrimPrefix(r.URL.Path, "/api/v1/devices/")
	if serial == "" || strings.Contains(serial, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, userGUID, serial)
	case http.MethodPut:
		h.handleUpdate(w, r, userGUID, serial)
	case http.MethodDelete:
		h.handleDelete(w, r, userGUID, serial)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, userGUID string) {
	list, err := h.service.ListForUser(r.Context(), userGUID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]deviceDTO, 0, len(list))
	for _, device := range list {
		dtos = append(dtos, toDTO(device))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dtos)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, userGUID, serial string) {
	device, err := h.loadOwned(w, r, userGUID, serial)
	if device == nil || err != nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toDTO(*device))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, userGUID, serial string) {
	device, err := h.loadOwned(w, r, userGUID, serial)
	if device == nil || err != nil {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	onTime, err := devices.ParseTimeOfDay(req.OnTime)
	if err != nil {
		http.Error(w, "invalid on_time", http.StatusBadRequest)
		return
	}
	offTime, err := devices.ParseTimeOfDay(req.OffTime)
	if err != nil {
		http.Error(w, "invalid off_time", http.StatusBadRequest)
		return
	}

	if req.Name != "" {
		device.Name = req.Name
	}
	device.ConsumptionRate = req.ConsumptionRate
	device.Schedule = devices.Schedule{On: onTime, Off: offTime, ManuallyOperated: req.ManuallyOperated}
	if device.Kind == devices.KindHeatPump && req.TargetTemperature != nil {
		device.HeatPump = &devices.HeatPumpSettings{TargetTemperature: *req.TargetTemperature}
	}

	if err := h.service.Update(r.Context(), device); err != nil {
		switch {
		case errors.Is(err, devices.ErrUnknownDeviceKind),
			errors.Is(err, devices.ErrNegativeConsumptionRate),
			errors.Is(err, devices.ErrMissingHeatPumpSettings),
			errors.Is(err, devices.ErrUnexpectedHeatPumpSettings):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toDTO(*device))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, userGUID, serial string) {
	device, err := h.loadOwned(w, r, userGUID, serial)
	if device == nil || err != nil {
		return
	}
	if err := h.service.Delete(r.Context(), serial); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadOwned fetches the device and enforces ownership. On failure it has
// already written the response; callers just return.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request, userGUID, serial string) (*devices.Device, error) {
	device, err := h.service.Get(r.Context(), serial)
	if err != nil {
		if errors.Is(err, devices.ErrDeviceNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return nil, err
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, err
	}
	if device.UserGUID != userGUID {
		// Do not leak which serials exist.
		w.WriteHeader(http.StatusNotFound)
		return nil, devices.ErrDeviceNotFound
	}
	return device, nil
}
