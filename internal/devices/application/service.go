package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wisewatt-cloud/internal/audit"
	devices "wisewatt-cloud/internal/devices/domain"
	"wisewatt-cloud/internal/observability/metrics"
)

// Clock supplies the current wall time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the process clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Service exposes device reads and writes. Every device that passes through
// here gets its IsOn flag recomputed from the schedule and the current
// clock, so callers never see a stale stored value.
type Service struct {
	repo    devices.Repository
	clock   Clock
	auditor audit.Logger
}

// Option customises the service.
type Option func(*Service)

// WithAuditLogger records device writes in the audit log.
func WithAuditLogger(logger audit.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.auditor = logger
		}
	}
}

// NewService constructs a device service.
func NewService(repo devices.Repository, clock Clock, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("device service: nil repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	s := &Service{repo: repo, clock: clock, auditor: audit.NopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get loads one device by serial and refreshes its live status.
func (s *Service) Get(ctx context.Context, serial string) (*devices.Device, error) {
	device, err := s.repo.Get(ctx, serial)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, devices.ErrDeviceNotFound
	}
	s.refreshStatus(device)
	return device, nil
}

// ListForUser loads all devices owned by a user, each with refreshed status.
func (s *Service) ListForUser(ctx context.Context, userGUID string) ([]devices.Device, error) {
	list, err := s.repo.ListForUser(ctx, userGUID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.refreshStatus(&list[i])
	}
	return list, nil
}

// Update validates and persists a device, refreshing its status first so the
// stored flag matches the schedule at write time.
func (s *Service) Update(ctx context.Context, device *devices.Device) error {
	if device == nil {
		return errors.New("device service: nil device")
	}
	if err := device.Validate(); err != nil {
		return err
	}
	s.refreshStatus(device)
	if err := s.repo.Update(ctx, device); err != nil {
		return err
	}
	s.recordAudit(ctx, device.UserGUID, "device.update", device)
	return nil
}

// Delete removes a device by serial.
func (s *Service) Delete(ctx context.Context, serial string) error {
	device, err := s.repo.Get(ctx, serial)
	if err != nil {
		return err
	}
	if device == nil {
		return devices.ErrDeviceNotFound
	}
	if err := s.repo.Delete(ctx, serial); err != nil {
		return err
	}
	s.recordAudit(ctx, device.UserGUID, "device.delete", device)
	return nil
}

// Audit failures must not fail the write itself.
func (s *Service) recordAudit(ctx context.Context, userGUID, action string, device *devices.Device) {
	metadata, _ := json.Marshal(map[string]string{
		"serial": device.Serial,
		"kind":   string(device.Kind),
	})
	_ = s.auditor.Log(ctx, audit.Entry{
		UserGUID:     userGUID,
		Action:       action,
		ResourceType: "device",
		ResourceID:   device.Serial,
		Metadata:     metadata,
	})
}

func (s *Service) refreshStatus(device *devices.Device) {
	device.IsOn = device.Schedule.RunningAt(devices.TimeOfDayOf(s.clock.Now()))
	metrics.IncDeviceStatusRefresh()
}
