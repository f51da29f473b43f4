package application

import (
	"context"
	"testing"
	"time"

	devices "wisewatt-cloud/internal/devices/domain"
)

type stubRepo struct {
	byUser  map[string][]devices.Device
	updated *devices.Device
}

func (s *stubRepo) Get(_ context.Context, serial string) (*devices.Device, error) {
	for _, list := range s.byUser {
		for _, device := range list {
			if device.Serial == serial {
				copied := device
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (s *stubRepo) ListForUser(_ context.Context, userGUID string) ([]devices.Device, error) {
	list := s.byUser[userGUID]
	result := make([]devices.Device, len(list))
	copy(result, list)
	return result, nil
}

func (s *stubRepo) Save(_ context.Context, _ *devices.Device) error { return nil }

func (s *stubRepo) Update(_ context.Context, device *devices.Device) error {
	copied := *device
	s.updated = &copied
	return nil
}

func (s *stubRepo) Delete(_ context.Context, _ string) error { return nil }

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func washingMachine(isOn bool) devices.Device {
	return devices.Device{
		UserGUID:        "user-1",
		Kind:            devices.KindWashingMachine,
		Name:            "Vaskemaskine",
		Serial:          "Blomberg-0001",
		ConsumptionRate: 1.2,
		Schedule:        devices.Schedule{On: devices.TimeOfDay{Hour: 2}, Off: devices.TimeOfDay{Hour: 5}},
		IsOn:            isOn,
	}
}

func TestListForUser_RefreshesStatusFromClock(t *testing.T) {
	// Stored flag says off, but at 03:00 the schedule says running.
	repo := &stubRepo{byUser: map[string][]devices.Device{"user-1": {washingMachine(false)}}}
	service, err := NewService(repo, fixedClock{at: time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	list, err := service.ListForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || !list[0].IsOn {
		t.Fatalf("expected device on at 03:00, got %+v", list)
	}
}

func TestGet_OverridesStaleStoredStatus(t *testing.T) {
	// Stored flag says on, but at noon the schedule says stopped.
	repo := &stubRepo{byUser: map[string][]devices.Device{"user-1": {washingMachine(true)}}}
	service, err := NewService(repo, fixedClock{at: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	device, err := service.Get(context.Background(), "Blomberg-0001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if device.IsOn {
		t.Fatal("expected device off at 12:00")
	}
}

func TestGet_NotFound(t *testing.T) {
	service, err := NewService(&stubRepo{}, fixedClock{at: time.Now()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := service.Get(context.Background(), "missing"); err != devices.ErrDeviceNotFound {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestUpdate_RefreshesStatusBeforeWrite(t *testing.T) {
	repo := &stubRepo{byUser: map[string][]devices.Device{}}
	service, err := NewService(repo, fixedClock{at: time.Date(2024, 3, 5, 4, 30, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	device := washingMachine(false)
	if err := service.Update(context.Background(), &device); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updated == nil || !repo.updated.IsOn {
		t.Fatal("expected persisted device to be marked on at 04:30")
	}
}

func TestUpdate_RejectsInvalidDevice(t *testing.T) {
	service, err := NewService(&stubRepo{}, fixedClock{at: time.Now()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	device := washingMachine(false)
	device.ConsumptionRate = -1
	if err := service.Update(context.Background(), &device); err != devices.ErrNegativeConsumptionRate {
		t.Fatalf("expected ErrNegativeConsumptionRate, got %v", err)
	}
}
