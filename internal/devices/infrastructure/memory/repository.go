package memory

import (
	"context"
	"sort"
	"sync"

	devices "wisewatt-cloud/internal/devices/domain"
)

// DeviceRepository is an in-memory device store for tests and local runs.
type DeviceRepository struct {
	mu       sync.RWMutex
	bySerial map[string]devices.Device
}

// NewDeviceRepository constructs an empty repository.
func NewDeviceRepository() *DeviceRepository {
	return &DeviceRepository{bySerial: make(map[string]devices.Device)}
}

// Get loads a device by serial, nil when absent.
func (r *DeviceRepository) Get(_ context.Context, serial string) (*devices.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	device, ok := r.bySerial[serial]
	if !ok {
		return nil, nil
	}
	copied := device
	return &copied, nil
}

// ListForUser loads devices owned by a user ordered by serial.
func (r *DeviceRepository) ListForUser(_ context.Context, userGUID string) ([]devices.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []devices.Device
	for _, device := range r.bySerial {
		if device.UserGUID == userGUID {
			result = append(result, device)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Serial < result[j].Serial })
	return result, nil
}

// Save inserts or replaces a device.
func (r *DeviceRepository) Save(_ context.Context, device *devices.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySerial[device.Serial] = *device
	return nil
}

// Update overwrites an existing device.
func (r *DeviceRepository) Update(_ context.Context, device *devices.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySerial[device.Serial]; !ok {
		return devices.ErrDeviceNotFound
	}
	r.bySerial[device.Serial] = *device
	return nil
}

// Delete removes a device by serial.
func (r *DeviceRepository) Delete(_ context.Context, serial string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySerial, serial)
	return nil
}
