package devices

import "errors"

var (
	// ErrUnknownDeviceKind is returned when a device kind is not recognised.
	ErrUnknownDeviceKind = errors.New("devices: unknown device kind")
	// ErrEmptySerial is returned when a device serial is empty.
	ErrEmptySerial = errors.New("devices: empty serial")
	// ErrEmptyUserGUID is returned when a user guid is empty.
	ErrEmptyUserGUID = errors.New("devices: empty user guid")
	// ErrNegativeConsumptionRate is returned when the consumption rate is negative.
	ErrNegativeConsumptionRate = errors.New("devices: negative consumption rate")
	// ErrMissingHeatPumpSettings is returned when a heat pump has no settings payload.
	ErrMissingHeatPumpSettings = errors.New("devices: heat pump requires settings")
	// ErrUnexpectedHeatPumpSettings is returned when a non heat pump carries heat pump settings.
	ErrUnexpectedHeatPumpSettings = errors.New("devices: settings only valid for heat pumps")
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("devices: not found")
)
