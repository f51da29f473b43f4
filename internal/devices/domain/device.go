package devices

import "context"

// Kind identifies one of the supported household device types.
type Kind string

const (
	KindDishwasher     Kind = "dishwasher"
	KindDryer          Kind = "dryer"
	KindCarCharger     Kind = "car_charger"
	KindHeatPump       Kind = "heat_pump"
	KindWashingMachine Kind = "washing_machine"
)

// ParseKind maps a wire/storage string onto a known kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindDishwasher, KindDryer, KindCarCharger, KindHeatPump, KindWashingMachine:
		return Kind(value), nil
	}
	return "", ErrUnknownDeviceKind
}

// HeatPumpSettings carries the attributes only heat pumps have.
type HeatPumpSettings struct {
	TargetTemperature int
}

// Device is one IoT device owned by a user. The variant set is closed: the
// shared fields live here and kind-specific payloads are attached only to
// the kinds that need them.
//
// IsOn is a projection of the schedule at read time, never a stored source
// of truth; it is recomputed on every read and before every write.
type Device struct {
	UserGUID string
	Kind     Kind
	Name     string
	Serial   string

	// ConsumptionRate is the constant draw in kW while the device runs.
	ConsumptionRate float64
	Schedule        Schedule
	IsOn            bool

	HeatPump *HeatPumpSettings
}

// Validate checks device invariants, including the kind-specific payload.
func (d Device) Validate() error {
	if d.Serial == "" {
		return ErrEmptySerial
	}
	if d.UserGUID == "" {
		return ErrEmptyUserGUID
	}
	if _, err := ParseKind(string(d.Kind)); err != nil {
		return err
	}
	if d.ConsumptionRate < 0 {
		return ErrNegativeConsumptionRate
	}
	if err := d.Schedule.Validate(); err != nil {
		return err
	}
	if d.Kind == KindHeatPump && d.HeatPump == nil {
		return ErrMissingHeatPumpSettings
	}
	if d.Kind != KindHeatPump && d.HeatPump != nil {
		return ErrUnexpectedHeatPumpSettings
	}
	return nil
}

// Repository manages device persistence. IsOn round-trips through storage
// but callers must not trust the stored value.
type Repository interface {
	Get(ctx context.Context, serial string) (*Device, error)
	ListForUser(ctx context.Context, userGUID string) ([]Device, error)
	Save(ctx context.Context, device *Device) error
	Update(ctx context.Context, device *Device) error
	Delete(ctx context.Context, serial string) error
}
