package devices

import "testing"

func TestNewDevice_HeatPumpCarriesSettings(t *testing.T) {
	device, err := NewDevice(KindHeatPump, "user-1", "")
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	if device.HeatPump == nil {
		t.Fatal("expected heat pump settings")
	}
	if device.HeatPump.TargetTemperature != 20 {
		t.Fatalf("expected default target temperature 20, got %d", device.HeatPump.TargetTemperature)
	}
	if err := device.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestNewDevice_UnknownKind(t *testing.T) {
	if _, err := NewDevice(Kind("toaster"), "user-1", ""); err != ErrUnknownDeviceKind {
		t.Fatalf("expected ErrUnknownDeviceKind, got %v", err)
	}
}

func TestDefaultDevices(t *testing.T) {
	set, err := DefaultDevices("user-1")
	if err != nil {
		t.Fatalf("default devices: %v", err)
	}
	if len(set) != 5 {
		t.Fatalf("expected 5 devices, got %d", len(set))
	}
	seen := map[Kind]bool{}
	for _, device := range set {
		if err := device.Validate(); err != nil {
			t.Fatalf("device %s invalid: %v", device.Serial, err)
		}
		if device.UserGUID != "user-1" {
			t.Fatalf("unexpected owner %s", device.UserGUID)
		}
		tpl := deviceTemplates[device.Kind]
		if device.ConsumptionRate < tpl.minRate || device.ConsumptionRate > tpl.maxRate {
			t.Fatalf("rate %f outside [%f, %f] for %s", device.ConsumptionRate, tpl.minRate, tpl.maxRate, device.Kind)
		}
		seen[device.Kind] = true
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct kinds, got %d", len(seen))
	}
}

func TestDeviceValidate_SettingsOnWrongKind(t *testing.T) {
	device, err := NewDevice(KindDryer, "user-1", "")
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	device.HeatPump = &HeatPumpSettings{TargetTemperature: 18}
	if err := device.Validate(); err != ErrUnexpectedHeatPumpSettings {
		t.Fatalf("expected ErrUnexpectedHeatPumpSettings, got %v", err)
	}
}
