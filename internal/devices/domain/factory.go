package devices

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
)

type deviceTemplate struct {
	name         string
	serialPrefix string
	minRate      float64
	maxRate      float64
	on           TimeOfDay
	off          TimeOfDay
	heatPump     *HeatPumpSettings
}

var deviceTemplates = map[Kind]deviceTemplate{
	KindDishwasher: {
		name:         "Opvaskemaskine",
		serialPrefix: "Bosch",
		minRate:      0.8,
		maxRate:      1.5,
		on:           TimeOfDay{Hour: 21},
		off:          TimeOfDay{Hour: 23, Minute: 30},
	},
	KindDryer: {
		name:         "Tørretumbler",
		serialPrefix: "Mille",
		minRate:      2.5,
		maxRate:      4.5,
		on:           TimeOfDay{Hour: 9},
		off:          TimeOfDay{Hour: 12},
	},
	KindCarCharger: {
		name:         "Ladestander",
		serialPrefix: "Clever",
		minRate:      7,
		maxRate:      11,
		on:           TimeOfDay{Hour: 22},
		off:          TimeOfDay{Hour: 7},
	},
	KindHeatPump: {
		name:         "Varmepumpe",
		serialPrefix: "LG",
		minRate:      2,
		maxRate:      5,
		on:           TimeOfDay{Hour: 16},
		off:          TimeOfDay{Hour: 23},
		heatPump:     &HeatPumpSettings{TargetTemperature: 20},
	},
	KindWashingMachine: {
		name:         "Vaskemaskine",
		serialPrefix: "Blomberg",
		minRate:      0.5,
		maxRate:      1.5,
		on:           TimeOfDay{Hour: 2},
		off:          TimeOfDay{Hour: 5},
	},
}

// NewDevice builds a device of the given kind for a user, with the stock
// schedule for that kind and a randomised consumption rate inside the
// kind's realistic range. An empty name keeps the stock name.
func NewDevice(kind Kind, userGUID, name string) (*Device, error) {
	tpl, ok := deviceTemplates[kind]
	if !ok {
		return nil, ErrUnknownDeviceKind
	}
	if name == "" {
		name = tpl.name
	}
	device := &Device{
		UserGUID:        userGUID,
		Kind:            kind,
		Name:            name,
		Serial:          tpl.serialPrefix + "-" + randomSerialSuffix(),
		ConsumptionRate: tpl.minRate + mathrand.Float64()*(tpl.maxRate-tpl.minRate),
		Schedule:        Schedule{On: tpl.on, Off: tpl.off},
	}
	if tpl.heatPump != nil {
		settings := *tpl.heatPump
		device.HeatPump = &settings
	}
	return device, nil
}

// DefaultDevices builds the standard starter set for a newly registered user.
func DefaultDevices(userGUID string) ([]Device, error) {
	kinds := []Kind{KindDishwasher, KindDryer, KindCarCharger, KindHeatPump, KindWashingMachine}
	result := make([]Device, 0, len(kinds))
	for _, kind := range kinds {
		device, err := NewDevice(kind, userGUID, "")
		if err != nil {
			return nil, fmt.Errorf("devices: default set: %w", err)
		}
		result = append(result, *device)
	}
	return result, nil
}

func randomSerialSuffix() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
