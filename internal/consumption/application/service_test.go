package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	consumption "wisewatt-cloud/internal/consumption/domain"
	devices "wisewatt-cloud/internal/devices/domain"
	pricing "wisewatt-cloud/internal/pricing/domain"
)

type stubPrices struct {
	entries []pricing.PriceEntry
	err     error
}

func (s stubPrices) Prices(_ context.Context) ([]pricing.PriceEntry, error) {
	return s.entries, s.err
}

func flatPrices(total float64) []pricing.PriceEntry {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	entries := make([]pricing.PriceEntry, 0, 24)
	for hour := 0; hour < 24; hour++ {
		entries = append(entries, pricing.PriceEntry{
			Timestamp:  day.Add(time.Duration(hour) * time.Hour),
			TotalPrice: total,
		})
	}
	return entries
}

func fleet(count int, rate float64, on, off devices.TimeOfDay) []devices.Device {
	result := make([]devices.Device, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, devices.Device{
			UserGUID:        "user-1",
			Kind:            devices.KindWashingMachine,
			Name:            fmt.Sprintf("Vaskemaskine %d", i+1),
			Serial:          fmt.Sprintf("Blomberg-%04d", i+1),
			ConsumptionRate: rate,
			Schedule:        devices.Schedule{On: on, Off: off},
		})
	}
	return result
}

// Five devices at 2 kW on 02:00-05:00 with a flat 0.2/kWh price: 6 kWh and
// 1.2 in cost each, 30 kWh and 6.0 in total, 20% share apiece.
func TestSummary_FlatPriceFleet(t *testing.T) {
	deviceList := fleet(5, 2.0, devices.TimeOfDay{Hour: 2}, devices.TimeOfDay{Hour: 5})
	service, err := NewService(stubPrices{entries: flatPrices(0.2)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	rows, err := service.Summary(context.Background(), deviceList)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 5 device rows plus total, got %d", len(rows))
	}
	for _, row := range rows[:5] {
		if math.Abs(row.DailyUsage-6) > 1e-9 {
			t.Fatalf("%s: usage %f, want 6", row.DeviceName, row.DailyUsage)
		}
		if math.Abs(row.DailyCost-1.2) > 1e-9 {
			t.Fatalf("%s: cost %f, want 1.2", row.DeviceName, row.DailyCost)
		}
	}
	total := rows[5]
	if total.DeviceName != TotalRowName {
		t.Fatalf("expected trailing total row, got %q", total.DeviceName)
	}
	if math.Abs(total.DailyUsage-30) > 1e-9 || math.Abs(total.DailyCost-6) > 1e-9 {
		t.Fatalf("total row %+v, want usage 30 cost 6", total)
	}

	percentages, err := service.DailyPercentageByDevice(deviceList)
	if err != nil {
		t.Fatalf("percentages: %v", err)
	}
	var sum float64
	for name, percent := range percentages {
		if math.Abs(percent-20) > 1e-9 {
			t.Fatalf("%s: percent %f, want 20", name, percent)
		}
		sum += percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %f, want 100", sum)
	}
}

func TestSummary_EmptyDeviceListStillHasTotalRow(t *testing.T) {
	service, err := NewService(stubPrices{entries: flatPrices(0.2)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	rows, err := service.Summary(context.Background(), nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the total row, got %d rows", len(rows))
	}
	if rows[0].DeviceName != TotalRowName || rows[0].DailyUsage != 0 || rows[0].DailyCost != 0 {
		t.Fatalf("unexpected total row %+v", rows[0])
	}
}

func TestSummary_MissingHourPriceDefaultsToZero(t *testing.T) {
	// Prices only cover hours 0-11; the washing machine runs 02:00-05:00
	// and the car charger 22:00-07:00.
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	var entries []pricing.PriceEntry
	for hour := 0; hour < 12; hour++ {
		entries = append(entries, pricing.PriceEntry{
			Timestamp:  day.Add(time.Duration(hour) * time.Hour),
			TotalPrice: 1.0,
		})
	}

	charger := devices.Device{
		UserGUID:        "user-1",
		Kind:            devices.KindCarCharger,
		Name:            "Ladestander",
		Serial:          "Clever-0001",
		ConsumptionRate: 10,
		Schedule:        devices.Schedule{On: devices.TimeOfDay{Hour: 22}, Off: devices.TimeOfDay{Hour: 7}},
	}

	service, err := NewService(stubPrices{entries: entries})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	rows, err := service.Summary(context.Background(), []devices.Device{charger})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// 9 bucket hours at 10 kW; only hours 0-6 are priced, 22-23 cost zero.
	row := rows[0]
	if math.Abs(row.DailyUsage-90) > 1e-9 {
		t.Fatalf("usage %f, want 90", row.DailyUsage)
	}
	if math.Abs(row.DailyCost-70) > 1e-9 {
		t.Fatalf("cost %f, want 70 (unpriced evening hours count as zero)", row.DailyCost)
	}
}

func TestSummary_StrictModeFailsOnMissingHour(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	entries := []pricing.PriceEntry{{Timestamp: day, TotalPrice: 1.0}}

	deviceList := fleet(1, 2.0, devices.TimeOfDay{Hour: 2}, devices.TimeOfDay{Hour: 5})
	service, err := NewService(stubPrices{entries: entries}, WithStrictPricing())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := service.Summary(context.Background(), deviceList); !errors.Is(err, pricing.ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
}

func TestSummary_PriceProviderFailurePropagates(t *testing.T) {
	service, err := NewService(stubPrices{err: pricing.ErrFeedUnavailable})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := service.Summary(context.Background(), nil); !errors.Is(err, pricing.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestDailyPercentageByDevice_ZeroTotalNotComputable(t *testing.T) {
	deviceList := fleet(3, 2.0, devices.TimeOfDay{}, devices.TimeOfDay{})
	service, err := NewService(stubPrices{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := service.DailyPercentageByDevice(deviceList); !errors.Is(err, consumption.ErrNotComputable) {
		t.Fatalf("expected ErrNotComputable, got %v", err)
	}
}

func TestHourlyByDevice(t *testing.T) {
	deviceList := fleet(2, 1.0, devices.TimeOfDay{Hour: 6}, devices.TimeOfDay{Hour: 9})
	service, err := NewService(stubPrices{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	vectors := service.HourlyByDevice(deviceList)
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	for name, vector := range vectors {
		if len(vector) != 24 {
			t.Fatalf("%s: vector length %d, want 24", name, len(vector))
		}
		for hour, value := range vector {
			want := 0.0
			if hour >= 6 && hour < 9 {
				want = 1.0
			}
			if value != want {
				t.Fatalf("%s hour %d: got %f, want %f", name, hour, value, want)
			}
		}
	}
}
