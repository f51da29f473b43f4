package application

import (
	"context"
	"errors"
	"fmt"

	consumption "wisewatt-cloud/internal/consumption/domain"
	devices "wisewatt-cloud/internal/devices/domain"
	"wisewatt-cloud/internal/observability/metrics"
	pricing "wisewatt-cloud/internal/pricing/domain"
)

// TotalRowName labels the aggregate row appended to every summary.
const TotalRowName = "Total"

// PriceProvider serves the hourly price table.
type PriceProvider interface {
	Prices(ctx context.Context) ([]pricing.PriceEntry, error)
}

// SummaryRow is one device's daily consumption and cost, or the trailing
// total row.
type SummaryRow struct {
	DeviceName string  `json:"deviceName"`
	DailyUsage float64 `json:"dailyUsage"`
	DailyCost  float64 `json:"dailyCost"`
}

// Service joins device usage with electricity prices.
type Service struct {
	prices PriceProvider
	strict bool
}

// Option configures the service.
type Option func(*Service)

// WithStrictPricing makes a missing price for an hour an error instead of a
// silent zero.
func WithStrictPricing() Option {
	return func(s *Service) { s.strict = true }
}

// NewService constructs a consumption service.
func NewService(prices PriceProvider, opts ...Option) (*Service, error) {
	if prices == nil {
		return nil, errors.New("consumption service: nil price provider")
	}
	service := &Service{prices: prices}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Summary returns per-device daily usage and cost rows followed by a total
// row. The total row is present even for an empty device list.
func (s *Service) Summary(ctx context.Context, deviceList []devices.Device) (rows []SummaryRow, err error) {
	defer func() { metrics.ObserveConsumptionQuery(err) }()

	priceTable, err := s.prices.Prices(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]SummaryRow, 0, len(deviceList)+1)
	var totalUsage, totalCost float64
	for _, device := range deviceList {
		hourlyUsage := consumption.HourlyUsage(device)

		var dailyUsage, dailyCost float64
		for hour := 0; hour < consumption.HoursPerDay; hour++ {
			price, found := priceForHour(priceTable, hour)
			if !found && s.strict && hourlyUsage[hour] > 0 {
				return nil, fmt.Errorf("%w: hour %d", pricing.ErrPriceNotFound, hour)
			}
			dailyUsage += hourlyUsage[hour]
			dailyCost += hourlyUsage[hour] * price
		}

		result = append(result, SummaryRow{DeviceName: device.Name, DailyUsage: dailyUsage, DailyCost: dailyCost})
		totalUsage += dailyUsage
		totalCost += dailyCost
	}

	result = append(result, SummaryRow{DeviceName: TotalRowName, DailyUsage: totalUsage, DailyCost: totalCost})
	return result, nil
}

// DailyPercentageByDevice maps each device name to its share of the set's
// total daily usage. A zero total is reported as ErrNotComputable rather
// than letting the division produce NaN.
func (s *Service) DailyPercentageByDevice(deviceList []devices.Device) (map[string]float64, error) {
	dailyUsage := make(map[string]float64, len(deviceList))
	var total float64
	for _, device := range deviceList {
		usage := consumption.DailyUsage(device)
		dailyUsage[device.Name] = usage
		total += usage
	}

	if total == 0 {
		return nil, consumption.ErrNotComputable
	}

	result := make(map[string]float64, len(dailyUsage))
	for name, usage := range dailyUsage {
		result[name] = usage / total * 100
	}
	return result, nil
}

// HourlyByDevice maps each device name to its 24-slot hourly usage vector.
func (s *Service) HourlyByDevice(deviceList []devices.Device) map[string][]float64 {
	result := make(map[string][]float64, len(deviceList))
	for _, device := range deviceList {
		usage := consumption.HourlyUsage(device)
		result[device.Name] = usage[:]
	}
	return result
}

// priceForHour finds the total price of the first entry whose timestamp has
// the given hour component.
func priceForHour(priceTable []pricing.PriceEntry, hour int) (float64, bool) {
	for _, entry := range priceTable {
		if entry.Timestamp.Hour() == hour {
			return entry.TotalPrice, true
		}
	}
	return 0, false
}
