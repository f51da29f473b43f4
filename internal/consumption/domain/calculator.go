package consumption

import (
	devices "wisewatt-cloud/internal/devices/domain"
)

// HoursPerDay is the length of every hourly usage vector.
const HoursPerDay = 24

// DailyUsage computes a device's energy use over one day in kWh, using the
// fractional duration of its on/off window. A manually operated device runs
// the full day; equal on and off times mean the device never runs.
func DailyUsage(device devices.Device) float64 {
	if device.Schedule.ManuallyOperated {
		return HoursPerDay * device.ConsumptionRate
	}
	if device.Schedule.On.Equal(device.Schedule.Off) {
		return 0
	}
	hours := device.Schedule.Off.Hours() - device.Schedule.On.Hours()
	if hours < 0 {
		hours += HoursPerDay
	}
	return hours * device.ConsumptionRate
}

// HourlyUsage computes a device's energy use per clock hour in kWh.
//
// This is a coarse hour-bucket model: the device counts as fully on for a
// clock hour based only on the hour components of its window, with the off
// hour excluded. A 02:00-05:00 schedule lights hours 2, 3 and 4. The bucket
// count therefore diverges from DailyUsage's fractional duration whenever
// the window has a minute component; both behaviours are load-bearing for
// different callers and are kept as is.
func HourlyUsage(device devices.Device) [HoursPerDay]float64 {
	var usage [HoursPerDay]float64

	if device.Schedule.NeverRuns() {
		return usage
	}
	if device.Schedule.ManuallyOperated {
		for hour := range usage {
			usage[hour] = device.ConsumptionRate
		}
		return usage
	}

	startHour := device.Schedule.On.Hour
	endHour := device.Schedule.Off.Hour
	if endHour < startHour {
		for hour := startHour; hour < HoursPerDay; hour++ {
			usage[hour] = device.ConsumptionRate
		}
		for hour := 0; hour < endHour; hour++ {
			usage[hour] = device.ConsumptionRate
		}
		return usage
	}
	for hour := startHour; hour < endHour; hour++ {
		usage[hour] = device.ConsumptionRate
	}
	return usage
}
