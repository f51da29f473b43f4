package devices

// Schedule is a device's daily on/off window plus a manual-operation
// override. A schedule may cross midnight (Off earlier than On).
type Schedule struct {
	On               TimeOfDay
	Off              TimeOfDay
	ManuallyOperated bool
}

// RunningAt reports whether a device with this schedule is powered at the
// given clock time. Manually operated devices are always running. The window
// is inclusive on both ends; when it crosses midnight the device runs from
// On until the end of the day and from the start of the day until Off.
func (s Schedule) RunningAt(t TimeOfDay) bool {
	if s.ManuallyOperated {
		return true
	}
	if !s.Off.Before(s.On) {
		return !t.Before(s.On) && !s.Off.Before(t)
	}
	return !t.Before(s.On) || !s.Off.Before(t)
}

// NeverRuns reports the explicit "no consumption" state: identical on and
// off times without manual operation.
func (s Schedule) NeverRuns() bool {
	return s.On.Equal(s.Off) && !s.ManuallyOperated
}

// Validate checks both window bounds.
func (s Schedule) Validate() error {
	if err := s.On.Validate(); err != nil {
		return err
	}
	return s.Off.Validate()
}
