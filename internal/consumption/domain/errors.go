package consumption

import "errors"

var (
	// ErrNotComputable is returned when percentages are requested for a
	// device set whose total daily usage is zero.
	ErrNotComputable = errors.New("consumption: total usage is zero, percentages not computable")
)
