package schedule

import "errors"

var (
	// ErrInvalidFrequency means the habit is not rescheduled automatically.
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrNegativeQuantity = errors.New("negative quantity")
	ErrTargetAchieved   = errors.New("target already achieved")
	ErrInvalidTimezone  = errors.New("invalid time zone")
)
