package timefilter

import "errors"

var (
	ErrMinuteOutOfRange = errors.New("minute of day out of range")
	ErrInvalidTimeLabel = errors.New("invalid time label")
)
