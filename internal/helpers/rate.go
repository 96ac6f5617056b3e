package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// OnceAMinute runs the first call and then at most one call per minute.
var OnceAMinute = onceAMinute()

func onceAMinute() *rate.Sometimes {
	return &rate.Sometimes{
		First:    1,
		Interval: time.Minute,
	}
}
