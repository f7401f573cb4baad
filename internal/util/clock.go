package util

import "time"

// Clock provides the current time, abstracted so tests can control it.
type Clock interface {
	CurrentUnixNano() int64
}

// WallClock is the Clock used outside of tests.
var WallClock Clock = &wallClock{}

type wallClock struct{}

func (c *wallClock) CurrentUnixNano() int64 {
	return time.Now().UnixNano()
}
