package testutil

import "time"

// TestClock is a Clock whose current time is set by the test.
type TestClock struct {
	CurrentTime int64
}

func (t *TestClock) CurrentUnixNano() int64 {
	return t.CurrentTime
}

// SetTime moves the clock to the given offset from the Unix epoch.
func (t *TestClock) SetTime(offset time.Duration) {
	t.CurrentTime = offset.Nanoseconds()
}
