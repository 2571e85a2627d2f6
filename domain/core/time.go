package core

import "time"

// Timestamp is a wall-clock instant recorded on runs and verdicts.
type Timestamp time.Time

func Now() Timestamp {
	return Timestamp(time.Now())
}

// IsZero reports whether t was never set.
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}
